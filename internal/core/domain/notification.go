package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationUVAdded NotificationType = "UV_ADDED"
	NotificationNewIR   NotificationType = "NEW_IR"
)

type Notification struct {
	ID          string           `json:"id" db:"id"`
	RecipientID string           `json:"recipient_id" db:"recipient_id"`
	Type        NotificationType `json:"type" db:"type"`
	Title       string           `json:"title" db:"title"`
	Message     string           `json:"message" db:"message"`
	Read        bool             `json:"read" db:"read"`
	RelatedID   string           `json:"related_id,omitempty" db:"related_id"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

func NewNotification(recipientID string, nType NotificationType, title, message, relatedID string) *Notification {
	return &Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Type:        nType,
		Title:       title,
		Message:     message,
		RelatedID:   relatedID,
		CreatedAt:   time.Now().UTC(),
	}
}
