package services

import (
	"context"

	"github.com/dreamersunited/fieldline/internal/core/domain"
)

type NotificationService struct {
	repo domain.NotificationRepository
}

func NewNotificationService(repo domain.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) List(ctx context.Context, irID string, unreadOnly bool) ([]*domain.Notification, error) {
	return s.repo.ListByRecipient(ctx, irID, unreadOnly)
}

func (s *NotificationService) MarkRead(ctx context.Context, irID, notificationID string) error {
	return s.repo.MarkRead(ctx, notificationID, irID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, irID string) error {
	return s.repo.MarkAllRead(ctx, irID)
}

func (s *NotificationService) CountUnread(ctx context.Context, irID string) (int, error) {
	return s.repo.CountUnread(ctx, irID)
}
