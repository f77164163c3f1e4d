package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dreamersunited/fieldline/internal/core/domain"
)

type PostgresNotificationRepository struct {
	db *sqlx.DB
}

func NewPostgresNotificationRepository(db *sqlx.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        INSERT INTO notifications (id, recipient_id, type, title, message, read, related_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.RecipientID, n.Type, n.Title, n.Message, n.Read, n.RelatedID, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: create notification failed: %w", err)
	}

	return nil
}

func (r *PostgresNotificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]*domain.Notification, error) {
	query := `SELECT * FROM notifications WHERE recipient_id = $1`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	var notifications []*domain.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, recipientID); err != nil {
		return nil, fmt.Errorf("repository: list notifications failed: %w", err)
	}
	return notifications, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return fmt.Errorf("repository: mark read failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrIRNotFound
	}

	return nil
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND read = FALSE`, recipientID)
	if err != nil {
		return fmt.Errorf("repository: mark all read failed: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM notifications WHERE recipient_id = $1 AND read = FALSE`, recipientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("repository: count unread failed: %w", err)
	}
	return count, nil
}
