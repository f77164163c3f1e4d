package domain

import (
	"context"
)

type TargetRepository interface {
	// Upsert writes the target for its owner and week, overwriting any
	// previous row for the same (owner, week, year).
	Upsert(ctx context.Context, target *WeeklyTarget) error

	GetForIR(ctx context.Context, irID string, key WeekKey) (*WeeklyTarget, error)
	GetForTeam(ctx context.Context, teamID string, key WeekKey) (*WeeklyTarget, error)
	GetForPocket(ctx context.Context, pocketID string, key WeekKey) (*WeeklyTarget, error)

	// ListWeeks returns every distinct WeekKey that has at least one target,
	// newest first. Backs the available-weeks endpoint.
	ListWeeks(ctx context.Context) ([]WeekKey, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]*Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) error
	CountUnread(ctx context.Context, recipientID string) (int, error)
}
