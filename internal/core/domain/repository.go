package domain

import (
	"context"
)

type IRRepository interface {
	// Create persists a new IR. Returns ErrIRIDTaken on duplicate id/email.
	Create(ctx context.Context, ir *IR) error

	GetByID(ctx context.Context, id string) (*IR, error)

	GetByEmail(ctx context.Context, email string) (*IR, error)

	// List retrieves every active IR.
	List(ctx context.Context) ([]*IR, error)

	Update(ctx context.Context, ir *IR) error

	// Delete removes the IR row. Reconnecting children is the service's job
	// and must happen before the delete.
	Delete(ctx context.Context, id string) error

	// ListChildren retrieves the direct downlines of an IR.
	ListChildren(ctx context.Context, parentID string) ([]*IR, error)

	// ListSubtree retrieves every IR whose hierarchy path starts with the
	// given prefix, the IR owning the prefix included.
	ListSubtree(ctx context.Context, pathPrefix string) ([]*IR, error)

	// UpdateHierarchy rewrites parent, path and level for one IR. Used by
	// reparent/delete flows that touch many descendants.
	UpdateHierarchy(ctx context.Context, id string, parentID *string, path string, level int) error
}
