package domain

import (
	"context"
)

type TeamRepository interface {
	Create(ctx context.Context, team *Team) error
	GetByID(ctx context.Context, id string) (*Team, error)
	List(ctx context.Context) ([]*Team, error)
	Update(ctx context.Context, team *Team) error
	Delete(ctx context.Context, id string) error

	// AddMember returns ErrAlreadyMember on the unique (team, ir) pair.
	AddMember(ctx context.Context, member *TeamMember) error
	RemoveMember(ctx context.Context, teamID, irID string) error
	ListMembers(ctx context.Context, teamID string) ([]*TeamMember, error)
	ListTeamsByIR(ctx context.Context, irID string) ([]*Team, error)
	GetMember(ctx context.Context, teamID, irID string) (*TeamMember, error)

	CreatePocket(ctx context.Context, pocket *Pocket) error
	GetPocket(ctx context.Context, id string) (*Pocket, error)
	ListPockets(ctx context.Context, teamID string) ([]*Pocket, error)
	UpdatePocket(ctx context.Context, pocket *Pocket) error
	DeletePocket(ctx context.Context, id string) error

	AddPocketMember(ctx context.Context, member *PocketMember) error
	RemovePocketMember(ctx context.Context, pocketID, irID string) error
	ListPocketMembers(ctx context.Context, pocketID string) ([]*PocketMember, error)
}
