package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTeamNotFound    = errors.New("team not found")
	ErrTeamNameEmpty   = errors.New("team name cannot be empty")
	ErrTeamNameTooLong = errors.New("team name is too long (max 100 chars)")
	ErrAlreadyMember   = errors.New("ir is already a member of this team")
	ErrNotMember       = errors.New("ir is not a member of this team")
	ErrPocketNotFound  = errors.New("pocket not found")
	ErrPocketNameTaken = errors.New("pocket name already used in this team")
	ErrNotPocketMember = errors.New("ir is not a member of this pocket")
	ErrAlreadyInPocket = errors.New("ir is already in this pocket")
	ErrInvalidTeamRole = errors.New("invalid team role")
)

const MaxTeamNameLen = 100

// TeamRole is the role an IR holds inside one team, independent of its
// global access level.
type TeamRole string

const (
	TeamRoleAdmin TeamRole = "ADMIN"
	TeamRoleCTC   TeamRole = "CTC"
	TeamRoleLDC   TeamRole = "LDC"
	TeamRoleLS    TeamRole = "LS"
	TeamRoleGC    TeamRole = "GC"
	TeamRoleIR    TeamRole = "IR"
)

func (r TeamRole) Valid() bool {
	switch r {
	case TeamRoleAdmin, TeamRoleCTC, TeamRoleLDC, TeamRoleLS, TeamRoleGC, TeamRoleIR:
		return true
	}
	return false
}

type Team struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedBy *string   `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewTeam(name, creatorID string) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTeamNameEmpty
	}
	if len(name) > MaxTeamNameLen {
		return nil, ErrTeamNameTooLong
	}

	now := time.Now().UTC()
	team := &Team{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if creatorID != "" {
		team.CreatedBy = &creatorID
	}
	return team, nil
}

func (t *Team) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrTeamNameEmpty
	}
	if len(name) > MaxTeamNameLen {
		return ErrTeamNameTooLong
	}
	t.Name = name
	t.UpdatedAt = time.Now().UTC()
	return nil
}

type TeamMember struct {
	TeamID   string    `json:"team_id" db:"team_id"`
	IRID     string    `json:"ir_id" db:"ir_id"`
	Role     TeamRole  `json:"role" db:"role"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}

// Pocket is a named sub-group within a team, used to split team targets.
type Pocket struct {
	ID        string    `json:"id" db:"id"`
	TeamID    string    `json:"team_id" db:"team_id"`
	Name      string    `json:"name" db:"name"`
	CreatedBy *string   `json:"created_by,omitempty" db:"created_by"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewPocket(teamID, name, creatorID string) (*Pocket, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTeamNameEmpty
	}
	if len(name) > MaxTeamNameLen {
		return nil, ErrTeamNameTooLong
	}

	now := time.Now().UTC()
	p := &Pocket{
		ID:        uuid.NewString(),
		TeamID:    teamID,
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if creatorID != "" {
		p.CreatedBy = &creatorID
	}
	return p, nil
}

type PocketMember struct {
	PocketID string    `json:"pocket_id" db:"pocket_id"`
	TeamID   string    `json:"team_id" db:"team_id"`
	IRID     string    `json:"ir_id" db:"ir_id"`
	Role     TeamRole  `json:"role" db:"role"`
	IsHead   bool      `json:"is_head" db:"is_head"`
	AddedBy  *string   `json:"added_by,omitempty" db:"added_by"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}
