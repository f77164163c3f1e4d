package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTargetNotFound     = errors.New("weekly target not found")
	ErrTargetOwnerMissing = errors.New("weekly target needs exactly one owner (ir, team or pocket)")
	ErrNegativeTarget     = errors.New("targets cannot be negative")
)

// WeeklyTarget holds the goals for one owner and one WeekKey. WindowStart and
// WindowEnd are denormalized from the resolver at set time so reporting
// queries never recompute them with a different rule.
type WeeklyTarget struct {
	ID   string `json:"id" db:"id"`
	Week int    `json:"week_number" db:"week_number"`
	Year int    `json:"year" db:"year"`

	WindowStart time.Time `json:"window_start" db:"window_start"`
	WindowEnd   time.Time `json:"window_end" db:"window_end"`

	IRID     *string `json:"ir_id,omitempty" db:"ir_id"`
	TeamID   *string `json:"team_id,omitempty" db:"team_id"`
	PocketID *string `json:"pocket_id,omitempty" db:"pocket_id"`

	InfoTarget int `json:"info_target" db:"info_target"`
	PlanTarget int `json:"plan_target" db:"plan_target"`
	UVTarget   int `json:"uv_target" db:"uv_target"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewWeeklyTarget(key WeekKey, win WindowSpec, info, plan, uv int) (*WeeklyTarget, error) {
	if info < 0 || plan < 0 || uv < 0 {
		return nil, ErrNegativeTarget
	}

	now := time.Now().UTC()
	return &WeeklyTarget{
		ID:          uuid.NewString(),
		Week:        key.Week,
		Year:        key.Year,
		WindowStart: win.Start,
		WindowEnd:   win.End,
		InfoTarget:  info,
		PlanTarget:  plan,
		UVTarget:    uv,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (t *WeeklyTarget) Key() WeekKey {
	return WeekKey{Week: t.Week, Year: t.Year}
}

// Validate enforces the exactly-one-owner rule.
func (t *WeeklyTarget) Validate() error {
	owners := 0
	if t.IRID != nil {
		owners++
	}
	if t.TeamID != nil {
		owners++
	}
	if t.PocketID != nil {
		owners++
	}
	if owners != 1 {
		return ErrTargetOwnerMissing
	}
	if t.InfoTarget < 0 || t.PlanTarget < 0 || t.UVTarget < 0 {
		return ErrNegativeTarget
	}
	return nil
}
