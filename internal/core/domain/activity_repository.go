package domain

import (
	"context"
)

// WeekCounts is the recomputed per-IR snapshot for one WeekKey, written only
// by the recount worker.
type WeekCounts struct {
	IRID     string `json:"ir_id" db:"ir_id"`
	Week     int    `json:"week_number" db:"week_number"`
	Year     int    `json:"year" db:"year"`
	InfoDone int    `json:"info_done" db:"info_done"`
	PlanDone int    `json:"plan_done" db:"plan_done"`
	UVDone   int    `json:"uv_done" db:"uv_done"`
}

type ActivityRepository interface {
	CreateInfo(ctx context.Context, info *InfoDetail) error
	GetInfo(ctx context.Context, id string) (*InfoDetail, error)
	// UpdateInfo must enforce optimistic locking on Version.
	UpdateInfo(ctx context.Context, info *InfoDetail) error
	// DeleteInfo soft-deletes; irID guards ownership.
	DeleteInfo(ctx context.Context, id, irID string) error
	// ListInfos returns an IR's active info records inside the window.
	ListInfos(ctx context.Context, irID string, win WindowSpec) ([]*InfoDetail, error)

	CreatePlan(ctx context.Context, plan *PlanDetail) error
	GetPlan(ctx context.Context, id string) (*PlanDetail, error)
	UpdatePlan(ctx context.Context, plan *PlanDetail) error
	DeletePlan(ctx context.Context, id, irID string) error
	ListPlans(ctx context.Context, irID string, win WindowSpec) ([]*PlanDetail, error)

	CreateUV(ctx context.Context, uv *UVDetail) error
	GetUV(ctx context.Context, id string) (*UVDetail, error)
	UpdateUV(ctx context.Context, uv *UVDetail) error
	DeleteUV(ctx context.Context, id, irID string) error
	ListUVs(ctx context.Context, irID string, win WindowSpec) ([]*UVDetail, error)

	// CountInfos sums active info records per IR over the window, honoring
	// the window's inclusive end.
	CountInfos(ctx context.Context, irIDs []string, win WindowSpec) (map[string]int, error)
	CountPlans(ctx context.Context, irIDs []string, win WindowSpec) (map[string]int, error)
	SumUVs(ctx context.Context, irIDs []string, win WindowSpec) (map[string]int, error)
}

// WeekCountRepository stores the denormalized weekly snapshots. SaveCounts is
// an idempotent upsert keyed by (ir, week, year); the recount worker is its
// single writer.
type WeekCountRepository interface {
	SaveCounts(ctx context.Context, counts *WeekCounts) error
	GetCounts(ctx context.Context, irID string, key WeekKey) (*WeekCounts, error)
}
