package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dreamersunited/fieldline/internal/core/domain"
)

// PostgresWeekCountRepository stores the recount worker's weekly snapshots.
// SaveCounts is an upsert keyed by (ir_id, week_number, year) so replays are
// harmless.
type PostgresWeekCountRepository struct {
	db *sqlx.DB
}

func NewPostgresWeekCountRepository(db *sqlx.DB) *PostgresWeekCountRepository {
	return &PostgresWeekCountRepository{db: db}
}

func (r *PostgresWeekCountRepository) SaveCounts(ctx context.Context, counts *domain.WeekCounts) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        INSERT INTO week_counts (ir_id, week_number, year, info_done, plan_done, uv_done, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        ON CONFLICT (ir_id, week_number, year)
        DO UPDATE SET
            info_done = EXCLUDED.info_done,
            plan_done = EXCLUDED.plan_done,
            uv_done = EXCLUDED.uv_done,
            updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query,
		counts.IRID, counts.Week, counts.Year,
		counts.InfoDone, counts.PlanDone, counts.UVDone,
	)
	if err != nil {
		return fmt.Errorf("repository: save week counts failed: %w", err)
	}

	return nil
}

func (r *PostgresWeekCountRepository) GetCounts(ctx context.Context, irID string, key domain.WeekKey) (*domain.WeekCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var counts domain.WeekCounts
	query := `
        SELECT ir_id, week_number, year, info_done, plan_done, uv_done
        FROM week_counts
        WHERE ir_id = $1 AND week_number = $2 AND year = $3`

	err := r.db.QueryRowContext(ctx, query, irID, key.Week, key.Year).Scan(
		&counts.IRID, &counts.Week, &counts.Year,
		&counts.InfoDone, &counts.PlanDone, &counts.UVDone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Absent snapshot reads as zero progress.
			return &domain.WeekCounts{IRID: irID, Week: key.Week, Year: key.Year}, nil
		}
		return nil, fmt.Errorf("repository: get week counts failed: %w", err)
	}

	return &counts, nil
}
