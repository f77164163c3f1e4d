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

type PostgresTargetRepository struct {
	db *sqlx.DB
}

func NewPostgresTargetRepository(db *sqlx.DB) *PostgresTargetRepository {
	return &PostgresTargetRepository{db: db}
}

// ownerColumn picks the conflict target for the upsert. The schema has one
// partial unique index per owner column and (week_number, year).
func ownerColumn(t *domain.WeeklyTarget) (string, error) {
	switch {
	case t.IRID != nil:
		return "ir_id", nil
	case t.TeamID != nil:
		return "team_id", nil
	case t.PocketID != nil:
		return "pocket_id", nil
	}
	return "", domain.ErrTargetOwnerMissing
}

func (r *PostgresTargetRepository) Upsert(ctx context.Context, target *domain.WeeklyTarget) error {
	if err := target.Validate(); err != nil {
		return err
	}
	col, err := ownerColumn(target)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := fmt.Sprintf(`
        INSERT INTO weekly_targets (
            id, week_number, year, window_start, window_end,
            ir_id, team_id, pocket_id,
            info_target, plan_target, uv_target,
            created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (%s, week_number, year) WHERE %s IS NOT NULL
        DO UPDATE SET
            window_start = EXCLUDED.window_start,
            window_end = EXCLUDED.window_end,
            info_target = EXCLUDED.info_target,
            plan_target = EXCLUDED.plan_target,
            uv_target = EXCLUDED.uv_target,
            updated_at = NOW()`, col, col)

	_, err = r.db.ExecContext(ctx, query,
		target.ID, target.Week, target.Year, target.WindowStart, target.WindowEnd,
		target.IRID, target.TeamID, target.PocketID,
		target.InfoTarget, target.PlanTarget, target.UVTarget,
		target.CreatedAt, target.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: upsert target failed: %w", err)
	}

	return nil
}

func (r *PostgresTargetRepository) getByOwner(ctx context.Context, col, ownerID string, key domain.WeekKey) (*domain.WeeklyTarget, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var target domain.WeeklyTarget
	query := fmt.Sprintf(`
        SELECT * FROM weekly_targets
        WHERE %s = $1 AND week_number = $2 AND year = $3`, col)

	if err := r.db.GetContext(ctx, &target, query, ownerID, key.Week, key.Year); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTargetNotFound
		}
		return nil, fmt.Errorf("repository: get target failed: %w", err)
	}

	return &target, nil
}

func (r *PostgresTargetRepository) GetForIR(ctx context.Context, irID string, key domain.WeekKey) (*domain.WeeklyTarget, error) {
	return r.getByOwner(ctx, "ir_id", irID, key)
}

func (r *PostgresTargetRepository) GetForTeam(ctx context.Context, teamID string, key domain.WeekKey) (*domain.WeeklyTarget, error) {
	return r.getByOwner(ctx, "team_id", teamID, key)
}

func (r *PostgresTargetRepository) GetForPocket(ctx context.Context, pocketID string, key domain.WeekKey) (*domain.WeeklyTarget, error) {
	return r.getByOwner(ctx, "pocket_id", pocketID, key)
}

func (r *PostgresTargetRepository) ListWeeks(ctx context.Context) ([]domain.WeekKey, error) {
	query := `
        SELECT DISTINCT week_number, year FROM weekly_targets
        ORDER BY year DESC, week_number DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: list weeks failed: %w", err)
	}
	defer rows.Close()

	var keys []domain.WeekKey
	for rows.Next() {
		var key domain.WeekKey
		if err := rows.Scan(&key.Week, &key.Year); err != nil {
			return nil, fmt.Errorf("repository: week scan failed: %w", err)
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}
