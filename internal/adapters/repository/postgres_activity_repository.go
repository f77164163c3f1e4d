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

type PostgresActivityRepository struct {
	db *sqlx.DB
}

func NewPostgresActivityRepository(db *sqlx.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

// windowClause renders the recorded_at filter for a WindowSpec. The end
// comparison flips between < and <= depending on EndInclusive.
func windowClause(col string, firstArg int, win domain.WindowSpec) string {
	endOp := "<"
	if win.EndInclusive {
		endOp = "<="
	}
	return fmt.Sprintf("%s >= $%d AND %s %s $%d", col, firstArg, col, endOp, firstArg+1)
}

func (r *PostgresActivityRepository) CreateInfo(ctx context.Context, info *domain.InfoDetail) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        INSERT INTO info_details (
            id, ir_id, prospect_name, response, info_type, comments, recorded_at,
            version, deleted_at, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, NULL, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		info.ID, info.IRID, info.ProspectName, info.Response, info.Type, info.Comments, info.RecordedAt,
		info.CreatedAt, info.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: create info failed: %w", err)
	}

	info.Version = 1
	return nil
}

func (r *PostgresActivityRepository) GetInfo(ctx context.Context, id string) (*domain.InfoDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var info domain.InfoDetail
	query := `SELECT * FROM info_details WHERE id = $1 AND deleted_at IS NULL`

	if err := r.db.GetContext(ctx, &info, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, fmt.Errorf("repository: get info failed: %w", err)
	}

	return &info, nil
}

func (r *PostgresActivityRepository) UpdateInfo(ctx context.Context, info *domain.InfoDetail) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        UPDATE info_details SET
            prospect_name=$1, response=$2, info_type=$3, comments=$4,
            updated_at=NOW(), version = version + 1
        WHERE id=$5 AND version=$6 AND deleted_at IS NULL
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		info.ProspectName, info.Response, info.Type, info.Comments,
		info.ID, info.Version,
	)

	if err := row.Scan(&info.Version, &info.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.versionConflictOrMissing(ctx, "info_details", info.ID)
		}
		return fmt.Errorf("repository: update info failed: %w", err)
	}

	return nil
}

// versionConflictOrMissing disambiguates an optimistic-lock miss from a
// genuinely absent row.
func (r *PostgresActivityRepository) versionConflictOrMissing(ctx context.Context, table, id string) error {
	var count int
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE id = $1 AND deleted_at IS NULL`, table)
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return fmt.Errorf("repository: existence check failed: %w", err)
	}
	if count == 0 {
		return domain.ErrActivityNotFound
	}
	return domain.ErrActivityConflict
}

func (r *PostgresActivityRepository) softDelete(ctx context.Context, table, id, irID string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := fmt.Sprintf(`
        UPDATE %s
        SET deleted_at = NOW(), updated_at = NOW(), version = version + 1
        WHERE id = $1 AND ir_id = $2 AND deleted_at IS NULL`, table)

	res, err := r.db.ExecContext(ctx, query, id, irID)
	if err != nil {
		return fmt.Errorf("repository: soft delete failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrActivityNotFound
	}

	return nil
}

func (r *PostgresActivityRepository) DeleteInfo(ctx context.Context, id, irID string) error {
	return r.softDelete(ctx, "info_details", id, irID)
}

func (r *PostgresActivityRepository) ListInfos(ctx context.Context, irID string, win domain.WindowSpec) ([]*domain.InfoDetail, error) {
	query := `
        SELECT * FROM info_details
        WHERE ir_id = $1 AND deleted_at IS NULL AND ` + windowClause("recorded_at", 2, win) + `
        ORDER BY recorded_at ASC`

	var infos []*domain.InfoDetail
	if err := r.db.SelectContext(ctx, &infos, query, irID, win.Start, win.End); err != nil {
		return nil, fmt.Errorf("repository: list infos failed: %w", err)
	}
	return infos, nil
}

func (r *PostgresActivityRepository) CreatePlan(ctx context.Context, plan *domain.PlanDetail) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        INSERT INTO plan_details (
            id, ir_id, plan_name, status, comments, recorded_at,
            version, deleted_at, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, 1, NULL, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		plan.ID, plan.IRID, plan.Name, plan.Status, plan.Comments, plan.RecordedAt,
		plan.CreatedAt, plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: create plan failed: %w", err)
	}

	plan.Version = 1
	return nil
}

func (r *PostgresActivityRepository) GetPlan(ctx context.Context, id string) (*domain.PlanDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var plan domain.PlanDetail
	query := `SELECT * FROM plan_details WHERE id = $1 AND deleted_at IS NULL`

	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, fmt.Errorf("repository: get plan failed: %w", err)
	}

	return &plan, nil
}

func (r *PostgresActivityRepository) UpdatePlan(ctx context.Context, plan *domain.PlanDetail) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        UPDATE plan_details SET
            plan_name=$1, status=$2, comments=$3,
            updated_at=NOW(), version = version + 1
        WHERE id=$4 AND version=$5 AND deleted_at IS NULL
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		plan.Name, plan.Status, plan.Comments,
		plan.ID, plan.Version,
	)

	if err := row.Scan(&plan.Version, &plan.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.versionConflictOrMissing(ctx, "plan_details", plan.ID)
		}
		return fmt.Errorf("repository: update plan failed: %w", err)
	}

	return nil
}

func (r *PostgresActivityRepository) DeletePlan(ctx context.Context, id, irID string) error {
	return r.softDelete(ctx, "plan_details", id, irID)
}

func (r *PostgresActivityRepository) ListPlans(ctx context.Context, irID string, win domain.WindowSpec) ([]*domain.PlanDetail, error) {
	query := `
        SELECT * FROM plan_details
        WHERE ir_id = $1 AND deleted_at IS NULL AND ` + windowClause("recorded_at", 2, win) + `
        ORDER BY recorded_at ASC`

	var plans []*domain.PlanDetail
	if err := r.db.SelectContext(ctx, &plans, query, irID, win.Start, win.End); err != nil {
		return nil, fmt.Errorf("repository: list plans failed: %w", err)
	}
	return plans, nil
}

func (r *PostgresActivityRepository) CreateUV(ctx context.Context, uv *domain.UVDetail) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        INSERT INTO uv_details (
            id, ir_id, prospect_name, uv_count, comments, recorded_at,
            version, deleted_at, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, 1, NULL, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		uv.ID, uv.IRID, uv.ProspectName, uv.Count, uv.Comments, uv.RecordedAt,
		uv.CreatedAt, uv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: create uv failed: %w", err)
	}

	uv.Version = 1
	return nil
}

func (r *PostgresActivityRepository) GetUV(ctx context.Context, id string) (*domain.UVDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var uv domain.UVDetail
	query := `SELECT * FROM uv_details WHERE id = $1 AND deleted_at IS NULL`

	if err := r.db.GetContext(ctx, &uv, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, fmt.Errorf("repository: get uv failed: %w", err)
	}

	return &uv, nil
}

func (r *PostgresActivityRepository) UpdateUV(ctx context.Context, uv *domain.UVDetail) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        UPDATE uv_details SET
            prospect_name=$1, uv_count=$2, comments=$3,
            updated_at=NOW(), version = version + 1
        WHERE id=$4 AND version=$5 AND deleted_at IS NULL
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		uv.ProspectName, uv.Count, uv.Comments,
		uv.ID, uv.Version,
	)

	if err := row.Scan(&uv.Version, &uv.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.versionConflictOrMissing(ctx, "uv_details", uv.ID)
		}
		return fmt.Errorf("repository: update uv failed: %w", err)
	}

	return nil
}

func (r *PostgresActivityRepository) DeleteUV(ctx context.Context, id, irID string) error {
	return r.softDelete(ctx, "uv_details", id, irID)
}

func (r *PostgresActivityRepository) ListUVs(ctx context.Context, irID string, win domain.WindowSpec) ([]*domain.UVDetail, error) {
	query := `
        SELECT * FROM uv_details
        WHERE ir_id = $1 AND deleted_at IS NULL AND ` + windowClause("recorded_at", 2, win) + `
        ORDER BY recorded_at ASC`

	var uvs []*domain.UVDetail
	if err := r.db.SelectContext(ctx, &uvs, query, irID, win.Start, win.End); err != nil {
		return nil, fmt.Errorf("repository: list uvs failed: %w", err)
	}
	return uvs, nil
}

func (r *PostgresActivityRepository) aggregate(ctx context.Context, query string, irIDs []string, win domain.WindowSpec) (map[string]int, error) {
	query, args, err := sqlx.In(query, irIDs, win.Start, win.End)
	if err != nil {
		return nil, fmt.Errorf("repository: aggregate query build failed: %w", err)
	}
	query = r.db.Rebind(query)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: aggregate query failed: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int, len(irIDs))
	for rows.Next() {
		var irID string
		var n int
		if err := rows.Scan(&irID, &n); err != nil {
			return nil, fmt.Errorf("repository: aggregate scan failed: %w", err)
		}
		counts[irID] = n
	}

	return counts, rows.Err()
}

func (r *PostgresActivityRepository) CountInfos(ctx context.Context, irIDs []string, win domain.WindowSpec) (map[string]int, error) {
	if len(irIDs) == 0 {
		return map[string]int{}, nil
	}
	query := `
        SELECT ir_id, count(*) FROM info_details
        WHERE ir_id IN (?) AND deleted_at IS NULL AND ` + windowClauseIn("recorded_at", win) + `
        GROUP BY ir_id`
	return r.aggregate(ctx, query, irIDs, win)
}

func (r *PostgresActivityRepository) CountPlans(ctx context.Context, irIDs []string, win domain.WindowSpec) (map[string]int, error) {
	if len(irIDs) == 0 {
		return map[string]int{}, nil
	}
	query := `
        SELECT ir_id, count(*) FROM plan_details
        WHERE ir_id IN (?) AND deleted_at IS NULL AND ` + windowClauseIn("recorded_at", win) + `
        GROUP BY ir_id`
	return r.aggregate(ctx, query, irIDs, win)
}

func (r *PostgresActivityRepository) SumUVs(ctx context.Context, irIDs []string, win domain.WindowSpec) (map[string]int, error) {
	if len(irIDs) == 0 {
		return map[string]int{}, nil
	}
	query := `
        SELECT ir_id, coalesce(sum(uv_count), 0) FROM uv_details
        WHERE ir_id IN (?) AND deleted_at IS NULL AND ` + windowClauseIn("recorded_at", win) + `
        GROUP BY ir_id`
	return r.aggregate(ctx, query, irIDs, win)
}

// windowClauseIn is the sqlx.In flavoured variant using ? placeholders.
func windowClauseIn(col string, win domain.WindowSpec) string {
	endOp := "<"
	if win.EndInclusive {
		endOp = "<="
	}
	return fmt.Sprintf("%s >= ? AND %s %s ?", col, col, endOp)
}
