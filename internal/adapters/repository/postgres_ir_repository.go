package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dreamersunited/fieldline/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresIRRepository struct {
	db *sqlx.DB
}

func NewPostgresIRRepository(db *sqlx.DB) *PostgresIRRepository {
	return &PostgresIRRepository{db: db}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

const irColumns = `
	ir_id, ir_name, email, password_hash, access_level, active,
	parent_ir_id, hierarchy_path, hierarchy_level,
	started_at, created_at, updated_at`

func (r *PostgresIRRepository) scanRow(row scannable) (*domain.IR, error) {
	var ir domain.IR

	err := row.Scan(
		&ir.ID, &ir.Name, &ir.Email, &ir.PasswordHash, &ir.AccessLevel, &ir.Active,
		&ir.ParentID, &ir.HierarchyPath, &ir.HierarchyLevel,
		&ir.StartedAt, &ir.CreatedAt, &ir.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &ir, nil
}

func (r *PostgresIRRepository) Create(ctx context.Context, ir *domain.IR) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        INSERT INTO irs (
            ir_id, ir_name, email, password_hash, access_level, active,
            parent_ir_id, hierarchy_path, hierarchy_level,
            started_at, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6,
            $7, $8, $9,
            $10, $11, $12
        )`

	_, err := r.db.ExecContext(ctx, query,
		ir.ID, ir.Name, ir.Email, ir.PasswordHash, ir.AccessLevel, ir.Active,
		ir.ParentID, ir.HierarchyPath, ir.HierarchyLevel,
		ir.StartedAt, ir.CreatedAt, ir.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrIRIDTaken
		}
		return fmt.Errorf("repository: create ir failed: %w", err)
	}

	return nil
}

func (r *PostgresIRRepository) GetByID(ctx context.Context, id string) (*domain.IR, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `SELECT ` + irColumns + ` FROM irs WHERE ir_id = $1`

	ir, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIRNotFound
		}
		return nil, fmt.Errorf("repository: get ir by id failed: %w", err)
	}

	return ir, nil
}

func (r *PostgresIRRepository) GetByEmail(ctx context.Context, email string) (*domain.IR, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `SELECT ` + irColumns + ` FROM irs WHERE email = $1`

	ir, err := r.scanRow(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIRNotFound
		}
		return nil, fmt.Errorf("repository: get ir by email failed: %w", err)
	}

	return ir, nil
}

func (r *PostgresIRRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*domain.IR, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: ir query error: %w", err)
	}
	defer rows.Close()

	var irs []*domain.IR
	for rows.Next() {
		ir, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: ir row scan error: %w", err)
		}
		irs = append(irs, ir)
	}

	return irs, rows.Err()
}

func (r *PostgresIRRepository) List(ctx context.Context) ([]*domain.IR, error) {
	query := `SELECT ` + irColumns + ` FROM irs WHERE active = TRUE ORDER BY hierarchy_path ASC`
	return r.queryMany(ctx, query)
}

func (r *PostgresIRRepository) Update(ctx context.Context, ir *domain.IR) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        UPDATE irs SET
            ir_name=$1, email=$2, password_hash=$3, access_level=$4, active=$5,
            updated_at=NOW()
        WHERE ir_id=$6`

	res, err := r.db.ExecContext(ctx, query,
		ir.Name, ir.Email, ir.PasswordHash, ir.AccessLevel, ir.Active, ir.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: update ir failed: %w", err)
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

func (r *PostgresIRRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM irs WHERE ir_id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: delete ir failed: %w", err)
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

func (r *PostgresIRRepository) ListChildren(ctx context.Context, parentID string) ([]*domain.IR, error) {
	query := `SELECT ` + irColumns + ` FROM irs WHERE parent_ir_id = $1 ORDER BY ir_id ASC`
	return r.queryMany(ctx, query, parentID)
}

func (r *PostgresIRRepository) ListSubtree(ctx context.Context, pathPrefix string) ([]*domain.IR, error) {
	// LIKE on the materialized path; prefixes never contain wildcards because
	// ir ids forbid slashes and escapes are not part of the id alphabet.
	query := `SELECT ` + irColumns + ` FROM irs WHERE hierarchy_path LIKE $1 || '%' ORDER BY hierarchy_level ASC, ir_id ASC`
	return r.queryMany(ctx, query, pathPrefix)
}

func (r *PostgresIRRepository) UpdateHierarchy(ctx context.Context, id string, parentID *string, path string, level int) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        UPDATE irs SET
            parent_ir_id=$1, hierarchy_path=$2, hierarchy_level=$3, updated_at=NOW()
        WHERE ir_id=$4`

	res, err := r.db.ExecContext(ctx, query, parentID, path, level, id)
	if err != nil {
		return fmt.Errorf("repository: update hierarchy failed: %w", err)
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
