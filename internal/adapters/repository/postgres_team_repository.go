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
)

type PostgresTeamRepository struct {
	db *sqlx.DB
}

func NewPostgresTeamRepository(db *sqlx.DB) *PostgresTeamRepository {
	return &PostgresTeamRepository{db: db}
}

func (r *PostgresTeamRepository) Create(ctx context.Context, team *domain.Team) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        INSERT INTO teams (id, name, created_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		team.ID, team.Name, team.CreatedBy, team.CreatedAt, team.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: create team failed: %w", err)
	}

	return nil
}

func (r *PostgresTeamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var team domain.Team
	query := `SELECT * FROM teams WHERE id = $1`

	if err := r.db.GetContext(ctx, &team, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, fmt.Errorf("repository: get team failed: %w", err)
	}

	return &team, nil
}

func (r *PostgresTeamRepository) List(ctx context.Context) ([]*domain.Team, error) {
	var teams []*domain.Team
	query := `SELECT * FROM teams ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &teams, query); err != nil {
		return nil, fmt.Errorf("repository: list teams failed: %w", err)
	}
	return teams, nil
}

func (r *PostgresTeamRepository) Update(ctx context.Context, team *domain.Team) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `UPDATE teams SET name=$1, updated_at=NOW() WHERE id=$2`

	res, err := r.db.ExecContext(ctx, query, team.Name, team.ID)
	if err != nil {
		return fmt.Errorf("repository: update team failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTeamNotFound
	}

	return nil
}

func (r *PostgresTeamRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: delete team failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTeamNotFound
	}

	return nil
}

func (r *PostgresTeamRepository) AddMember(ctx context.Context, member *domain.TeamMember) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        INSERT INTO team_members (team_id, ir_id, role, joined_at)
        VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		member.TeamID, member.IRID, member.Role, member.JoinedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrAlreadyMember
		}
		return fmt.Errorf("repository: add member failed: %w", err)
	}

	return nil
}

func (r *PostgresTeamRepository) RemoveMember(ctx context.Context, teamID, irID string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM team_members WHERE team_id = $1 AND ir_id = $2`, teamID, irID)
	if err != nil {
		return fmt.Errorf("repository: remove member failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotMember
	}

	return nil
}

func (r *PostgresTeamRepository) ListMembers(ctx context.Context, teamID string) ([]*domain.TeamMember, error) {
	var members []*domain.TeamMember
	query := `SELECT * FROM team_members WHERE team_id = $1 ORDER BY joined_at ASC`

	if err := r.db.SelectContext(ctx, &members, query, teamID); err != nil {
		return nil, fmt.Errorf("repository: list members failed: %w", err)
	}
	return members, nil
}

func (r *PostgresTeamRepository) ListTeamsByIR(ctx context.Context, irID string) ([]*domain.Team, error) {
	var teams []*domain.Team
	query := `
        SELECT t.* FROM teams t
        JOIN team_members m ON m.team_id = t.id
        WHERE m.ir_id = $1
        ORDER BY t.created_at DESC`

	if err := r.db.SelectContext(ctx, &teams, query, irID); err != nil {
		return nil, fmt.Errorf("repository: list teams by ir failed: %w", err)
	}
	return teams, nil
}

func (r *PostgresTeamRepository) GetMember(ctx context.Context, teamID, irID string) (*domain.TeamMember, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var member domain.TeamMember
	query := `SELECT * FROM team_members WHERE team_id = $1 AND ir_id = $2`

	if err := r.db.GetContext(ctx, &member, query, teamID, irID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotMember
		}
		return nil, fmt.Errorf("repository: get member failed: %w", err)
	}

	return &member, nil
}

func (r *PostgresTeamRepository) CreatePocket(ctx context.Context, pocket *domain.Pocket) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        INSERT INTO pockets (id, team_id, name, created_by, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		pocket.ID, pocket.TeamID, pocket.Name, pocket.CreatedBy, pocket.Active,
		pocket.CreatedAt, pocket.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrPocketNameTaken
		}
		return fmt.Errorf("repository: create pocket failed: %w", err)
	}

	return nil
}

func (r *PostgresTeamRepository) GetPocket(ctx context.Context, id string) (*domain.Pocket, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var pocket domain.Pocket
	query := `SELECT * FROM pockets WHERE id = $1`

	if err := r.db.GetContext(ctx, &pocket, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPocketNotFound
		}
		return nil, fmt.Errorf("repository: get pocket failed: %w", err)
	}

	return &pocket, nil
}

func (r *PostgresTeamRepository) ListPockets(ctx context.Context, teamID string) ([]*domain.Pocket, error) {
	var pockets []*domain.Pocket
	query := `SELECT * FROM pockets WHERE team_id = $1 ORDER BY name ASC`

	if err := r.db.SelectContext(ctx, &pockets, query, teamID); err != nil {
		return nil, fmt.Errorf("repository: list pockets failed: %w", err)
	}
	return pockets, nil
}

func (r *PostgresTeamRepository) UpdatePocket(ctx context.Context, pocket *domain.Pocket) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `UPDATE pockets SET name=$1, active=$2, updated_at=NOW() WHERE id=$3`

	res, err := r.db.ExecContext(ctx, query, pocket.Name, pocket.Active, pocket.ID)
	if err != nil {
		return fmt.Errorf("repository: update pocket failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrPocketNotFound
	}

	return nil
}

func (r *PostgresTeamRepository) DeletePocket(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM pockets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: delete pocket failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrPocketNotFound
	}

	return nil
}

func (r *PostgresTeamRepository) AddPocketMember(ctx context.Context, member *domain.PocketMember) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
        INSERT INTO pocket_members (pocket_id, team_id, ir_id, role, is_head, added_by, joined_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		member.PocketID, member.TeamID, member.IRID, member.Role, member.IsHead,
		member.AddedBy, member.JoinedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrAlreadyInPocket
		}
		return fmt.Errorf("repository: add pocket member failed: %w", err)
	}

	return nil
}

func (r *PostgresTeamRepository) RemovePocketMember(ctx context.Context, pocketID, irID string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM pocket_members WHERE pocket_id = $1 AND ir_id = $2`, pocketID, irID)
	if err != nil {
		return fmt.Errorf("repository: remove pocket member failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotPocketMember
	}

	return nil
}

func (r *PostgresTeamRepository) ListPocketMembers(ctx context.Context, pocketID string) ([]*domain.PocketMember, error) {
	var members []*domain.PocketMember
	query := `SELECT * FROM pocket_members WHERE pocket_id = $1 ORDER BY joined_at ASC`

	if err := r.db.SelectContext(ctx, &members, query, pocketID); err != nil {
		return nil, fmt.Errorf("repository: list pocket members failed: %w", err)
	}
	return members, nil
}
