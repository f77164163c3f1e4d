package repository

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamersunited/fieldline/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		dbUser = "fieldline_user"
	}
	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		dbPass = "secret"
	}
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "fieldline_db"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: database connection failed: %v", err)
	}
	return db
}

func cleanup(t *testing.T, db *sqlx.DB) {
	_, err := db.Exec(`TRUNCATE TABLE
        notifications, week_counts, weekly_targets,
        pocket_members, pockets, team_members, teams,
        info_details, plan_details, uv_details, irs CASCADE`)
	require.NoError(t, err, "Failed to clean up database")
}

func seedDBIR(t *testing.T, repo *PostgresIRRepository, id string, level domain.AccessLevel, parent *domain.IR) *domain.IR {
	t.Helper()

	ir, err := domain.NewIR(id, "IR "+id, id+"@fieldline.test", level)
	require.NoError(t, err)
	require.NoError(t, ir.SetPassword("password123"))
	if parent != nil {
		require.NoError(t, ir.SetParent(parent))
	}
	require.NoError(t, repo.Create(context.Background(), ir))
	return ir
}

func TestPostgresIRRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)
	defer cleanup(t, db)

	repo := NewPostgresIRRepository(db)
	ctx := context.Background()

	root := seedDBIR(t, repo, "ROOT01", domain.AccessAdmin, nil)
	mid := seedDBIR(t, repo, "MID01", domain.AccessLDC, root)
	leaf := seedDBIR(t, repo, "LEAF01", domain.AccessIR, mid)

	t.Run("Get By ID", func(t *testing.T) {
		fetched, err := repo.GetByID(ctx, "MID01")
		require.NoError(t, err)
		assert.Equal(t, "MID01", fetched.ID)
		assert.Equal(t, "/ROOT01/MID01/", fetched.HierarchyPath)
		assert.Equal(t, 1, fetched.HierarchyLevel)
		require.NotNil(t, fetched.ParentID)
		assert.Equal(t, "ROOT01", *fetched.ParentID)
	})

	t.Run("Get By Email", func(t *testing.T) {
		fetched, err := repo.GetByEmail(ctx, "leaf01@fieldline.test")
		require.NoError(t, err)
		assert.Equal(t, "LEAF01", fetched.ID)
	})

	t.Run("Duplicate ID Rejected", func(t *testing.T) {
		dup, err := domain.NewIR("ROOT01", "Impostor", "impostor@fieldline.test", domain.AccessIR)
		require.NoError(t, err)

		err = repo.Create(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrIRIDTaken)
	})

	t.Run("Update Profile Fields", func(t *testing.T) {
		mid.Name = "Renamed Mid"
		require.NoError(t, repo.Update(ctx, mid))

		fetched, err := repo.GetByID(ctx, "MID01")
		require.NoError(t, err)
		assert.Equal(t, "Renamed Mid", fetched.Name)
	})

	t.Run("List Orders By Path", func(t *testing.T) {
		irs, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, irs, 3)
		assert.Equal(t, "ROOT01", irs[0].ID)
		assert.Equal(t, "MID01", irs[1].ID)
		assert.Equal(t, "LEAF01", irs[2].ID)
	})

	t.Run("List Children", func(t *testing.T) {
		children, err := repo.ListChildren(ctx, "ROOT01")
		require.NoError(t, err)
		require.Len(t, children, 1)
		assert.Equal(t, "MID01", children[0].ID)
	})

	t.Run("List Subtree", func(t *testing.T) {
		irs, err := repo.ListSubtree(ctx, mid.HierarchyPath)
		require.NoError(t, err)
		require.Len(t, irs, 2)
		assert.Equal(t, "MID01", irs[0].ID, "subtree root comes first, ordered by level")
		assert.Equal(t, "LEAF01", irs[1].ID)
	})

	t.Run("Update Hierarchy", func(t *testing.T) {
		rootID := root.ID
		err := repo.UpdateHierarchy(ctx, leaf.ID, &rootID, "/ROOT01/LEAF01/", 1)
		require.NoError(t, err)

		fetched, err := repo.GetByID(ctx, "LEAF01")
		require.NoError(t, err)
		assert.Equal(t, "/ROOT01/LEAF01/", fetched.HierarchyPath)
		assert.Equal(t, 1, fetched.HierarchyLevel)
	})

	t.Run("Delete Removes Row", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "LEAF01"))

		_, err := repo.GetByID(ctx, "LEAF01")
		assert.ErrorIs(t, err, domain.ErrIRNotFound)
	})

	t.Run("Not Found Errors", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "GHOST")
		assert.ErrorIs(t, err, domain.ErrIRNotFound)

		ghost := *root
		ghost.ID = "GHOST"
		assert.ErrorIs(t, repo.Update(ctx, &ghost), domain.ErrIRNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "GHOST"), domain.ErrIRNotFound)
		assert.ErrorIs(t, repo.UpdateHierarchy(ctx, "GHOST", nil, "/GHOST/", 0), domain.ErrIRNotFound)
	})

	t.Run("Stored Password Survives Round Trip", func(t *testing.T) {
		fetched, err := repo.GetByID(ctx, "ROOT01")
		require.NoError(t, err)
		assert.NoError(t, fetched.CheckPassword("password123"))
	})
}
