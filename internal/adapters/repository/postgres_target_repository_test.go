package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamersunited/fieldline/internal/core/domain"
)

func buildTarget(t *testing.T, key domain.WeekKey, info, plan, uv int) *domain.WeeklyTarget {
	t.Helper()

	resolver := domain.DefaultWeekResolver()
	win, err := resolver.FridayWindow(key)
	require.NoError(t, err)

	target, err := domain.NewWeeklyTarget(key, win, info, plan, uv)
	require.NoError(t, err)
	return target
}

func TestPostgresTargetRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)
	defer cleanup(t, db)

	irRepo := NewPostgresIRRepository(db)
	teamRepo := NewPostgresTeamRepository(db)
	repo := NewPostgresTargetRepository(db)
	ctx := context.Background()

	owner := seedDBIR(t, irRepo, "TGT01", domain.AccessLDC, nil)

	team, err := domain.NewTeam("Target Team", owner.ID)
	require.NoError(t, err)
	require.NoError(t, teamRepo.Create(ctx, team))

	pocket, err := domain.NewPocket(team.ID, "North", owner.ID)
	require.NoError(t, err)
	require.NoError(t, teamRepo.CreatePocket(ctx, pocket))

	key := domain.WeekKey{Week: 2, Year: 2026}

	t.Run("Upsert And Get For IR", func(t *testing.T) {
		target := buildTarget(t, key, 10, 5, 3)
		target.IRID = &owner.ID
		require.NoError(t, repo.Upsert(ctx, target))

		fetched, err := repo.GetForIR(ctx, owner.ID, key)
		require.NoError(t, err)
		assert.Equal(t, 10, fetched.InfoTarget)
		assert.Equal(t, target.WindowStart.Unix(), fetched.WindowStart.Unix())
	})

	t.Run("Upsert Overwrites Same Week", func(t *testing.T) {
		target := buildTarget(t, key, 20, 8, 4)
		target.IRID = &owner.ID
		require.NoError(t, repo.Upsert(ctx, target))

		fetched, err := repo.GetForIR(ctx, owner.ID, key)
		require.NoError(t, err)
		assert.Equal(t, 20, fetched.InfoTarget)
		assert.Equal(t, 8, fetched.PlanTarget)

		var count int
		err = db.QueryRow("SELECT count(*) FROM weekly_targets WHERE ir_id=$1", owner.ID).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "the second upsert must not add a row")
	})

	t.Run("Team And Pocket Owners", func(t *testing.T) {
		teamTarget := buildTarget(t, key, 100, 50, 30)
		teamTarget.TeamID = &team.ID
		require.NoError(t, repo.Upsert(ctx, teamTarget))

		pocketTarget := buildTarget(t, key, 40, 20, 10)
		pocketTarget.PocketID = &pocket.ID
		require.NoError(t, repo.Upsert(ctx, pocketTarget))

		fetchedTeam, err := repo.GetForTeam(ctx, team.ID, key)
		require.NoError(t, err)
		assert.Equal(t, 100, fetchedTeam.InfoTarget)

		fetchedPocket, err := repo.GetForPocket(ctx, pocket.ID, key)
		require.NoError(t, err)
		assert.Equal(t, 40, fetchedPocket.InfoTarget)
	})

	t.Run("Missing Target", func(t *testing.T) {
		_, err := repo.GetForIR(ctx, owner.ID, domain.WeekKey{Week: 30, Year: 2026})
		assert.ErrorIs(t, err, domain.ErrTargetNotFound)
	})

	t.Run("Ownerless Target Rejected", func(t *testing.T) {
		target := buildTarget(t, key, 1, 1, 1)
		err := repo.Upsert(ctx, target)
		assert.ErrorIs(t, err, domain.ErrTargetOwnerMissing)
	})

	t.Run("List Weeks Newest First", func(t *testing.T) {
		older := buildTarget(t, domain.WeekKey{Week: 52, Year: 2025}, 5, 5, 5)
		older.IRID = &owner.ID
		require.NoError(t, repo.Upsert(ctx, older))

		keys, err := repo.ListWeeks(ctx)
		require.NoError(t, err)
		require.Len(t, keys, 2)
		assert.Equal(t, domain.WeekKey{Week: 2, Year: 2026}, keys[0])
		assert.Equal(t, domain.WeekKey{Week: 52, Year: 2025}, keys[1])
	})
}

func TestPostgresWeekCountRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)
	defer cleanup(t, db)

	irRepo := NewPostgresIRRepository(db)
	repo := NewPostgresWeekCountRepository(db)
	ctx := context.Background()

	owner := seedDBIR(t, irRepo, "CNT01", domain.AccessIR, nil)
	key := domain.WeekKey{Week: 2, Year: 2026}

	t.Run("Save Is An Idempotent Upsert", func(t *testing.T) {
		first := &domain.WeekCounts{IRID: owner.ID, Week: key.Week, Year: key.Year, InfoDone: 3, PlanDone: 1, UVDone: 7}
		require.NoError(t, repo.SaveCounts(ctx, first))

		second := &domain.WeekCounts{IRID: owner.ID, Week: key.Week, Year: key.Year, InfoDone: 4, PlanDone: 2, UVDone: 9}
		require.NoError(t, repo.SaveCounts(ctx, second))

		fetched, err := repo.GetCounts(ctx, owner.ID, key)
		require.NoError(t, err)
		assert.Equal(t, 4, fetched.InfoDone)
		assert.Equal(t, 9, fetched.UVDone)

		var count int
		err = db.QueryRow("SELECT count(*) FROM week_counts WHERE ir_id=$1", owner.ID).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Missing Snapshot Reads As Zero", func(t *testing.T) {
		fetched, err := repo.GetCounts(ctx, owner.ID, domain.WeekKey{Week: 40, Year: 2026})
		require.NoError(t, err)
		assert.Zero(t, fetched.InfoDone)
		assert.Zero(t, fetched.PlanDone)
		assert.Zero(t, fetched.UVDone)
	})
}
