package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamersunited/fieldline/internal/core/domain"
)

var istZone = time.FixedZone("IST", 5*3600+1800)

func TestPostgresActivityRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)
	defer cleanup(t, db)

	irRepo := NewPostgresIRRepository(db)
	repo := NewPostgresActivityRepository(db)
	ctx := context.Background()

	owner := seedDBIR(t, irRepo, "ACT01", domain.AccessIR, nil)
	other := seedDBIR(t, irRepo, "ACT02", domain.AccessIR, nil)

	resolver := domain.DefaultWeekResolver()
	key := domain.WeekKey{Week: 2, Year: 2026}

	friday, err := resolver.FridayWindow(key)
	require.NoError(t, err)
	monday, err := resolver.MondayWindow(key)
	require.NoError(t, err)

	inWindow := time.Date(2026, time.January, 10, 11, 0, 0, 0, istZone)

	info, err := domain.NewInfoDetail(owner.ID, "Prospect One", domain.InfoResponseA, domain.InfoTypeFresh, inWindow)
	require.NoError(t, err)

	t.Run("Create And Get Info", func(t *testing.T) {
		require.NoError(t, repo.CreateInfo(ctx, info))

		fetched, err := repo.GetInfo(ctx, info.ID)
		require.NoError(t, err)
		assert.Equal(t, "Prospect One", fetched.ProspectName)
		assert.Equal(t, 1, fetched.Version)
		assert.Nil(t, fetched.DeletedAt)
	})

	t.Run("Optimistic Locking On Info Update", func(t *testing.T) {
		copyA, err := repo.GetInfo(ctx, info.ID)
		require.NoError(t, err)
		copyB, err := repo.GetInfo(ctx, info.ID)
		require.NoError(t, err)

		copyB.ProspectName = "B wins"
		require.NoError(t, repo.UpdateInfo(ctx, copyB))
		assert.Equal(t, 2, copyB.Version, "update must bump the version")

		copyA.ProspectName = "A loses"
		err = repo.UpdateInfo(ctx, copyA)
		assert.ErrorIs(t, err, domain.ErrActivityConflict)
	})

	t.Run("Update Missing Info", func(t *testing.T) {
		ghost := *info
		ghost.ID = "00000000-0000-0000-0000-000000000000"
		err := repo.UpdateInfo(ctx, &ghost)
		assert.ErrorIs(t, err, domain.ErrActivityNotFound)
	})

	t.Run("Friday Window Filtering", func(t *testing.T) {
		// Exactly at the inclusive end: Friday Jan 16 2026, 23:45 IST.
		edge, err := domain.NewInfoDetail(owner.ID, "Edge Case", domain.InfoResponseB, domain.InfoTypeFresh,
			time.Date(2026, time.January, 16, 23, 45, 0, 0, istZone))
		require.NoError(t, err)
		require.NoError(t, repo.CreateInfo(ctx, edge))

		// One second past the end belongs to the next week.
		past, err := domain.NewInfoDetail(owner.ID, "Too Late", domain.InfoResponseC, domain.InfoTypeFresh,
			time.Date(2026, time.January, 16, 23, 45, 1, 0, istZone))
		require.NoError(t, err)
		require.NoError(t, repo.CreateInfo(ctx, past))

		infos, err := repo.ListInfos(ctx, owner.ID, friday)
		require.NoError(t, err)
		require.Len(t, infos, 2)
		assert.Equal(t, info.ID, infos[0].ID, "ordered by recorded_at")
		assert.Equal(t, edge.ID, infos[1].ID)
	})

	t.Run("Soft Delete Info", func(t *testing.T) {
		victim, err := domain.NewInfoDetail(owner.ID, "Victim", domain.InfoResponseA, domain.InfoTypeFresh, inWindow)
		require.NoError(t, err)
		require.NoError(t, repo.CreateInfo(ctx, victim))

		// Wrong owner must not delete.
		err = repo.DeleteInfo(ctx, victim.ID, other.ID)
		assert.ErrorIs(t, err, domain.ErrActivityNotFound)

		require.NoError(t, repo.DeleteInfo(ctx, victim.ID, owner.ID))

		_, err = repo.GetInfo(ctx, victim.ID)
		assert.ErrorIs(t, err, domain.ErrActivityNotFound)

		var count int
		err = db.QueryRow("SELECT count(*) FROM info_details WHERE id=$1 AND deleted_at IS NOT NULL", victim.ID).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "the row must survive the soft delete")
	})

	t.Run("Plan Lifecycle In Monday Window", func(t *testing.T) {
		mondayStart := time.Date(2026, time.January, 5, 0, 0, 0, 0, istZone)
		plan, err := domain.NewPlanDetail(owner.ID, "Client Visit", domain.PlanStatusClosingPending, mondayStart)
		require.NoError(t, err)
		require.NoError(t, repo.CreatePlan(ctx, plan))

		plan.Status = domain.PlanStatusClosed
		require.NoError(t, repo.UpdatePlan(ctx, plan))

		plans, err := repo.ListPlans(ctx, owner.ID, monday)
		require.NoError(t, err)
		require.Len(t, plans, 1)
		assert.Equal(t, domain.PlanStatusClosed, plans[0].Status)
	})

	t.Run("UV Lifecycle", func(t *testing.T) {
		uvTime := time.Date(2026, time.January, 11, 23, 59, 59, 0, istZone)
		uv, err := domain.NewUVDetail(owner.ID, "UV Prospect", 3, uvTime)
		require.NoError(t, err)
		require.NoError(t, repo.CreateUV(ctx, uv))

		uvs, err := repo.ListUVs(ctx, owner.ID, monday)
		require.NoError(t, err)
		require.Len(t, uvs, 1, "the Monday window end is inclusive to the second")
		assert.Equal(t, 3, uvs[0].Count)

		require.NoError(t, repo.DeleteUV(ctx, uv.ID, owner.ID))
		uvs, err = repo.ListUVs(ctx, owner.ID, monday)
		require.NoError(t, err)
		assert.Empty(t, uvs)
	})

	t.Run("Aggregates Across IRs", func(t *testing.T) {
		otherInfo, err := domain.NewInfoDetail(other.ID, "Other Prospect", domain.InfoResponseA, domain.InfoTypeFresh, inWindow)
		require.NoError(t, err)
		require.NoError(t, repo.CreateInfo(ctx, otherInfo))

		uv1, err := domain.NewUVDetail(other.ID, "P1", 2, time.Date(2026, time.January, 7, 10, 0, 0, 0, istZone))
		require.NoError(t, err)
		require.NoError(t, repo.CreateUV(ctx, uv1))
		uv2, err := domain.NewUVDetail(other.ID, "P2", 5, time.Date(2026, time.January, 8, 10, 0, 0, 0, istZone))
		require.NoError(t, err)
		require.NoError(t, repo.CreateUV(ctx, uv2))

		counts, err := repo.CountInfos(ctx, []string{owner.ID, other.ID}, friday)
		require.NoError(t, err)
		assert.Equal(t, 2, counts[owner.ID])
		assert.Equal(t, 1, counts[other.ID])

		sums, err := repo.SumUVs(ctx, []string{owner.ID, other.ID}, monday)
		require.NoError(t, err)
		assert.Equal(t, 7, sums[other.ID])
		assert.Zero(t, sums[owner.ID])
	})

	t.Run("Aggregates With No IRs", func(t *testing.T) {
		counts, err := repo.CountPlans(ctx, nil, monday)
		require.NoError(t, err)
		assert.Empty(t, counts)
	})
}
