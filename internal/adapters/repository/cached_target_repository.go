package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dreamersunited/fieldline/internal/core/domain"
)

var _ domain.TargetRepository = (*CachedTargetRepository)(nil)

// CachedTargetRepository fronts a TargetRepository with a Redis read-through.
// Targets are written rarely and read on every dashboard load.
type CachedTargetRepository struct {
	next  domain.TargetRepository
	cache *redis.Client
}

func NewCachedTargetRepository(next domain.TargetRepository, cache *redis.Client) *CachedTargetRepository {
	return &CachedTargetRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedTargetRepository) cacheKey(owner, ownerID string, key domain.WeekKey) string {
	return fmt.Sprintf("target:%s:%s:%d-%d", owner, ownerID, key.Year, key.Week)
}

func (r *CachedTargetRepository) invalidate(ctx context.Context, owner, ownerID string, key domain.WeekKey) {
	if err := r.cache.Del(ctx, r.cacheKey(owner, ownerID, key)).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate target for %s %s: %v", owner, ownerID, err)
	}
}

func (r *CachedTargetRepository) getThrough(
	ctx context.Context,
	owner, ownerID string,
	key domain.WeekKey,
	fetch func(context.Context, string, domain.WeekKey) (*domain.WeeklyTarget, error),
) (*domain.WeeklyTarget, error) {
	cacheKey := r.cacheKey(owner, ownerID, key)

	val, err := r.cache.Get(ctx, cacheKey).Result()
	if err == nil {
		var target domain.WeeklyTarget
		if err := json.Unmarshal([]byte(val), &target); err == nil {
			return &target, nil
		}

		log.Printf("[CACHE] Corrupted target data for %s %s, cleaning up key", owner, ownerID)
		r.cache.Del(ctx, cacheKey)
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	target, err := fetch(ctx, ownerID, key)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(target); err == nil {
		if setErr := r.cache.Set(ctx, cacheKey, data, 30*time.Minute).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return target, nil
}

func (r *CachedTargetRepository) GetForIR(ctx context.Context, irID string, key domain.WeekKey) (*domain.WeeklyTarget, error) {
	return r.getThrough(ctx, "ir", irID, key, r.next.GetForIR)
}

func (r *CachedTargetRepository) GetForTeam(ctx context.Context, teamID string, key domain.WeekKey) (*domain.WeeklyTarget, error) {
	return r.getThrough(ctx, "team", teamID, key, r.next.GetForTeam)
}

func (r *CachedTargetRepository) GetForPocket(ctx context.Context, pocketID string, key domain.WeekKey) (*domain.WeeklyTarget, error) {
	return r.getThrough(ctx, "pocket", pocketID, key, r.next.GetForPocket)
}

func (r *CachedTargetRepository) Upsert(ctx context.Context, target *domain.WeeklyTarget) error {
	if err := r.next.Upsert(ctx, target); err != nil {
		return err
	}

	key := domain.WeekKey{Week: target.Week, Year: target.Year}
	switch {
	case target.IRID != nil:
		r.invalidate(ctx, "ir", *target.IRID, key)
	case target.TeamID != nil:
		r.invalidate(ctx, "team", *target.TeamID, key)
	case target.PocketID != nil:
		r.invalidate(ctx, "pocket", *target.PocketID, key)
	}

	return nil
}

func (r *CachedTargetRepository) ListWeeks(ctx context.Context) ([]domain.WeekKey, error) {
	return r.next.ListWeeks(ctx)
}
