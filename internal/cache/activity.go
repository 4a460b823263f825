package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/logger"
	"github.com/questline-app/questline/internal/repository"
)

// ActivityCache is a read-through cache over the activity read model. Only
// the trailing-window active-user counts are cached: they scan weeks of
// engagement facts and feed every creator/teacher tier recalculation, while
// the per-user validator queries are already index-bound. A cache failure is
// never fatal; the read falls through to the database.
type ActivityCache struct {
	inner  repository.Activity
	client *redis.Client
	ttl    time.Duration
}

// NewActivityCache wraps an activity repository with a redis cache
func NewActivityCache(client *redis.Client, inner repository.Activity, ttl time.Duration) *ActivityCache {
	return &ActivityCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
	}
}

// ActiveUserCount serves the trailing-window count from redis when fresh,
// recomputing and storing it on a miss.
func (c *ActivityCache) ActiveUserCount(ctx context.Context, ownerID uuid.UUID, kind domain.TierKind, windowDays int) (int, error) {
	key := activeUserKey(ownerID, kind, windowDays)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		count, convErr := strconv.Atoi(cached)
		if convErr == nil {
			return count, nil
		}
		// A corrupt entry falls through to a recompute.
	} else if !errors.Is(err, redis.Nil) {
		logger.FromContext(ctx).Warn(LogMsgCacheReadFailed, "key", key, "error", err)
	}

	count, err := c.inner.ActiveUserCount(ctx, ownerID, kind, windowDays)
	if err != nil {
		return 0, err
	}

	if err := c.client.Set(ctx, key, strconv.Itoa(count), c.ttl).Err(); err != nil {
		logger.FromContext(ctx).Warn(LogMsgCacheWriteFailed, "key", key, "error", err)
	}
	return count, nil
}

func (c *ActivityCache) AnswerStats(ctx context.Context, userID uuid.UUID, topicID *string, since time.Time) (domain.AnswerStats, error) {
	return c.inner.AnswerStats(ctx, userID, topicID, since)
}

func (c *ActivityCache) BestScore(ctx context.Context, userID uuid.UUID, unitID string, since time.Time, attemptCap int) (float64, int, error) {
	return c.inner.BestScore(ctx, userID, unitID, since, attemptCap)
}

func (c *ActivityCache) SessionOutcomes(ctx context.Context, userID uuid.UUID, modes []string, since time.Time) ([]domain.SessionOutcome, error) {
	return c.inner.SessionOutcomes(ctx, userID, modes, since)
}

func (c *ActivityCache) DailyActivity(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.DayActivity, error) {
	return c.inner.DailyActivity(ctx, userID, since)
}

var _ repository.Activity = (*ActivityCache)(nil)

func activeUserKey(ownerID uuid.UUID, kind domain.TierKind, windowDays int) string {
	return fmt.Sprintf("%s%s:%s:%d", KeyPrefixActiveUsers, kind, ownerID, windowDays)
}
