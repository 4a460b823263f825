package bootstrap

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/questline-app/questline/internal/cache"
	"github.com/questline-app/questline/internal/database/postgres"
	"github.com/questline-app/questline/internal/repository"
)

// Repositories holds all repository implementations used by the application.
type Repositories struct {
	Challenges   repository.Challenge
	Participants repository.Participant
	Ledger       repository.Ledger
	Tiers        repository.Tier
	Activity     repository.Activity
}

// InitializeRepositories creates all repository implementations. When a Redis
// client is provided, the activity read model is wrapped in a read-through
// cache; the distinct-active-user count behind the creator and teacher
// ladders is the one query expensive enough to warrant it.
func InitializeRepositories(dbPool *pgxpool.Pool, redisClient *redis.Client, activityTTL time.Duration) *Repositories {
	var activity repository.Activity = postgres.NewActivityRepository(dbPool)
	if redisClient != nil {
		activity = cache.NewActivityCache(redisClient, activity, activityTTL)
	}

	return &Repositories{
		Challenges:   postgres.NewChallengeRepository(dbPool),
		Participants: postgres.NewParticipantRepository(dbPool),
		Ledger:       postgres.NewLedgerRepository(dbPool),
		Tiers:        postgres.NewTierRepository(dbPool),
		Activity:     activity,
	}
}
