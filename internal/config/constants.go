package config

import "time"

// Orchestrator defaults
const (
	// DefaultChallengeRunInterval is how often active participants are
	// re-validated.
	DefaultChallengeRunInterval = 5 * time.Minute

	// DefaultLevelRunInterval is how often tier records are recalculated.
	DefaultLevelRunInterval = 15 * time.Minute

	// DefaultPayoutRunInterval is how often the recurring payout run fires.
	// It can fire far more often than the payout period; the payout clock
	// claim keeps each record to one stipend per period.
	DefaultPayoutRunInterval = 6 * time.Hour

	// DefaultPayoutPeriod is how long a tier record must wait between
	// recurring stipends.
	DefaultPayoutPeriod = 7 * 24 * time.Hour

	// DefaultReconcileRunInterval is how often cached balances are audited
	// against the ledger.
	DefaultReconcileRunInterval = time.Hour

	DefaultWorkerCount     = 4
	DefaultWorkerQueueSize = 256
)

// Level subsystem defaults
const (
	DefaultActiveUserWindowDays = 30
	DefaultLadderConfigPath     = "configs/tier_ladders.json"
	DefaultActivityCacheTTL     = 5 * time.Minute
)

// Logging defaults
const (
	DefaultLogDir = "logs"
)

// Database pool defaults
const (
	DefaultDBMaxConns    = 16
	DefaultDBMaxIdleTime = 5 * time.Minute
	DefaultDBMaxLifetime = 30 * time.Minute
)

// Event system defaults
const (
	DefaultEventMaxRetries     = 5
	DefaultEventRetryDelay     = 2 * time.Second
	DefaultEventDeadLetterPath = "logs/event_deadletter.jsonl"
)
