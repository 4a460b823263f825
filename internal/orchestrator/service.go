package orchestrator

import (
	"context"
	"time"

	"github.com/questline-app/questline/internal/challenge"
	"github.com/questline-app/questline/internal/event"
	"github.com/questline-app/questline/internal/level"
	"github.com/questline-app/questline/internal/logger"
	"github.com/questline-app/questline/internal/metrics"
	"github.com/questline-app/questline/internal/repository"
	"github.com/questline-app/questline/internal/settlement"
	"github.com/questline-app/questline/internal/worker"
)

// Service defines the interface for the periodic runs that drive the engine.
// Every run is safe to re-enter: the conditional claims downstream make
// overlapping or repeated runs settle each reward at most once, so a crashed
// run needs no recovery beyond running again.
type Service interface {
	// RunChallenges validates every active participant, persists progress and
	// settles completions.
	RunChallenges(ctx context.Context) RunSummary

	// RunLevels recalculates tracked tier records and pays promotion rewards.
	RunLevels(ctx context.Context) RunSummary

	// RunTierPayouts settles the recurring stipend for every tier record
	// whose tier grants one and whose payout period has elapsed.
	RunTierPayouts(ctx context.Context) RunSummary

	// ExpireChallenges fails out participants of elapsed challenges and
	// refunds unspent reserves.
	ExpireChallenges(ctx context.Context) RunSummary

	// RunReconciliation audits cached balances against the ledger for every
	// user recently party to a transfer.
	RunReconciliation(ctx context.Context) RunSummary
}

// RunSummary is what one orchestrator run reports. Errors counts isolated
// per-item failures; the run itself always completes.
type RunSummary struct {
	Processed int
	Completed int
	Errors    int
}

type service struct {
	participants repository.Participant
	challenges   repository.Challenge
	tiers        repository.Tier
	activity     repository.Activity
	ledger       repository.Ledger

	validator  challenge.Service
	settlement settlement.Service
	levels     level.Service
	publisher  event.Bus
	pool       *worker.Pool

	activeUserWindowDays int
	payoutPeriod         time.Duration
	reconcileWindow      time.Duration
}

// NewService creates a new orchestrator service. The pool must be dedicated
// to fan-out work; sharing it with the scheduler's run jobs would let a run
// starve its own sub-jobs.
func NewService(
	participants repository.Participant,
	challenges repository.Challenge,
	tiers repository.Tier,
	activity repository.Activity,
	ledger repository.Ledger,
	validator challenge.Service,
	settlementSvc settlement.Service,
	levels level.Service,
	publisher event.Bus,
	pool *worker.Pool,
	activeUserWindowDays int,
	payoutPeriod time.Duration,
	reconcileWindow time.Duration,
) Service {
	return &service{
		participants:         participants,
		challenges:           challenges,
		tiers:                tiers,
		activity:             activity,
		ledger:               ledger,
		validator:            validator,
		settlement:           settlementSvc,
		levels:               levels,
		publisher:            publisher,
		pool:                 pool,
		activeUserWindowDays: activeUserWindowDays,
		payoutPeriod:         payoutPeriod,
		reconcileWindow:      reconcileWindow,
	}
}

// startRun stamps the context with a fresh run ID and returns a finish
// callback that logs the summary, records the duration and publishes the
// run-completed event.
func (s *service) startRun(ctx context.Context, run string) (context.Context, func(RunSummary)) {
	ctx = logger.WithRunID(ctx, logger.GenerateRunID())
	log := logger.FromContext(ctx)
	log.Info(LogMsgRunStarted, "run", run)
	started := time.Now()

	return ctx, func(summary RunSummary) {
		metrics.RunDuration.WithLabelValues(run).Observe(time.Since(started).Seconds())
		log.Info(LogMsgRunFinished,
			"run", run,
			"processed", summary.Processed,
			"completed", summary.Completed,
			"errors", summary.Errors,
			"duration", time.Since(started))
		if err := s.publisher.Publish(ctx, event.NewRunCompletedEvent(
			run, summary.Processed, summary.Completed, summary.Errors)); err != nil {
			log.Warn("Failed to publish run summary", "error", err)
		}
	}
}
