package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/questline-app/questline/internal/bootstrap"
	"github.com/questline-app/questline/internal/challenge"
	"github.com/questline-app/questline/internal/config"
	"github.com/questline-app/questline/internal/database"
	"github.com/questline-app/questline/internal/level"
	"github.com/questline-app/questline/internal/orchestrator"
	"github.com/questline-app/questline/internal/scheduler"
	"github.com/questline-app/questline/internal/server"
	"github.com/questline-app/questline/internal/settlement"
	"github.com/questline-app/questline/internal/worker"
)

// ShutdownTimeout bounds how long graceful shutdown may take before
// connections are dropped.
const ShutdownTimeout = 30 * time.Second

// The run pool only ever carries whole orchestrator runs, never their
// per-participant fan-out, so a handful of workers covers every schedule.
const (
	runPoolWorkers   = 2
	runPoolQueueSize = 16
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Logger setup failed", "error", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(cfg); err != nil {
		slog.Error("Service failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	if err := bootstrap.RunMigrations(cfg.GetDBConnString()); err != nil {
		return err
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxIdleTime, cfg.DBMaxLifetime)
	if err != nil {
		return err
	}

	redisClient := newRedisClient(ctx, cfg)

	repos := bootstrap.InitializeRepositories(dbPool, redisClient, cfg.ActivityCacheTTL)

	_, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}
	bootstrap.RegisterEventHandlers(publisher)

	if err := bootstrap.SyncTierLadders(ctx, cfg.LadderConfigPath, repos.Tiers); err != nil {
		return err
	}

	// Services. The resilient publisher fronts the bus so every publish gets
	// retry and dead-letter handling.
	levels := level.NewService(repos.Tiers, publisher)

	validator, err := challenge.NewService(repos.Activity, levels)
	if err != nil {
		return err
	}

	settlementSvc := settlement.NewService(repos.Ledger, publisher)

	// Two pools: a run job wg.Wait()s on the per-participant sub-jobs it
	// enqueues, so runs and their fan-out must never compete for the same
	// workers. The scheduler feeds the run pool; the orchestrator fans out
	// onto its own.
	fanoutPool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	fanoutPool.Start()

	runPool := worker.NewPool(runPoolWorkers, runPoolQueueSize)
	runPool.Start()

	orch := orchestrator.NewService(
		repos.Participants,
		repos.Challenges,
		repos.Tiers,
		repos.Activity,
		repos.Ledger,
		validator,
		settlementSvc,
		levels,
		publisher,
		fanoutPool,
		cfg.ActiveUserWindowDays,
		cfg.PayoutPeriod,
		cfg.ReconcileRunInterval,
	)

	sched := scheduler.New(runPool)
	sched.Schedule(cfg.ChallengeRunInterval, worker.JobFunc(func(ctx context.Context) error {
		orch.RunChallenges(ctx)
		return nil
	}))
	sched.Schedule(cfg.ChallengeRunInterval, worker.JobFunc(func(ctx context.Context) error {
		orch.ExpireChallenges(ctx)
		return nil
	}))
	sched.Schedule(cfg.LevelRunInterval, worker.JobFunc(func(ctx context.Context) error {
		orch.RunLevels(ctx)
		return nil
	}))
	sched.Schedule(cfg.PayoutRunInterval, worker.JobFunc(func(ctx context.Context) error {
		orch.RunTierPayouts(ctx)
		return nil
	}))
	sched.Schedule(cfg.ReconcileRunInterval, worker.JobFunc(func(ctx context.Context) error {
		orch.RunReconciliation(ctx)
		return nil
	}))

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, server.Deps{
		DBPool:       dbPool,
		Challenges:   repos.Challenges,
		Participants: repos.Participants,
		Ledger:       repos.Ledger,
		Tiers:        repos.Tiers,
		Validator:    validator,
		Settlement:   settlementSvc,
		Levels:       levels,
		Orchestrator: orch,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-stop:
		slog.Info("Shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Scheduler:          sched,
		RunPool:            runPool,
		FanoutPool:         fanoutPool,
		ResilientPublisher: publisher,
		DBPool:             dbPool,
		RedisClient:        redisClient,
	})
	return nil
}

// newRedisClient connects to Redis for the activity read-through cache. The
// cache is an optimization, so a missing or unreachable Redis downgrades to
// uncached reads instead of failing startup.
func newRedisClient(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Warn("Redis unavailable, activity cache disabled", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return nil
	}

	slog.Info("Connected to Redis", "addr", cfg.RedisAddr)
	return client
}
