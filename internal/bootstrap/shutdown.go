package bootstrap

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/questline-app/questline/internal/event"
	"github.com/questline-app/questline/internal/scheduler"
	"github.com/questline-app/questline/internal/server"
	"github.com/questline-app/questline/internal/worker"
)

// ShutdownComponents holds everything that needs graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	RunPool            *worker.Pool
	FanoutPool         *worker.Pool
	ResilientPublisher *event.ResilientPublisher
	DBPool             *pgxpool.Pool
	RedisClient        *redis.Client
}

// GracefulShutdown stops the application in dependency order:
//  1. HTTP server, so no new work arrives
//  2. scheduler, so no new runs are enqueued
//  3. run pool, draining in-flight runs (which still need the fan-out pool)
//  4. fan-out pool
//  5. event publisher, flushing pending retries
//  6. storage clients
//
// Errors during shutdown are logged but do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)
	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Scheduler != nil {
		slog.Info(LogMsgShuttingDownScheduler)
		components.Scheduler.Stop()
	}

	if components.RunPool != nil {
		slog.Info(LogMsgShuttingDownWorkers)
		components.RunPool.Stop()
	}
	if components.FanoutPool != nil {
		components.FanoutPool.Stop()
	}

	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if components.RedisClient != nil {
		if err := components.RedisClient.Close(); err != nil {
			slog.Error(LogMsgRedisCloseFailed, "error", err)
		}
	}
	if components.DBPool != nil {
		components.DBPool.Close()
	}

	slog.Info(LogMsgServerStopped)
}
