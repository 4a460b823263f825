package database

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the minimal pool surface the HTTP readiness probe needs. The
// repositories take the concrete *pgxpool.Pool so they keep access to
// transactions.
type Pool interface {
	Ping(ctx context.Context) error
	Close()
}

// NewPool creates a PostgreSQL connection pool and verifies connectivity.
// Settlement transactions hold a connection for the full claim-and-credit
// sequence, so maxConns effectively caps concurrent settlements.
func NewPool(connString string, maxConns int, maxIdle, maxLife time.Duration) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToParseConnString, err)
	}

	if maxConns > math.MaxInt32 {
		maxConns = math.MaxInt32
	}
	poolConfig.MaxConns = int32(maxConns)
	poolConfig.MinConns = DefaultMinConnections
	poolConfig.MaxConnLifetime = maxLife
	poolConfig.MaxConnIdleTime = maxIdle

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}

	slog.Info(LogMsgConnectedToDatabase, "max_conns", poolConfig.MaxConns)
	return pool, nil
}
