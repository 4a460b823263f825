package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
)

// Activity is the read-only metric projection the validators and the level
// calculator consume. Every query is pure and side-effect free; validators
// stay lock-free because settlement's conditional claim is the only
// authority.
type Activity interface {
	// AnswerStats returns answered/correct counts for a user since a
	// timestamp, optionally scoped to one topic.
	AnswerStats(ctx context.Context, userID uuid.UUID, topicID *string, since time.Time) (domain.AnswerStats, error)

	// BestScore returns the user's best score on a unit since a timestamp,
	// considering at most attemptCap attempts (0 = unlimited), plus the
	// number of attempts made. A unit never attempted returns (0, 0, nil).
	BestScore(ctx context.Context, userID uuid.UUID, unitID string, since time.Time, attemptCap int) (score float64, attempts int, err error)

	// SessionOutcomes returns the user's multi-participant game sessions in
	// the given modes since a timestamp.
	SessionOutcomes(ctx context.Context, userID uuid.UUID, modes []string, since time.Time) ([]domain.SessionOutcome, error)

	// DailyActivity returns per-calendar-day aggregates since a timestamp,
	// ordered by day ascending. Days with no activity are absent.
	DailyActivity(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.DayActivity, error)

	// ActiveUserCount returns the number of distinct users active on a
	// creator's content (or a teacher's students) over a trailing window.
	ActiveUserCount(ctx context.Context, ownerID uuid.UUID, kind domain.TierKind, windowDays int) (int, error)
}
