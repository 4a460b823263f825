package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/questline-app/questline/internal/domain"
)

// ActivityRepository implements the read-only activity projection for
// PostgreSQL. Everything here queries fact tables written by the learning
// platform; nothing is mutated.
type ActivityRepository struct {
	db *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// AnswerStats returns answered/correct counts since a timestamp, optionally
// scoped to one topic
func (r *ActivityRepository) AnswerStats(ctx context.Context, userID uuid.UUID, topicID *string, since time.Time) (domain.AnswerStats, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_correct)
		FROM answers
		WHERE user_id = $1
		  AND answered_at >= $2
		  AND ($3::text IS NULL OR topic_id = $3)
	`
	var stats domain.AnswerStats
	err := r.db.QueryRow(ctx, query, userID, since, topicID).Scan(&stats.Answered, &stats.Correct)
	if err != nil {
		return domain.AnswerStats{}, fmt.Errorf("failed to query answer stats: %w", err)
	}
	return stats, nil
}

// BestScore returns the best score among the first attemptCap attempts on a
// unit (0 = unlimited), plus the total number of attempts made. Attempts past
// the cap never improve the score; they only count.
func (r *ActivityRepository) BestScore(ctx context.Context, userID uuid.UUID, unitID string, since time.Time, attemptCap int) (float64, int, error) {
	query := `
		WITH attempts AS (
			SELECT score, ROW_NUMBER() OVER (ORDER BY attempted_at) AS attempt_no
			FROM unit_attempts
			WHERE user_id = $1 AND unit_id = $2 AND attempted_at >= $3
		)
		SELECT
			COALESCE(MAX(score) FILTER (WHERE $4 = 0 OR attempt_no <= $4), 0),
			COUNT(*)
		FROM attempts
	`
	var score float64
	var attempts int
	err := r.db.QueryRow(ctx, query, userID, unitID, since, attemptCap).Scan(&score, &attempts)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query best score: %w", err)
	}
	return score, attempts, nil
}

// SessionOutcomes returns the user's multi-participant game sessions in the
// given modes since a timestamp, with the session's top score alongside the
// user's own. An empty mode list matches every mode.
func (r *ActivityRepository) SessionOutcomes(ctx context.Context, userID uuid.UUID, modes []string, since time.Time) ([]domain.SessionOutcome, error) {
	query := `
		SELECT gs.id, gs.mode, gs.played_at,
		       me.score,
		       MAX(others.score) AS top_score,
		       me.answered, me.correct
		FROM game_sessions gs
		JOIN game_session_players me ON me.session_id = gs.id AND me.user_id = $1
		JOIN game_session_players others ON others.session_id = gs.id
		WHERE gs.played_at >= $2
		  AND (cardinality($3::text[]) = 0 OR gs.mode = ANY($3))
		GROUP BY gs.id, gs.mode, gs.played_at, me.score, me.answered, me.correct
		ORDER BY gs.played_at
	`
	rows, err := r.db.Query(ctx, query, userID, since, modes)
	if err != nil {
		return nil, fmt.Errorf("failed to query session outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []domain.SessionOutcome
	for rows.Next() {
		var o domain.SessionOutcome
		err := rows.Scan(
			&o.SessionID,
			&o.Mode,
			&o.PlayedAt,
			&o.Score,
			&o.TopScore,
			&o.Answered,
			&o.Correct,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return outcomes, nil
}

// DailyActivity aggregates learning sessions per calendar day (UTC), ordered
// ascending. Days with no activity produce no row.
func (r *ActivityRepository) DailyActivity(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.DayActivity, error) {
	query := `
		SELECT date_trunc('day', started_at AT TIME ZONE 'UTC') AS day,
		       COUNT(*),
		       COALESCE(SUM(duration_minutes), 0),
		       COALESCE(SUM(answered), 0)
		FROM learning_sessions
		WHERE user_id = $1 AND started_at >= $2
		GROUP BY day
		ORDER BY day
	`
	rows, err := r.db.Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily activity: %w", err)
	}
	defer rows.Close()

	var days []domain.DayActivity
	for rows.Next() {
		var d domain.DayActivity
		if err := rows.Scan(&d.Day, &d.Sessions, &d.Minutes, &d.Answered); err != nil {
			return nil, fmt.Errorf("failed to scan day activity: %w", err)
		}
		days = append(days, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return days, nil
}

// ActiveUserCount returns the distinct users engaging with an owner's
// content over a trailing window of days
func (r *ActivityRepository) ActiveUserCount(ctx context.Context, ownerID uuid.UUID, kind domain.TierKind, windowDays int) (int, error) {
	query := `
		SELECT COUNT(DISTINCT user_id)
		FROM content_engagements
		WHERE owner_id = $1
		  AND kind = $2
		  AND occurred_at >= NOW() - ($3 * INTERVAL '1 day')
	`
	var count int
	err := r.db.QueryRow(ctx, query, ownerID, kind, windowDays).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to query active user count: %w", err)
	}
	return count, nil
}
