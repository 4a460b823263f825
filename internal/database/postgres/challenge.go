package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/questline-app/questline/internal/domain"
)

// ChallengeRepository implements the challenge repository for PostgreSQL
type ChallengeRepository struct {
	db *pgxpool.Pool
}

// NewChallengeRepository creates a new ChallengeRepository
func NewChallengeRepository(db *pgxpool.Pool) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

const challengeColumns = `
	id, creator_id, title, type, config, prize_amount, bonus_amount,
	max_participants, starts_at, ends_at, status, reserved_amount,
	created_at, updated_at
`

// GetChallenge retrieves a challenge by ID
func (r *ChallengeRepository) GetChallenge(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	ch, err := scanChallenge(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrChallengeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return ch, nil
}

// CreateChallenge inserts a new challenge in draft status
func (r *ChallengeRepository) CreateChallenge(ctx context.Context, ch *domain.Challenge) error {
	configJSON, err := json.Marshal(ch.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	query := `
		INSERT INTO challenges (
			id, creator_id, title, type, config, prize_amount, bonus_amount,
			max_participants, starts_at, ends_at, status, reserved_amount
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.db.Exec(ctx, query,
		ch.ID, ch.CreatorID, ch.Title, ch.Type, configJSON,
		ch.PrizeAmount, ch.BonusAmount, ch.MaxParticipants,
		ch.StartsAt, ch.EndsAt, ch.Status, ch.ReservedAmount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert challenge: %w", err)
	}
	return nil
}

// UpdateChallengeStatusIfMatches performs a compare-and-swap on status.
// Rows affected is the caller's mutual-exclusion signal.
func (r *ChallengeRepository) UpdateChallengeStatusIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.ChallengeStatus) (int64, error) {
	query := `
		UPDATE challenges
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`
	tag, err := r.db.Exec(ctx, query, next, id, expected)
	if err != nil {
		return 0, fmt.Errorf("failed to update challenge status: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListExpiredActiveChallenges returns active challenges whose window elapsed
func (r *ChallengeRepository) ListExpiredActiveChallenges(ctx context.Context, now time.Time) ([]domain.Challenge, error) {
	query := `
		SELECT ` + challengeColumns + `
		FROM challenges
		WHERE status = $1 AND ends_at <= $2
		ORDER BY ends_at
	`
	rows, err := r.db.Query(ctx, query, domain.ChallengeStatusActive, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired challenges: %w", err)
	}
	defer rows.Close()

	var challenges []domain.Challenge
	for rows.Next() {
		ch, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, *ch)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return challenges, nil
}

// scanChallenge maps one challenge row, decoding the config union from JSONB.
func scanChallenge(row pgx.Row) (*domain.Challenge, error) {
	var ch domain.Challenge
	var configJSON []byte
	err := row.Scan(
		&ch.ID,
		&ch.CreatorID,
		&ch.Title,
		&ch.Type,
		&configJSON,
		&ch.PrizeAmount,
		&ch.BonusAmount,
		&ch.MaxParticipants,
		&ch.StartsAt,
		&ch.EndsAt,
		&ch.Status,
		&ch.ReservedAmount,
		&ch.CreatedAt,
		&ch.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(configJSON, &ch.Config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal challenge config: %w", err)
	}
	return &ch, nil
}
