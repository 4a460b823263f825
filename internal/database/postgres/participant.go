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
	"github.com/questline-app/questline/internal/repository"
)

// ParticipantRepository implements the participant repository for PostgreSQL
type ParticipantRepository struct {
	db *pgxpool.Pool
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// GetParticipant retrieves a participant by ID
func (r *ParticipantRepository) GetParticipant(ctx context.Context, id uuid.UUID) (*domain.Participant, error) {
	query := `
		SELECT id, challenge_id, user_id, status, progress, prize_awarded,
		       joined_at, completed_at, created_at, updated_at
		FROM challenge_participants
		WHERE id = $1
	`
	p, err := scanParticipant(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// CreateParticipantCapped inserts a participant while the challenge holds
// fewer than max_participants. Counting under the challenge row lock
// serializes concurrent joins, so two joins at cap-1 cannot both pass.
func (r *ParticipantRepository) CreateParticipantCapped(ctx context.Context, p *domain.Participant) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	lockQuery := `SELECT max_participants FROM challenges WHERE id = $1 FOR UPDATE`
	var maxParticipants int
	err = tx.QueryRow(ctx, lockQuery, p.ChallengeID).Scan(&maxParticipants)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, domain.ErrChallengeNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to lock challenge: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM challenge_participants WHERE challenge_id = $1`
	var count int64
	if err := tx.QueryRow(ctx, countQuery, p.ChallengeID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count participants: %w", err)
	}
	if count >= int64(maxParticipants) {
		return false, nil
	}

	insertQuery := `
		INSERT INTO challenge_participants (id, challenge_id, user_id, status, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, insertQuery, p.ID, p.ChallengeID, p.UserID, p.Status, p.JoinedAt); err != nil {
		return false, fmt.Errorf("failed to insert participant: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit participant insert: %w", err)
	}
	return true, nil
}

// ListValidatableParticipants joins active participants with their active,
// in-window challenge so one query yields the full unit of work for a run.
func (r *ParticipantRepository) ListValidatableParticipants(ctx context.Context, now time.Time) ([]repository.ValidatableParticipant, error) {
	query := `
		SELECT
			p.id, p.challenge_id, p.user_id, p.status, p.progress, p.prize_awarded,
			p.joined_at, p.completed_at, p.created_at, p.updated_at,
			c.id, c.creator_id, c.title, c.type, c.config, c.prize_amount, c.bonus_amount,
			c.max_participants, c.starts_at, c.ends_at, c.status, c.reserved_amount,
			c.created_at, c.updated_at
		FROM challenge_participants p
		JOIN challenges c ON c.id = p.challenge_id
		WHERE p.status = $1
		  AND c.status = $2
		  AND c.starts_at <= $3
		  AND c.ends_at > $3
		ORDER BY p.joined_at
	`
	rows, err := r.db.Query(ctx, query,
		domain.ParticipantStatusActive, domain.ChallengeStatusActive, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query validatable participants: %w", err)
	}
	defer rows.Close()

	var items []repository.ValidatableParticipant
	for rows.Next() {
		var item repository.ValidatableParticipant
		var progressJSON []byte
		var configJSON []byte
		err := rows.Scan(
			&item.Participant.ID,
			&item.Participant.ChallengeID,
			&item.Participant.UserID,
			&item.Participant.Status,
			&progressJSON,
			&item.Participant.PrizeAwarded,
			&item.Participant.JoinedAt,
			&item.Participant.CompletedAt,
			&item.Participant.CreatedAt,
			&item.Participant.UpdatedAt,
			&item.Challenge.ID,
			&item.Challenge.CreatorID,
			&item.Challenge.Title,
			&item.Challenge.Type,
			&configJSON,
			&item.Challenge.PrizeAmount,
			&item.Challenge.BonusAmount,
			&item.Challenge.MaxParticipants,
			&item.Challenge.StartsAt,
			&item.Challenge.EndsAt,
			&item.Challenge.Status,
			&item.Challenge.ReservedAmount,
			&item.Challenge.CreatedAt,
			&item.Challenge.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan validatable participant: %w", err)
		}
		if progressJSON != nil {
			var progress domain.ProgressSnapshot
			if err := json.Unmarshal(progressJSON, &progress); err != nil {
				return nil, fmt.Errorf("failed to unmarshal progress: %w", err)
			}
			item.Participant.Progress = &progress
		}
		if err := json.Unmarshal(configJSON, &item.Challenge.Config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal challenge config: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

// UpdateParticipantStatusIfMatches performs a compare-and-swap on status
func (r *ParticipantRepository) UpdateParticipantStatusIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.ParticipantStatus) (int64, error) {
	query := `
		UPDATE challenge_participants
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`
	tag, err := r.db.Exec(ctx, query, next, id, expected)
	if err != nil {
		return 0, fmt.Errorf("failed to update participant status: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SaveProgress persists the latest progress snapshot as JSONB
func (r *ParticipantRepository) SaveProgress(ctx context.Context, id uuid.UUID, progress domain.ProgressSnapshot) error {
	progressJSON, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	query := `
		UPDATE challenge_participants
		SET progress = $1, updated_at = NOW()
		WHERE id = $2
	`
	tag, err := r.db.Exec(ctx, query, progressJSON, id)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

// FailActiveParticipants transitions every remaining active participant of a
// challenge to failed. Completed participants are untouched, so the settled
// count read afterwards is final.
func (r *ParticipantRepository) FailActiveParticipants(ctx context.Context, challengeID uuid.UUID) (int64, error) {
	query := `
		UPDATE challenge_participants
		SET status = $1, updated_at = NOW()
		WHERE challenge_id = $2 AND status = $3
	`
	tag, err := r.db.Exec(ctx, query,
		domain.ParticipantStatusFailed, challengeID, domain.ParticipantStatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to fail active participants: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountSettledParticipants returns how many participants of a challenge were awarded
func (r *ParticipantRepository) CountSettledParticipants(ctx context.Context, challengeID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM challenge_participants
		WHERE challenge_id = $1 AND status = $2 AND prize_awarded > 0
	`
	var count int64
	err := r.db.QueryRow(ctx, query, challengeID, domain.ParticipantStatusCompleted).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count settled participants: %w", err)
	}
	return count, nil
}

func scanParticipant(row pgx.Row) (*domain.Participant, error) {
	var p domain.Participant
	var progressJSON []byte
	err := row.Scan(
		&p.ID,
		&p.ChallengeID,
		&p.UserID,
		&p.Status,
		&progressJSON,
		&p.PrizeAwarded,
		&p.JoinedAt,
		&p.CompletedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if progressJSON != nil {
		var progress domain.ProgressSnapshot
		if err := json.Unmarshal(progressJSON, &progress); err != nil {
			return nil, fmt.Errorf("failed to unmarshal progress: %w", err)
		}
		p.Progress = &progress
	}
	return &p, nil
}
