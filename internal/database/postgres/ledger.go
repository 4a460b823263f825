package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/repository"
)

// LedgerRepository implements the ledger repository for PostgreSQL.
// Balance mutations and the conditional status claims go through ledgerTx so
// they commit or roll back as one unit.
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// BeginTx starts a ledger transaction
func (r *LedgerRepository) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &ledgerTx{tx: tx}, nil
}

// GetBalance reads a user's cached balance without locking
func (r *LedgerRepository) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT balance FROM users WHERE id = $1`

	var balance int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// ListTransfersForUser returns every transfer the user is party to
func (r *LedgerRepository) ListTransfersForUser(ctx context.Context, userID uuid.UUID) ([]domain.LedgerTransfer, error) {
	query := `
		SELECT id, challenge_id, promotion_id, from_user_id, to_user_id,
		       amount, kind, status, created_at
		FROM ledger_transfers
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer rows.Close()

	var transfers []domain.LedgerTransfer
	for rows.Next() {
		var t domain.LedgerTransfer
		err := rows.Scan(
			&t.ID,
			&t.ChallengeID,
			&t.PromotionID,
			&t.FromUserID,
			&t.ToUserID,
			&t.Amount,
			&t.Kind,
			&t.Status,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return transfers, nil
}

// SumCompletedTransfers returns the signed sum of completed transfers for a
// user, the value the cached balance must reconcile with.
func (r *LedgerRepository) SumCompletedTransfers(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(
			SUM(CASE WHEN to_user_id = $1 THEN amount ELSE 0 END) -
			SUM(CASE WHEN from_user_id = $1 THEN amount ELSE 0 END), 0)
		FROM ledger_transfers
		WHERE status = $2 AND (from_user_id = $1 OR to_user_id = $1)
	`
	var sum int64
	err := r.db.QueryRow(ctx, query, userID, domain.TransferStatusCompleted).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum transfers: %w", err)
	}
	return sum, nil
}

// ListRecentTransferUsers returns the distinct users party to a transfer
// since the given time
func (r *LedgerRepository) ListRecentTransferUsers(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT from_user_id FROM ledger_transfers
		WHERE created_at >= $1 AND from_user_id IS NOT NULL
		UNION
		SELECT to_user_id FROM ledger_transfers
		WHERE created_at >= $1 AND to_user_id IS NOT NULL
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent transfer users: %w", err)
	}
	defer rows.Close()

	var users []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return users, nil
}

// ledgerTx wraps a pgx transaction with the settlement engine's operations.
type ledgerTx struct {
	tx pgx.Tx
}

func (t *ledgerTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *ledgerTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetBalanceForUpdate reads a user's balance under a row-exclusive lock.
// The lock serializes every balance mutation for the user until commit.
func (t *ledgerTx) GetBalanceForUpdate(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT balance FROM users WHERE id = $1 FOR UPDATE`

	var balance int64
	err := t.tx.QueryRow(ctx, query, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance for update: %w", err)
	}
	return balance, nil
}

// UpdateBalance writes a user's cached balance
func (t *ledgerTx) UpdateBalance(ctx context.Context, userID uuid.UUID, balance int64) error {
	query := `UPDATE users SET balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := t.tx.Exec(ctx, query, balance, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// InsertTransfer appends a ledger transfer
func (t *ledgerTx) InsertTransfer(ctx context.Context, transfer *domain.LedgerTransfer) error {
	query := `
		INSERT INTO ledger_transfers (
			id, challenge_id, promotion_id, from_user_id, to_user_id,
			amount, kind, status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := t.tx.Exec(ctx, query,
		transfer.ID, transfer.ChallengeID, transfer.PromotionID,
		transfer.FromUserID, transfer.ToUserID,
		transfer.Amount, transfer.Kind, transfer.Status, transfer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transfer: %w", err)
	}
	return nil
}

// ClaimParticipantCompletion atomically moves a participant from active to
// completed and records the award. Rows affected is the mutual-exclusion
// signal for settlement.
func (t *ledgerTx) ClaimParticipantCompletion(ctx context.Context, participantID uuid.UUID, prize int64) (int64, error) {
	query := `
		UPDATE challenge_participants
		SET status = $1, prize_awarded = $2, completed_at = NOW(), updated_at = NOW()
		WHERE id = $3 AND status = $4
	`
	tag, err := t.tx.Exec(ctx, query,
		domain.ParticipantStatusCompleted, prize,
		participantID, domain.ParticipantStatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to claim participant completion: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ClaimChallengeStatus is the conditional status transition for challenges
func (t *ledgerTx) ClaimChallengeStatus(ctx context.Context, challengeID uuid.UUID, expected, next domain.ChallengeStatus) (int64, error) {
	query := `
		UPDATE challenges
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`
	tag, err := t.tx.Exec(ctx, query, next, challengeID, expected)
	if err != nil {
		return 0, fmt.Errorf("failed to claim challenge status: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ClaimTierPayout stamps a tier record's last payout time when the previous
// stamp is absent or older than dueBefore. Rows affected gates the payout.
func (t *ledgerTx) ClaimTierPayout(ctx context.Context, userID uuid.UUID, kind domain.TierKind, scope *string, dueBefore time.Time) (int64, error) {
	query := `
		UPDATE tier_records
		SET last_payout_at = NOW(), updated_at = NOW()
		WHERE user_id = $1 AND kind = $2 AND scope IS NOT DISTINCT FROM $3
		  AND (last_payout_at IS NULL OR last_payout_at < $4)
	`
	tag, err := t.tx.Exec(ctx, query, userID, kind, scope, dueBefore)
	if err != nil {
		return 0, fmt.Errorf("failed to claim tier payout: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SetChallengeReserve records the reserve held at activation
func (t *ledgerTx) SetChallengeReserve(ctx context.Context, challengeID uuid.UUID, amount int64) error {
	query := `
		UPDATE challenges
		SET reserved_amount = $1, updated_at = NOW()
		WHERE id = $2
	`
	tag, err := t.tx.Exec(ctx, query, amount, challengeID)
	if err != nil {
		return fmt.Errorf("failed to set challenge reserve: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChallengeNotFound
	}
	return nil
}
