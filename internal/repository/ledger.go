package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
)

// Ledger defines the interface for ledger and balance persistence. All
// balance mutations happen inside a LedgerTx; reads outside a transaction are
// advisory only.
type Ledger interface {
	BeginTx(ctx context.Context) (LedgerTx, error)

	GetBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	ListTransfersForUser(ctx context.Context, userID uuid.UUID) ([]domain.LedgerTransfer, error)

	// SumCompletedTransfers returns the signed sum of completed transfers for
	// a user, the value the cached balance must reconcile with.
	SumCompletedTransfers(ctx context.Context, userID uuid.UUID) (int64, error)

	// ListRecentTransferUsers returns the distinct users party to a transfer
	// since the given time, the audit set for a reconciliation run.
	ListRecentTransferUsers(ctx context.Context, since time.Time) ([]uuid.UUID, error)
}

// LedgerTx is the transactional handle the settlement engine works through.
// The claim updates live here so that claim, ledger write and balance
// mutation commit or roll back together.
type LedgerTx interface {
	Tx

	// GetBalanceForUpdate reads a user's balance under a row-exclusive lock
	// held until commit.
	GetBalanceForUpdate(ctx context.Context, userID uuid.UUID) (int64, error)
	UpdateBalance(ctx context.Context, userID uuid.UUID, balance int64) error

	InsertTransfer(ctx context.Context, transfer *domain.LedgerTransfer) error

	// ClaimParticipantCompletion atomically transitions a participant from
	// active to completed and records the awarded amount. Rows affected is
	// the mutual-exclusion signal: 1 means this caller won the claim, 0 means
	// another caller settled first (or the participant was never active).
	ClaimParticipantCompletion(ctx context.Context, participantID uuid.UUID, prize int64) (int64, error)

	// ClaimChallengeStatus is the same conditional transition for challenges,
	// used by reserve (draft→active) and refund (active→completed/cancelled).
	ClaimChallengeStatus(ctx context.Context, challengeID uuid.UUID, expected, next domain.ChallengeStatus) (int64, error)

	// SetChallengeReserve records the reserve computed at activation.
	SetChallengeReserve(ctx context.Context, challengeID uuid.UUID, amount int64) error

	// ClaimTierPayout stamps a tier record's last payout time, but only when
	// the previous stamp is absent or older than dueBefore. Rows affected is
	// the mutual-exclusion signal gating recurring tier payouts.
	ClaimTierPayout(ctx context.Context, userID uuid.UUID, kind domain.TierKind, scope *string, dueBefore time.Time) (int64, error)
}
