package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransferKind names the reason a ledger transfer exists.
type TransferKind string

const (
	TransferKindReserve TransferKind = "reserve"
	TransferKindAward   TransferKind = "award"
	TransferKindRefund  TransferKind = "refund"
	TransferKindBonus   TransferKind = "bonus"
	TransferKindPenalty TransferKind = "penalty"
)

// TransferStatus is the lifecycle of a ledger transfer. Completed transfers
// are the source of truth for balances; everything else is excluded from
// reconciliation.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusFailed    TransferStatus = "failed"
	TransferStatusReversed  TransferStatus = "reversed"
)

// LedgerTransfer is an append-only record of currency movement. Amount is
// always positive; FromUserID nil means the amount was minted by the system
// (tier payouts), ToUserID nil means it moved into escrow (reserves).
type LedgerTransfer struct {
	ID          uuid.UUID      `json:"id"`
	ChallengeID *uuid.UUID     `json:"challenge_id,omitempty"`
	PromotionID *uuid.UUID     `json:"promotion_id,omitempty"`
	FromUserID  *uuid.UUID     `json:"from_user_id,omitempty"`
	ToUserID    *uuid.UUID     `json:"to_user_id,omitempty"`
	Amount      int64          `json:"amount"`
	Kind        TransferKind   `json:"kind"`
	Status      TransferStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

// SignedAmountFor returns the transfer's contribution to one user's balance:
// positive when the user is the destination, negative when the source, zero
// when the user is not a party to the transfer.
func (t *LedgerTransfer) SignedAmountFor(userID uuid.UUID) int64 {
	var sum int64
	if t.ToUserID != nil && *t.ToUserID == userID {
		sum += t.Amount
	}
	if t.FromUserID != nil && *t.FromUserID == userID {
		sum -= t.Amount
	}
	return sum
}
