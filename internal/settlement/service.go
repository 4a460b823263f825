package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/event"
	"github.com/questline-app/questline/internal/logger"
	"github.com/questline-app/questline/internal/metrics"
	"github.com/questline-app/questline/internal/repository"
)

// Service defines the interface for reward settlement. Every operation is
// idempotent: the conditional status claim inside the ledger transaction is
// the single mutual-exclusion point, so concurrent or repeated calls settle a
// given reward at most once.
type Service interface {
	// Settle awards the challenge prize to a completed participant. Returns
	// true when this call performed the award, false when another caller
	// already settled the participant (not an error).
	Settle(ctx context.Context, participant *domain.Participant, challenge *domain.Challenge) (bool, error)

	// Reserve activates a draft challenge and holds its full reserve against
	// the creator's balance. An insufficient balance is a hard failure: the
	// transaction rolls back and the challenge stays in draft.
	Reserve(ctx context.Context, challenge *domain.Challenge) error

	// Refund closes out an expired or cancelled challenge, returning the
	// unspent part of the reserve to the creator. settledCount must be taken
	// after every remaining active participant is terminal, so the spent
	// amount is final. Returns the refunded amount; zero with no error means
	// the challenge was already closed out.
	Refund(ctx context.Context, challenge *domain.Challenge, next domain.ChallengeStatus, settledCount int64) (int64, error)

	// PayTierReward mints a tier promotion payout to the user. The promotion
	// row is the idempotency anchor: one payout per promotion. The payout
	// also stamps the tier record's payout clock, so it doubles as the first
	// recurring stipend of the new tier.
	PayTierReward(ctx context.Context, promotion *domain.PromotionHistory, amount int64) error

	// PayRecurringReward mints the periodic stipend a tier definition grants.
	// The payout clock claim makes the call safe to repeat: returns true when
	// this call paid, false when the stipend was not yet due or another
	// caller paid first.
	PayRecurringReward(ctx context.Context, record *domain.TierRecord, amount int64, dueBefore time.Time) (bool, error)

	// Reconcile verifies a user's cached balance against the signed sum of
	// their completed transfers. Returns ErrBalanceDrift on mismatch.
	Reconcile(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	ledger    repository.Ledger
	publisher event.Bus
}

// NewService creates a new settlement service
func NewService(ledger repository.Ledger, publisher event.Bus) Service {
	return &service{
		ledger:    ledger,
		publisher: publisher,
	}
}

func (s *service) Settle(ctx context.Context, participant *domain.Participant, challenge *domain.Challenge) (bool, error) {
	log := logger.FromContext(ctx)
	award := challenge.TotalAward()

	tx, err := s.ledger.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	// The claim is the only writer allowed to move active -> completed.
	// Zero rows means somebody else won, or the participant was never active;
	// either way there is nothing to award.
	rows, err := tx.ClaimParticipantCompletion(ctx, participant.ID, award)
	if err != nil {
		return false, fmt.Errorf("failed to claim completion: %w", err)
	}
	if rows == 0 {
		metrics.SettlementConflicts.Inc()
		log.Debug(LogMsgSettlementLost, "participant_id", participant.ID)
		return false, nil
	}

	// Zero-prize challenges still complete participants; the ledger is
	// append-only for real value and records no zero transfers.
	if award > 0 {
		transfer := domain.LedgerTransfer{
			ID:          uuid.New(),
			ChallengeID: &challenge.ID,
			ToUserID:    &participant.UserID,
			Amount:      award,
			Kind:        domain.TransferKindAward,
			Status:      domain.TransferStatusCompleted,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.InsertTransfer(ctx, &transfer); err != nil {
			return false, fmt.Errorf("failed to insert award transfer: %w", err)
		}

		if err := s.credit(ctx, tx, participant.UserID, award); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit settlement: %w", err)
	}

	metrics.Transfers.WithLabelValues(string(domain.TransferKindAward)).Inc()
	log.Info(LogMsgRewardSettled,
		"participant_id", participant.ID,
		"challenge_id", challenge.ID,
		"user_id", participant.UserID,
		"amount", award)

	if err := s.publisher.Publish(ctx, event.NewChallengeCompletedEvent(
		participant.ID, participant.UserID, challenge.ID, award)); err != nil {
		log.Warn(LogMsgEventPublishFailed, "error", err)
	}

	return true, nil
}

func (s *service) Reserve(ctx context.Context, challenge *domain.Challenge) error {
	log := logger.FromContext(ctx)
	reserve := challenge.ReserveRequired()

	tx, err := s.ledger.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	rows, err := tx.ClaimChallengeStatus(ctx, challenge.ID, domain.ChallengeStatusDraft, domain.ChallengeStatusActive)
	if err != nil {
		return fmt.Errorf("failed to claim activation: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: challenge %s is not in draft", domain.ErrInvalidTransition, challenge.ID)
	}

	balance, err := tx.GetBalanceForUpdate(ctx, challenge.CreatorID)
	if err != nil {
		return fmt.Errorf("failed to lock creator balance: %w", err)
	}
	if balance < reserve {
		return fmt.Errorf("%w: need %d, have %d", domain.ErrInsufficientBalance, reserve, balance)
	}
	if err := tx.UpdateBalance(ctx, challenge.CreatorID, balance-reserve); err != nil {
		return fmt.Errorf("failed to debit creator: %w", err)
	}

	// A zero-prize, zero-bonus challenge needs no reserve and gets no
	// ledger row; activation is still claimed and recorded.
	if reserve > 0 {
		transfer := domain.LedgerTransfer{
			ID:          uuid.New(),
			ChallengeID: &challenge.ID,
			FromUserID:  &challenge.CreatorID,
			Amount:      reserve,
			Kind:        domain.TransferKindReserve,
			Status:      domain.TransferStatusCompleted,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.InsertTransfer(ctx, &transfer); err != nil {
			return fmt.Errorf("failed to insert reserve transfer: %w", err)
		}
	}
	if err := tx.SetChallengeReserve(ctx, challenge.ID, reserve); err != nil {
		return fmt.Errorf("failed to record reserve: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reserve: %w", err)
	}

	metrics.Transfers.WithLabelValues(string(domain.TransferKindReserve)).Inc()
	log.Info(LogMsgChallengeReserved,
		"challenge_id", challenge.ID,
		"creator_id", challenge.CreatorID,
		"amount", reserve)
	return nil
}

func (s *service) Refund(ctx context.Context, challenge *domain.Challenge, next domain.ChallengeStatus, settledCount int64) (int64, error) {
	log := logger.FromContext(ctx)

	tx, err := s.ledger.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	rows, err := tx.ClaimChallengeStatus(ctx, challenge.ID, domain.ChallengeStatusActive, next)
	if err != nil {
		return 0, fmt.Errorf("failed to claim close-out: %w", err)
	}
	if rows == 0 {
		// Another run already closed this challenge out.
		return 0, nil
	}

	spent := settledCount * challenge.TotalAward()
	unspent := challenge.ReservedAmount - spent
	if unspent < 0 {
		return 0, fmt.Errorf("%w: challenge %s settled %d over a reserve of %d",
			domain.ErrBalanceDrift, challenge.ID, spent, challenge.ReservedAmount)
	}
	if unspent == 0 {
		if err := tx.Commit(ctx); err != nil {
			return 0, fmt.Errorf("failed to commit close-out: %w", err)
		}
		return 0, nil
	}

	transfer := domain.LedgerTransfer{
		ID:          uuid.New(),
		ChallengeID: &challenge.ID,
		ToUserID:    &challenge.CreatorID,
		Amount:      unspent,
		Kind:        domain.TransferKindRefund,
		Status:      domain.TransferStatusCompleted,
		CreatedAt:   time.Now().UTC(),
	}
	if err := tx.InsertTransfer(ctx, &transfer); err != nil {
		return 0, fmt.Errorf("failed to insert refund transfer: %w", err)
	}
	if err := s.credit(ctx, tx, challenge.CreatorID, unspent); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit refund: %w", err)
	}

	metrics.Transfers.WithLabelValues(string(domain.TransferKindRefund)).Inc()
	log.Info(LogMsgReserveRefunded,
		"challenge_id", challenge.ID,
		"creator_id", challenge.CreatorID,
		"amount", unspent)
	return unspent, nil
}

func (s *service) PayTierReward(ctx context.Context, promotion *domain.PromotionHistory, amount int64) error {
	if amount <= 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	tx, err := s.ledger.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	// Stamping the payout clock here means the weekly run skips this record
	// until a full period has passed since the promotion.
	if _, err := tx.ClaimTierPayout(ctx, promotion.UserID, promotion.Kind, promotion.Scope, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to stamp payout clock: %w", err)
	}

	// FromUserID stays nil: tier rewards are minted, not moved from escrow.
	// The unique index on promotion_id makes a duplicate payout a conflict.
	transfer := domain.LedgerTransfer{
		ID:          uuid.New(),
		PromotionID: &promotion.ID,
		ToUserID:    &promotion.UserID,
		Amount:      amount,
		Kind:        domain.TransferKindBonus,
		Status:      domain.TransferStatusCompleted,
		CreatedAt:   time.Now().UTC(),
	}
	if err := tx.InsertTransfer(ctx, &transfer); err != nil {
		return fmt.Errorf("failed to insert tier reward transfer: %w", err)
	}
	if err := s.credit(ctx, tx, promotion.UserID, amount); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tier reward: %w", err)
	}

	metrics.Transfers.WithLabelValues(string(domain.TransferKindBonus)).Inc()
	metrics.TierPayouts.Inc()
	log.Info(LogMsgTierRewardPaid,
		"user_id", promotion.UserID,
		"promotion_id", promotion.ID,
		"amount", amount)
	return nil
}

func (s *service) PayRecurringReward(ctx context.Context, record *domain.TierRecord, amount int64, dueBefore time.Time) (bool, error) {
	if amount <= 0 {
		return false, nil
	}
	log := logger.FromContext(ctx)

	tx, err := s.ledger.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	rows, err := tx.ClaimTierPayout(ctx, record.UserID, record.Kind, record.Scope, dueBefore)
	if err != nil {
		return false, fmt.Errorf("failed to claim tier payout: %w", err)
	}
	if rows == 0 {
		// Not due yet, or another run already paid this period.
		return false, nil
	}

	transfer := domain.LedgerTransfer{
		ID:        uuid.New(),
		ToUserID:  &record.UserID,
		Amount:    amount,
		Kind:      domain.TransferKindBonus,
		Status:    domain.TransferStatusCompleted,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.InsertTransfer(ctx, &transfer); err != nil {
		return false, fmt.Errorf("failed to insert stipend transfer: %w", err)
	}
	if err := s.credit(ctx, tx, record.UserID, amount); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit stipend: %w", err)
	}

	metrics.Transfers.WithLabelValues(string(domain.TransferKindBonus)).Inc()
	metrics.TierPayouts.Inc()
	log.Info(LogMsgRecurringRewardPaid,
		"user_id", record.UserID,
		"kind", record.Kind,
		"amount", amount)
	return true, nil
}

func (s *service) Reconcile(ctx context.Context, userID uuid.UUID) error {
	balance, err := s.ledger.GetBalance(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get balance: %w", err)
	}
	sum, err := s.ledger.SumCompletedTransfers(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to sum transfers: %w", err)
	}
	if balance != sum {
		return fmt.Errorf("%w: user %s balance %d, ledger %d", domain.ErrBalanceDrift, userID, balance, sum)
	}
	return nil
}

// credit adds to a user's balance under the transaction's row lock.
func (s *service) credit(ctx context.Context, tx repository.LedgerTx, userID uuid.UUID, amount int64) error {
	balance, err := tx.GetBalanceForUpdate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to lock balance: %w", err)
	}
	if err := tx.UpdateBalance(ctx, userID, balance+amount); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}
