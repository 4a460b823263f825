package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/event"
	"github.com/questline-app/questline/internal/repository"
)

// MockLedger implements repository.Ledger for testing
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.LedgerTx), args.Error(1)
}

func (m *MockLedger) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) ListTransfersForUser(ctx context.Context, userID uuid.UUID) ([]domain.LedgerTransfer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerTransfer), args.Error(1)
}

func (m *MockLedger) SumCompletedTransfers(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) ListRecentTransferUsers(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

var _ repository.Ledger = (*MockLedger)(nil)

// MockLedgerTx implements repository.LedgerTx for testing
type MockLedgerTx struct {
	mock.Mock
}

func (m *MockLedgerTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLedgerTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLedgerTx) GetBalanceForUpdate(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerTx) UpdateBalance(ctx context.Context, userID uuid.UUID, balance int64) error {
	args := m.Called(ctx, userID, balance)
	return args.Error(0)
}

func (m *MockLedgerTx) InsertTransfer(ctx context.Context, transfer *domain.LedgerTransfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockLedgerTx) ClaimParticipantCompletion(ctx context.Context, participantID uuid.UUID, prize int64) (int64, error) {
	args := m.Called(ctx, participantID, prize)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerTx) ClaimChallengeStatus(ctx context.Context, challengeID uuid.UUID, expected, next domain.ChallengeStatus) (int64, error) {
	args := m.Called(ctx, challengeID, expected, next)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerTx) SetChallengeReserve(ctx context.Context, challengeID uuid.UUID, amount int64) error {
	args := m.Called(ctx, challengeID, amount)
	return args.Error(0)
}

func (m *MockLedgerTx) ClaimTierPayout(ctx context.Context, userID uuid.UUID, kind domain.TierKind, scope *string, dueBefore time.Time) (int64, error) {
	args := m.Called(ctx, userID, kind, scope, dueBefore)
	return args.Get(0).(int64), args.Error(1)
}

var _ repository.LedgerTx = (*MockLedgerTx)(nil)

// MockBus implements event.Bus for testing
type MockBus struct {
	mock.Mock
}

func (m *MockBus) Publish(ctx context.Context, e event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockBus) Subscribe(eventType event.Type, handler event.Handler) {
	m.Called(eventType, handler)
}

var _ event.Bus = (*MockBus)(nil)

// Test fixtures

func createTestChallenge() *domain.Challenge {
	return &domain.Challenge{
		ID:              uuid.New(),
		CreatorID:       uuid.New(),
		Type:            domain.ChallengeTypeStreak,
		PrizeAmount:     100,
		BonusAmount:     20,
		MaxParticipants: 5,
		Status:          domain.ChallengeStatusActive,
	}
}

func createTestParticipant(challengeID uuid.UUID) *domain.Participant {
	return &domain.Participant{
		ID:          uuid.New(),
		ChallengeID: challengeID,
		UserID:      uuid.New(),
		Status:      domain.ParticipantStatusActive,
	}
}
