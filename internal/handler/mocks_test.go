package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/questline-app/questline/internal/challenge"
	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/level"
	"github.com/questline-app/questline/internal/orchestrator"
	"github.com/questline-app/questline/internal/repository"
	"github.com/questline-app/questline/internal/settlement"
)

// MockDBPool mocks the database.Pool interface
type MockDBPool struct {
	mock.Mock
}

func (m *MockDBPool) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDBPool) Close() {
	m.Called()
}

// MockChallengeRepo mocks repository.Challenge
type MockChallengeRepo struct {
	mock.Mock
}

var _ repository.Challenge = (*MockChallengeRepo)(nil)

func (m *MockChallengeRepo) GetChallenge(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Challenge), args.Error(1)
}

func (m *MockChallengeRepo) CreateChallenge(ctx context.Context, ch *domain.Challenge) error {
	args := m.Called(ctx, ch)
	return args.Error(0)
}

func (m *MockChallengeRepo) UpdateChallengeStatusIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.ChallengeStatus) (int64, error) {
	args := m.Called(ctx, id, expected, next)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChallengeRepo) ListExpiredActiveChallenges(ctx context.Context, now time.Time) ([]domain.Challenge, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Challenge), args.Error(1)
}

// MockParticipantRepo mocks repository.Participant
type MockParticipantRepo struct {
	mock.Mock
}

var _ repository.Participant = (*MockParticipantRepo)(nil)

func (m *MockParticipantRepo) GetParticipant(ctx context.Context, id uuid.UUID) (*domain.Participant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}

func (m *MockParticipantRepo) CreateParticipantCapped(ctx context.Context, participant *domain.Participant) (bool, error) {
	args := m.Called(ctx, participant)
	return args.Bool(0), args.Error(1)
}

func (m *MockParticipantRepo) ListValidatableParticipants(ctx context.Context, now time.Time) ([]repository.ValidatableParticipant, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ValidatableParticipant), args.Error(1)
}

func (m *MockParticipantRepo) UpdateParticipantStatusIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.ParticipantStatus) (int64, error) {
	args := m.Called(ctx, id, expected, next)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockParticipantRepo) SaveProgress(ctx context.Context, id uuid.UUID, progress domain.ProgressSnapshot) error {
	args := m.Called(ctx, id, progress)
	return args.Error(0)
}

func (m *MockParticipantRepo) FailActiveParticipants(ctx context.Context, challengeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, challengeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockParticipantRepo) CountSettledParticipants(ctx context.Context, challengeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, challengeID)
	return args.Get(0).(int64), args.Error(1)
}

// MockLedgerRepo mocks repository.Ledger
type MockLedgerRepo struct {
	mock.Mock
}

var _ repository.Ledger = (*MockLedgerRepo)(nil)

func (m *MockLedgerRepo) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.LedgerTx), args.Error(1)
}

func (m *MockLedgerRepo) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepo) ListTransfersForUser(ctx context.Context, userID uuid.UUID) ([]domain.LedgerTransfer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerTransfer), args.Error(1)
}

func (m *MockLedgerRepo) SumCompletedTransfers(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepo) ListRecentTransferUsers(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockTierRepo mocks repository.Tier
type MockTierRepo struct {
	mock.Mock
}

var _ repository.Tier = (*MockTierRepo)(nil)

func (m *MockTierRepo) ListTierDefinitions(ctx context.Context, kind domain.TierKind) ([]domain.TierDefinition, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TierDefinition), args.Error(1)
}

func (m *MockTierRepo) UpsertTierDefinition(ctx context.Context, def *domain.TierDefinition) error {
	args := m.Called(ctx, def)
	return args.Error(0)
}

func (m *MockTierRepo) GetTierRecord(ctx context.Context, userID uuid.UUID, kind domain.TierKind, scope *string) (*domain.TierRecord, error) {
	args := m.Called(ctx, userID, kind, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TierRecord), args.Error(1)
}

func (m *MockTierRepo) UpsertTierRecord(ctx context.Context, record *domain.TierRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockTierRepo) ListTierRecords(ctx context.Context, kind domain.TierKind) ([]domain.TierRecord, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TierRecord), args.Error(1)
}

func (m *MockTierRepo) InsertPromotion(ctx context.Context, promotion *domain.PromotionHistory) error {
	args := m.Called(ctx, promotion)
	return args.Error(0)
}

func (m *MockTierRepo) ListPromotions(ctx context.Context, userID uuid.UUID, kind domain.TierKind) ([]domain.PromotionHistory, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PromotionHistory), args.Error(1)
}

// MockChallengeService mocks challenge.Service
type MockChallengeService struct {
	mock.Mock
}

var _ challenge.Service = (*MockChallengeService)(nil)

func (m *MockChallengeService) Validate(ctx context.Context, participant *domain.Participant, ch *domain.Challenge) (domain.ValidationResult, error) {
	args := m.Called(ctx, participant, ch)
	return args.Get(0).(domain.ValidationResult), args.Error(1)
}

func (m *MockChallengeService) CheckConfig(ch *domain.Challenge) error {
	args := m.Called(ch)
	return args.Error(0)
}

// MockSettlement mocks settlement.Service
type MockSettlement struct {
	mock.Mock
}

var _ settlement.Service = (*MockSettlement)(nil)

func (m *MockSettlement) Settle(ctx context.Context, participant *domain.Participant, ch *domain.Challenge) (bool, error) {
	args := m.Called(ctx, participant, ch)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettlement) Reserve(ctx context.Context, ch *domain.Challenge) error {
	args := m.Called(ctx, ch)
	return args.Error(0)
}

func (m *MockSettlement) Refund(ctx context.Context, ch *domain.Challenge, next domain.ChallengeStatus, settledCount int64) (int64, error) {
	args := m.Called(ctx, ch, next, settledCount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSettlement) PayTierReward(ctx context.Context, promotion *domain.PromotionHistory, amount int64) error {
	args := m.Called(ctx, promotion, amount)
	return args.Error(0)
}

func (m *MockSettlement) PayRecurringReward(ctx context.Context, record *domain.TierRecord, amount int64, dueBefore time.Time) (bool, error) {
	args := m.Called(ctx, record, amount, dueBefore)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettlement) Reconcile(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockOrchestrator mocks orchestrator.Service
type MockOrchestrator struct {
	mock.Mock
}

var _ orchestrator.Service = (*MockOrchestrator)(nil)

func (m *MockOrchestrator) RunChallenges(ctx context.Context) orchestrator.RunSummary {
	args := m.Called(ctx)
	return args.Get(0).(orchestrator.RunSummary)
}

func (m *MockOrchestrator) RunLevels(ctx context.Context) orchestrator.RunSummary {
	args := m.Called(ctx)
	return args.Get(0).(orchestrator.RunSummary)
}

func (m *MockOrchestrator) RunTierPayouts(ctx context.Context) orchestrator.RunSummary {
	args := m.Called(ctx)
	return args.Get(0).(orchestrator.RunSummary)
}

func (m *MockOrchestrator) ExpireChallenges(ctx context.Context) orchestrator.RunSummary {
	args := m.Called(ctx)
	return args.Get(0).(orchestrator.RunSummary)
}

func (m *MockOrchestrator) RunReconciliation(ctx context.Context) orchestrator.RunSummary {
	args := m.Called(ctx)
	return args.Get(0).(orchestrator.RunSummary)
}

// MockLevelService mocks level.Service
type MockLevelService struct {
	mock.Mock
}

var _ level.Service = (*MockLevelService)(nil)

func (m *MockLevelService) TierFor(ctx context.Context, kind domain.TierKind, metric float64) (domain.TierDefinition, error) {
	args := m.Called(ctx, kind, metric)
	return args.Get(0).(domain.TierDefinition), args.Error(1)
}

func (m *MockLevelService) Recalculate(ctx context.Context, userID uuid.UUID, kind domain.TierKind, scope *string, metricsSnapshot domain.TierMetrics, force bool) (*domain.PromotionHistory, error) {
	args := m.Called(ctx, userID, kind, scope, metricsSnapshot, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PromotionHistory), args.Error(1)
}

func (m *MockLevelService) ReloadLadders(ctx context.Context) {
	m.Called(ctx)
}
