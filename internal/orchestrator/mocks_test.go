package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/questline-app/questline/internal/challenge"
	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/event"
	"github.com/questline-app/questline/internal/level"
	"github.com/questline-app/questline/internal/repository"
	"github.com/questline-app/questline/internal/settlement"
)

// MockParticipantRepo implements repository.Participant for testing
type MockParticipantRepo struct {
	mock.Mock
}

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

var _ repository.Participant = (*MockParticipantRepo)(nil)

// MockChallengeRepo implements repository.Challenge for testing
type MockChallengeRepo struct {
	mock.Mock
}

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

var _ repository.Challenge = (*MockChallengeRepo)(nil)

// MockTierRepo implements repository.Tier for testing
type MockTierRepo struct {
	mock.Mock
}

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

var _ repository.Tier = (*MockTierRepo)(nil)

// MockActivity implements repository.Activity for testing
type MockActivity struct {
	mock.Mock
}

func (m *MockActivity) AnswerStats(ctx context.Context, userID uuid.UUID, topicID *string, since time.Time) (domain.AnswerStats, error) {
	args := m.Called(ctx, userID, topicID, since)
	return args.Get(0).(domain.AnswerStats), args.Error(1)
}

func (m *MockActivity) BestScore(ctx context.Context, userID uuid.UUID, unitID string, since time.Time, attemptCap int) (float64, int, error) {
	args := m.Called(ctx, userID, unitID, since, attemptCap)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

func (m *MockActivity) SessionOutcomes(ctx context.Context, userID uuid.UUID, modes []string, since time.Time) ([]domain.SessionOutcome, error) {
	args := m.Called(ctx, userID, modes, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SessionOutcome), args.Error(1)
}

func (m *MockActivity) DailyActivity(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.DayActivity, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DayActivity), args.Error(1)
}

func (m *MockActivity) ActiveUserCount(ctx context.Context, ownerID uuid.UUID, kind domain.TierKind, windowDays int) (int, error) {
	args := m.Called(ctx, ownerID, kind, windowDays)
	return args.Int(0), args.Error(1)
}

var _ repository.Activity = (*MockActivity)(nil)

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

// MockValidator implements challenge.Service for testing
type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) Validate(ctx context.Context, participant *domain.Participant, ch *domain.Challenge) (domain.ValidationResult, error) {
	args := m.Called(ctx, participant, ch)
	return args.Get(0).(domain.ValidationResult), args.Error(1)
}

func (m *MockValidator) CheckConfig(ch *domain.Challenge) error {
	args := m.Called(ch)
	return args.Error(0)
}

var _ challenge.Service = (*MockValidator)(nil)

// MockSettlement implements settlement.Service for testing
type MockSettlement struct {
	mock.Mock
}

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

var _ settlement.Service = (*MockSettlement)(nil)

// MockLevels implements level.Service for testing
type MockLevels struct {
	mock.Mock
}

func (m *MockLevels) TierFor(ctx context.Context, kind domain.TierKind, metric float64) (domain.TierDefinition, error) {
	args := m.Called(ctx, kind, metric)
	return args.Get(0).(domain.TierDefinition), args.Error(1)
}

func (m *MockLevels) Recalculate(ctx context.Context, userID uuid.UUID, kind domain.TierKind, scope *string, snapshot domain.TierMetrics, force bool) (*domain.PromotionHistory, error) {
	args := m.Called(ctx, userID, kind, scope, snapshot, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PromotionHistory), args.Error(1)
}

func (m *MockLevels) ReloadLadders(ctx context.Context) {
	m.Called(ctx)
}

var _ level.Service = (*MockLevels)(nil)

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
