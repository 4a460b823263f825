package level

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/event"
	"github.com/questline-app/questline/internal/repository"
)

// MockTierRepository implements repository.Tier for testing
type MockTierRepository struct {
	mock.Mock
}

func (m *MockTierRepository) ListTierDefinitions(ctx context.Context, kind domain.TierKind) ([]domain.TierDefinition, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TierDefinition), args.Error(1)
}

func (m *MockTierRepository) UpsertTierDefinition(ctx context.Context, def *domain.TierDefinition) error {
	args := m.Called(ctx, def)
	return args.Error(0)
}

func (m *MockTierRepository) GetTierRecord(ctx context.Context, userID uuid.UUID, kind domain.TierKind, scope *string) (*domain.TierRecord, error) {
	args := m.Called(ctx, userID, kind, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TierRecord), args.Error(1)
}

func (m *MockTierRepository) UpsertTierRecord(ctx context.Context, record *domain.TierRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockTierRepository) ListTierRecords(ctx context.Context, kind domain.TierKind) ([]domain.TierRecord, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TierRecord), args.Error(1)
}

func (m *MockTierRepository) InsertPromotion(ctx context.Context, promotion *domain.PromotionHistory) error {
	args := m.Called(ctx, promotion)
	return args.Error(0)
}

func (m *MockTierRepository) ListPromotions(ctx context.Context, userID uuid.UUID, kind domain.TierKind) ([]domain.PromotionHistory, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PromotionHistory), args.Error(1)
}

var _ repository.Tier = (*MockTierRepository)(nil)

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

func float64Ptr(v float64) *float64 { return &v }

// createTestLadder builds the topic-user ladder used across the tests:
// Bronze [0,50), Silver [50,80), Gold [80,+inf).
func createTestLadder() []domain.TierDefinition {
	return []domain.TierDefinition{
		{ID: uuid.New(), Kind: domain.TierKindTopicUser, Name: "Bronze", Order: 1, MinMetric: 0, MaxMetric: float64Ptr(50), PayoutAmount: 0},
		{ID: uuid.New(), Kind: domain.TierKindTopicUser, Name: "Silver", Order: 2, MinMetric: 50, MaxMetric: float64Ptr(80), PayoutAmount: 100},
		{ID: uuid.New(), Kind: domain.TierKindTopicUser, Name: "Gold", Order: 3, MinMetric: 80, PayoutAmount: 500},
	}
}
