package level

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/questline-app/questline/internal/domain"
)

func TestTierFor(t *testing.T) {
	mockRepo := &MockTierRepository{}
	svc := NewService(mockRepo, &MockBus{})
	ctx := context.Background()

	ladder := createTestLadder()
	mockRepo.On("ListTierDefinitions", ctx, domain.TierKindTopicUser).Return(ladder, nil).Once()

	tests := []struct {
		name   string
		metric float64
		want   string
	}{
		{"zero metric lands in lowest tier", 0, "Bronze"},
		{"lower bound is inclusive", 50, "Silver"},
		{"upper bound is exclusive", 79.999, "Silver"},
		{"boundary promotes", 80, "Gold"},
		{"open-ended top tier", 100, "Gold"},
		{"below every minimum falls back to lowest", -5, "Bronze"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, err := svc.TierFor(ctx, domain.TierKindTopicUser, tt.metric)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tier.Name)
		})
	}

	// The ladder was loaded once and served from cache afterwards.
	mockRepo.AssertExpectations(t)
}

func TestTierFor_InvalidLadderRejected(t *testing.T) {
	mockRepo := &MockTierRepository{}
	svc := NewService(mockRepo, &MockBus{})
	ctx := context.Background()

	mockRepo.On("ListTierDefinitions", ctx, domain.TierKindCreator).
		Return([]domain.TierDefinition{}, nil)

	_, err := svc.TierFor(ctx, domain.TierKindCreator, 10)

	assert.ErrorIs(t, err, domain.ErrInvalidLadder)
}

func TestRecalculate_FirstPlacement(t *testing.T) {
	// ARRANGE
	mockRepo := &MockTierRepository{}
	mockBus := &MockBus{}
	svc := NewService(mockRepo, mockBus)
	ctx := context.Background()

	ladder := createTestLadder()
	userID := uuid.New()
	scope := "algebra"

	mockRepo.On("ListTierDefinitions", ctx, domain.TierKindTopicUser).Return(ladder, nil)
	mockRepo.On("GetTierRecord", ctx, userID, domain.TierKindTopicUser, &scope).
		Return(nil, domain.ErrTierNotFound)
	mockRepo.On("UpsertTierRecord", ctx, mock.Anything).Return(nil)
	mockRepo.On("InsertPromotion", ctx, mock.Anything).Return(nil)
	mockBus.On("Publish", ctx, mock.Anything).Return(nil)

	// ACT
	promotion, err := svc.Recalculate(ctx, userID, domain.TierKindTopicUser, &scope, domain.TierMetrics{
		Consolidation: 85,
		ComputedAt:    time.Now().UTC(),
	}, false)

	// ASSERT
	require.NoError(t, err)
	require.NotNil(t, promotion)
	assert.Nil(t, promotion.PreviousTierID)
	assert.Equal(t, ladder[2].ID, promotion.NewTierID)
	mockRepo.AssertExpectations(t)
	mockBus.AssertExpectations(t)
}

func TestRecalculate_UnchangedTierIsNoOp(t *testing.T) {
	mockRepo := &MockTierRepository{}
	mockBus := &MockBus{}
	svc := NewService(mockRepo, mockBus)
	ctx := context.Background()

	ladder := createTestLadder()
	userID := uuid.New()
	existing := &domain.TierRecord{
		ID:     uuid.New(),
		UserID: userID,
		Kind:   domain.TierKindTopicUser,
		TierID: ladder[1].ID, // Silver
	}

	mockRepo.On("ListTierDefinitions", ctx, domain.TierKindTopicUser).Return(ladder, nil)
	mockRepo.On("GetTierRecord", ctx, userID, domain.TierKindTopicUser, (*string)(nil)).
		Return(existing, nil)
	// Only the snapshot refresh, no promotion row, no event.
	mockRepo.On("UpsertTierRecord", ctx, mock.MatchedBy(func(r *domain.TierRecord) bool {
		return r.ID == existing.ID && r.TierID == ladder[1].ID
	})).Return(nil)

	promotion, err := svc.Recalculate(ctx, userID, domain.TierKindTopicUser, nil, domain.TierMetrics{
		Consolidation: 65,
	}, false)

	require.NoError(t, err)
	assert.Nil(t, promotion)
	mockRepo.AssertNotCalled(t, "InsertPromotion")
	mockBus.AssertNotCalled(t, "Publish")
}

func TestRecalculate_ForceAppendsHistoryForUnchangedTier(t *testing.T) {
	// A forced recompute writes the record and a history row even when the
	// metric lands in the same tier, so the recompute leaves an audit trail.
	// Nothing was promoted, so no event goes out.
	mockRepo := &MockTierRepository{}
	mockBus := &MockBus{}
	svc := NewService(mockRepo, mockBus)
	ctx := context.Background()

	ladder := createTestLadder()
	userID := uuid.New()
	existing := &domain.TierRecord{
		ID:     uuid.New(),
		UserID: userID,
		Kind:   domain.TierKindTopicUser,
		TierID: ladder[1].ID, // Silver
	}

	mockRepo.On("ListTierDefinitions", ctx, domain.TierKindTopicUser).Return(ladder, nil)
	mockRepo.On("GetTierRecord", ctx, userID, domain.TierKindTopicUser, (*string)(nil)).
		Return(existing, nil)
	mockRepo.On("UpsertTierRecord", ctx, mock.MatchedBy(func(r *domain.TierRecord) bool {
		return r.ID == existing.ID && r.TierID == ladder[1].ID
	})).Return(nil)
	mockRepo.On("InsertPromotion", ctx, mock.MatchedBy(func(p *domain.PromotionHistory) bool {
		return p.PreviousTierID != nil && *p.PreviousTierID == ladder[1].ID && p.NewTierID == ladder[1].ID
	})).Return(nil)

	promotion, err := svc.Recalculate(ctx, userID, domain.TierKindTopicUser, nil, domain.TierMetrics{
		Consolidation: 65, // still Silver
	}, true)

	require.NoError(t, err)
	require.NotNil(t, promotion)
	assert.Equal(t, ladder[1].ID, promotion.NewTierID)
	mockRepo.AssertExpectations(t)
	mockBus.AssertNotCalled(t, "Publish")
}

func TestRecalculate_DemotionRecordedLikePromotion(t *testing.T) {
	mockRepo := &MockTierRepository{}
	mockBus := &MockBus{}
	svc := NewService(mockRepo, mockBus)
	ctx := context.Background()

	ladder := createTestLadder()
	userID := uuid.New()
	existing := &domain.TierRecord{
		ID:     uuid.New(),
		UserID: userID,
		Kind:   domain.TierKindTopicUser,
		TierID: ladder[2].ID, // Gold
	}

	mockRepo.On("ListTierDefinitions", ctx, domain.TierKindTopicUser).Return(ladder, nil)
	mockRepo.On("GetTierRecord", ctx, userID, domain.TierKindTopicUser, (*string)(nil)).
		Return(existing, nil)
	mockRepo.On("UpsertTierRecord", ctx, mock.Anything).Return(nil)
	mockRepo.On("InsertPromotion", ctx, mock.MatchedBy(func(p *domain.PromotionHistory) bool {
		return p.PreviousTierID != nil && *p.PreviousTierID == ladder[2].ID && p.NewTierID == ladder[0].ID
	})).Return(nil)
	mockBus.On("Publish", ctx, mock.Anything).Return(nil)

	promotion, err := svc.Recalculate(ctx, userID, domain.TierKindTopicUser, nil, domain.TierMetrics{
		Consolidation: 20,
	}, false)

	require.NoError(t, err)
	require.NotNil(t, promotion)
	assert.Equal(t, ladder[0].ID, promotion.NewTierID)
	mockRepo.AssertExpectations(t)
}

func TestRecalculate_PublishFailureDoesNotFailRun(t *testing.T) {
	mockRepo := &MockTierRepository{}
	mockBus := &MockBus{}
	svc := NewService(mockRepo, mockBus)
	ctx := context.Background()

	ladder := createTestLadder()
	userID := uuid.New()

	mockRepo.On("ListTierDefinitions", ctx, domain.TierKindTopicUser).Return(ladder, nil)
	mockRepo.On("GetTierRecord", ctx, userID, domain.TierKindTopicUser, (*string)(nil)).
		Return(nil, domain.ErrTierNotFound)
	mockRepo.On("UpsertTierRecord", ctx, mock.Anything).Return(nil)
	mockRepo.On("InsertPromotion", ctx, mock.Anything).Return(nil)
	mockBus.On("Publish", ctx, mock.Anything).Return(assert.AnError)

	promotion, err := svc.Recalculate(ctx, userID, domain.TierKindTopicUser, nil, domain.TierMetrics{
		Consolidation: 90,
	}, false)

	require.NoError(t, err)
	assert.NotNil(t, promotion)
}

func TestRecalculate_ActiveUserMetricForCreatorKind(t *testing.T) {
	// Creator ladders are scanned with the active-user count, not consolidation.
	mockRepo := &MockTierRepository{}
	mockBus := &MockBus{}
	svc := NewService(mockRepo, mockBus)
	ctx := context.Background()

	creatorLadder := []domain.TierDefinition{
		{ID: uuid.New(), Kind: domain.TierKindCreator, Name: "Starter", Order: 1, MinMetric: 0, MaxMetric: float64Ptr(100)},
		{ID: uuid.New(), Kind: domain.TierKindCreator, Name: "Partner", Order: 2, MinMetric: 100},
	}
	userID := uuid.New()

	mockRepo.On("ListTierDefinitions", ctx, domain.TierKindCreator).Return(creatorLadder, nil)
	mockRepo.On("GetTierRecord", ctx, userID, domain.TierKindCreator, (*string)(nil)).
		Return(nil, domain.ErrTierNotFound)
	mockRepo.On("UpsertTierRecord", ctx, mock.Anything).Return(nil)
	mockRepo.On("InsertPromotion", ctx, mock.Anything).Return(nil)
	mockBus.On("Publish", ctx, mock.Anything).Return(nil)

	promotion, err := svc.Recalculate(ctx, userID, domain.TierKindCreator, nil, domain.TierMetrics{
		Consolidation: 5, // ignored for creator kind
		ActiveUsers:   150,
	}, false)

	require.NoError(t, err)
	require.NotNil(t, promotion)
	assert.Equal(t, creatorLadder[1].ID, promotion.NewTierID)
}

func TestReloadLadders(t *testing.T) {
	mockRepo := &MockTierRepository{}
	svc := NewService(mockRepo, &MockBus{})
	ctx := context.Background()

	ladder := createTestLadder()
	mockRepo.On("ListTierDefinitions", ctx, domain.TierKindTopicUser).Return(ladder, nil).Twice()

	_, err := svc.TierFor(ctx, domain.TierKindTopicUser, 10)
	require.NoError(t, err)

	svc.ReloadLadders(ctx)

	_, err = svc.TierFor(ctx, domain.TierKindTopicUser, 10)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
