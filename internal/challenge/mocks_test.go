package challenge

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/repository"
)

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

// Ensure MockActivity implements repository.Activity
var _ repository.Activity = (*MockActivity)(nil)

// MockTierResolver implements TierResolver for testing
type MockTierResolver struct {
	mock.Mock
}

func (m *MockTierResolver) TierFor(ctx context.Context, kind domain.TierKind, metric float64) (domain.TierDefinition, error) {
	args := m.Called(ctx, kind, metric)
	return args.Get(0).(domain.TierDefinition), args.Error(1)
}

var _ TierResolver = (*MockTierResolver)(nil)

// Test fixtures

var testJoinedAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func createTestParticipant() *domain.Participant {
	return &domain.Participant{
		ID:          uuid.New(),
		ChallengeID: uuid.New(),
		UserID:      uuid.New(),
		Status:      domain.ParticipantStatusActive,
		JoinedAt:    testJoinedAt,
	}
}

func createTestChallenge(challengeType domain.ChallengeType, config domain.ChallengeConfig) *domain.Challenge {
	now := time.Now().UTC()
	return &domain.Challenge{
		ID:              uuid.New(),
		CreatorID:       uuid.New(),
		Title:           "test challenge",
		Type:            challengeType,
		Config:          config,
		PrizeAmount:     100,
		BonusAmount:     20,
		MaxParticipants: 10,
		StartsAt:        testJoinedAt,
		EndsAt:          testJoinedAt.AddDate(0, 1, 0),
		Status:          domain.ChallengeStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// day builds a qualifying DayActivity on the given March 2026 date.
func day(dayOfMonth, sessions, minutes, answered int) domain.DayActivity {
	return domain.DayActivity{
		Day:      time.Date(2026, 3, dayOfMonth, 0, 0, 0, 0, time.UTC),
		Sessions: sessions,
		Minutes:  minutes,
		Answered: answered,
	}
}

func intPtr(v int) *int { return &v }
