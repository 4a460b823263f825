package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
)

// Challenge defines the interface for challenge persistence.
type Challenge interface {
	GetChallenge(ctx context.Context, id uuid.UUID) (*domain.Challenge, error)
	CreateChallenge(ctx context.Context, challenge *domain.Challenge) error

	// UpdateChallengeStatusIfMatches performs a compare-and-swap on challenge
	// status. Returns rows affected (0 if the status didn't match).
	UpdateChallengeStatusIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.ChallengeStatus) (int64, error)

	// ListExpiredActiveChallenges returns active challenges whose window has
	// elapsed as of now.
	ListExpiredActiveChallenges(ctx context.Context, now time.Time) ([]domain.Challenge, error)
}
