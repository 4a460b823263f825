package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
)

// ValidatableParticipant pairs an active participant with its challenge, the
// unit of work one orchestrator validation job processes.
type ValidatableParticipant struct {
	Participant domain.Participant
	Challenge   domain.Challenge
}

// Participant defines the interface for participant persistence.
type Participant interface {
	GetParticipant(ctx context.Context, id uuid.UUID) (*domain.Participant, error)

	// CreateParticipantCapped inserts a participant only while the challenge
	// holds fewer than max_participants. The count and insert happen under
	// the challenge row lock, so concurrent joins cannot overshoot the cap.
	// Returns false when the challenge is already full.
	CreateParticipantCapped(ctx context.Context, participant *domain.Participant) (bool, error)

	// ListValidatableParticipants returns every active participant whose
	// challenge is active and inside its time window as of now, joined with
	// the challenge row so validators need no second lookup.
	ListValidatableParticipants(ctx context.Context, now time.Time) ([]ValidatableParticipant, error)

	// UpdateParticipantStatusIfMatches performs a compare-and-swap on
	// participant status. Returns rows affected (0 if the status didn't match).
	UpdateParticipantStatusIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.ParticipantStatus) (int64, error)

	// SaveProgress persists the latest progress snapshot. Called on every
	// validation pass, completed or not, so partial credit is queryable.
	SaveProgress(ctx context.Context, id uuid.UUID, progress domain.ProgressSnapshot) error

	// FailActiveParticipants transitions every active participant of a
	// challenge to failed; used when the challenge window expires. Returns
	// the number of participants transitioned.
	FailActiveParticipants(ctx context.Context, challengeID uuid.UUID) (int64, error)

	// CountSettledParticipants returns how many participants of a challenge
	// have been awarded, for unspent-reserve refund computation.
	CountSettledParticipants(ctx context.Context, challengeID uuid.UUID) (int64, error)
}
