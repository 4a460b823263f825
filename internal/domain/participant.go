package domain

import (
	"time"

	"github.com/google/uuid"
)

// ParticipantStatus is the participant state machine. Active is the only
// state from which completed/failed/abandoned are reachable; completed is
// terminal.
type ParticipantStatus string

const (
	ParticipantStatusInvited   ParticipantStatus = "invited"
	ParticipantStatusActive    ParticipantStatus = "active"
	ParticipantStatusCompleted ParticipantStatus = "completed"
	ParticipantStatusFailed    ParticipantStatus = "failed"
	ParticipantStatusAbandoned ParticipantStatus = "abandoned"
)

// IsTerminal reports whether no further transitions are allowed.
// Failed and abandoned participants are never re-validated; completed
// participants additionally never settle again.
func (s ParticipantStatus) IsTerminal() bool {
	switch s {
	case ParticipantStatusCompleted, ParticipantStatusFailed, ParticipantStatusAbandoned:
		return true
	}
	return false
}

// CanTransitionTo enforces the participant state machine.
func (s ParticipantStatus) CanTransitionTo(next ParticipantStatus) bool {
	switch s {
	case ParticipantStatusInvited:
		return next == ParticipantStatusActive || next == ParticipantStatusAbandoned
	case ParticipantStatusActive:
		return next == ParticipantStatusCompleted ||
			next == ParticipantStatusFailed ||
			next == ParticipantStatusAbandoned
	default:
		return false
	}
}

// Participant tracks one user's progress within one challenge.
// PrizeAwarded stays zero until settlement; PrizeAwarded > 0 implies
// Status == completed.
type Participant struct {
	ID           uuid.UUID         `json:"id"`
	ChallengeID  uuid.UUID         `json:"challenge_id"`
	UserID       uuid.UUID         `json:"user_id"`
	Status       ParticipantStatus `json:"status"`
	Progress     *ProgressSnapshot `json:"progress,omitempty"`
	PrizeAwarded int64             `json:"prize_awarded"`
	JoinedAt     time.Time         `json:"joined_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
