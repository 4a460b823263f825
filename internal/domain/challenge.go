package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChallengeType identifies the validation rules applied to a challenge.
type ChallengeType string

const (
	ChallengeTypeMarathon      ChallengeType = "marathon"
	ChallengeTypeLevel         ChallengeType = "level"
	ChallengeTypeStreak        ChallengeType = "streak"
	ChallengeTypeCompetition   ChallengeType = "competition"
	ChallengeTypeConsolidation ChallengeType = "consolidation"
	ChallengeTypeTemporal      ChallengeType = "temporal"
)

// ChallengeTypes lists every supported challenge type.
var ChallengeTypes = []ChallengeType{
	ChallengeTypeMarathon,
	ChallengeTypeLevel,
	ChallengeTypeStreak,
	ChallengeTypeCompetition,
	ChallengeTypeConsolidation,
	ChallengeTypeTemporal,
}

// ChallengeStatus represents the lifecycle state of a challenge.
type ChallengeStatus string

const (
	ChallengeStatusDraft     ChallengeStatus = "draft"
	ChallengeStatusActive    ChallengeStatus = "active"
	ChallengeStatusPaused    ChallengeStatus = "paused"
	ChallengeStatusCompleted ChallengeStatus = "completed"
	ChallengeStatusCancelled ChallengeStatus = "cancelled"
)

// Challenge is a time-boxed objective with a point reward. Its configuration
// is immutable once the challenge leaves draft.
type Challenge struct {
	ID              uuid.UUID       `json:"id"`
	CreatorID       uuid.UUID       `json:"creator_id"`
	Title           string          `json:"title"`
	Type            ChallengeType   `json:"type"`
	Config          ChallengeConfig `json:"config"`
	PrizeAmount     int64           `json:"prize_amount"`
	BonusAmount     int64           `json:"bonus_amount"`
	MaxParticipants int             `json:"max_participants"`
	StartsAt        time.Time       `json:"starts_at"`
	EndsAt          time.Time       `json:"ends_at"`
	Status          ChallengeStatus `json:"status"`
	ReservedAmount  int64           `json:"reserved_amount"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TotalAward is the amount a single participant receives on completion.
func (c *Challenge) TotalAward() int64 {
	return c.PrizeAmount + c.BonusAmount
}

// ReserveRequired is the amount held against the creator's balance when the
// challenge activates: full award for every possible winner.
func (c *Challenge) ReserveRequired() int64 {
	return c.TotalAward() * int64(c.MaxParticipants)
}

// IsOpenAt reports whether the challenge accepts progress at the given time.
// The window is half-open: [StartsAt, EndsAt).
func (c *Challenge) IsOpenAt(t time.Time) bool {
	if c.Status != ChallengeStatusActive {
		return false
	}
	return !t.Before(c.StartsAt) && t.Before(c.EndsAt)
}

// IsExpiredAt reports whether the challenge window has elapsed.
func (c *Challenge) IsExpiredAt(t time.Time) bool {
	return !t.Before(c.EndsAt)
}
