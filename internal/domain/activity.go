package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionOutcome is one multi-participant game session from the activity
// read model, projected for a single user. TopScore is the maximum score
// among all of the session's participants.
type SessionOutcome struct {
	SessionID uuid.UUID `json:"session_id"`
	Mode      string    `json:"mode"`
	PlayedAt  time.Time `json:"played_at"`
	Score     float64   `json:"score"`
	TopScore  float64   `json:"top_score"`
	Answered  int       `json:"answered"`
	Correct   int       `json:"correct"`
}

// IsWin reports whether the user's score is the session maximum.
// Ties count as wins.
func (o SessionOutcome) IsWin() bool {
	return o.Score >= o.TopScore
}

// DayActivity aggregates one calendar day of learning activity.
// Day is truncated to midnight UTC.
type DayActivity struct {
	Day      time.Time `json:"day"`
	Sessions int       `json:"sessions"`
	Minutes  int       `json:"minutes"`
	Answered int       `json:"answered"`
}

// AnswerStats is the correct/total answer projection behind consolidation.
type AnswerStats struct {
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
}

// Percent is the consolidation percentage, zero when nothing was answered.
func (s AnswerStats) Percent() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered) * 100
}
