package domain

import "time"

// ProgressSnapshot is the typed progress record attached to a participant.
// Percentage is always populated so partial credit is visible before
// completion; exactly one per-type detail variant is set, matching the
// challenge type. The whole snapshot serializes to a single JSONB column.
type ProgressSnapshot struct {
	Type       ChallengeType `json:"type"`
	Percentage float64       `json:"percentage"`
	ComputedAt time.Time     `json:"computed_at"`

	Marathon      *MarathonProgress      `json:"marathon,omitempty"`
	Level         *LevelProgress         `json:"level,omitempty"`
	Streak        *StreakProgress        `json:"streak,omitempty"`
	Competition   *CompetitionProgress   `json:"competition,omitempty"`
	Consolidation *ConsolidationProgress `json:"consolidation,omitempty"`
	Temporal      *TemporalProgress      `json:"temporal,omitempty"`
}

// ValidationResult is what a challenge validator returns: a completion
// decision plus the snapshot that justifies it.
type ValidationResult struct {
	Completed bool
	Progress  ProgressSnapshot
}

// MarathonUnitProgress is the per-unit breakdown of a marathon challenge.
type MarathonUnitProgress struct {
	UnitID    string  `json:"unit_id"`
	BestScore float64 `json:"best_score"`
	Attempts  int     `json:"attempts"`
	Passed    bool    `json:"passed"`
}

// MarathonProgress holds raw counters behind a marathon percentage.
type MarathonProgress struct {
	Units       []MarathonUnitProgress `json:"units"`
	UnitsPassed int                    `json:"units_passed"`
	UnitsTotal  int                    `json:"units_total"`
	MeanScore   float64                `json:"mean_score"`
}

// LevelTargetProgress is the per-scope breakdown of a tiered-level challenge.
type LevelTargetProgress struct {
	Scope         string  `json:"scope"`
	Consolidation float64 `json:"consolidation"`
	CurrentOrder  int     `json:"current_order"`
	TargetOrder   int     `json:"target_order"`
	Met           bool    `json:"met"`
}

// LevelProgress holds raw counters behind a tiered-level percentage.
type LevelProgress struct {
	Targets    []LevelTargetProgress `json:"targets"`
	TargetsMet int                   `json:"targets_met"`
}

// StreakProgress holds the streak counters.
type StreakProgress struct {
	CurrentStreak   int `json:"current_streak"`
	MaxStreak       int `json:"max_streak"`
	RequiredDays    int `json:"required_days"`
	DaysCounted     int `json:"days_counted"`
	GraceBreaksUsed int `json:"grace_breaks_used"`
}

// CompetitionProgress holds win/accuracy counters.
type CompetitionProgress struct {
	Wins           int     `json:"wins"`
	SessionsPlayed int     `json:"sessions_played"`
	WinRate        float64 `json:"win_rate"`
	Accuracy       float64 `json:"accuracy"`
	RequiredWins   int     `json:"required_wins"`
}

// ConsolidationProgress holds the answer ratio counters.
type ConsolidationProgress struct {
	Consolidation float64 `json:"consolidation"`
	TargetPercent float64 `json:"target_percent"`
	Answered      int     `json:"answered"`
	Correct       int     `json:"correct"`
}

// TemporalObjectiveProgress is one weighted sub-objective's contribution.
type TemporalObjectiveProgress struct {
	Index      int           `json:"index"`
	Type       ChallengeType `json:"type"`
	Percentage float64       `json:"percentage"`
	Weight     float64       `json:"weight"`
}

// TemporalProgress holds the weighted composite breakdown.
type TemporalProgress struct {
	Objectives      []TemporalObjectiveProgress `json:"objectives"`
	WeightedAverage float64                     `json:"weighted_average"`
}
