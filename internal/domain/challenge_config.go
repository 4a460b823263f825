package domain

// ChallengeConfig is the tagged union of per-type challenge configurations.
// Exactly one variant must be set, and it must match the challenge's Type.
// The union serializes to a single JSONB column; in memory every variant is a
// validated struct, so validators never probe for optional keys at runtime.
type ChallengeConfig struct {
	Marathon      *MarathonConfig      `json:"marathon,omitempty"`
	Level         *LevelConfig         `json:"level,omitempty"`
	Streak        *StreakConfig        `json:"streak,omitempty"`
	Competition   *CompetitionConfig   `json:"competition,omitempty"`
	Consolidation *ConsolidationConfig `json:"consolidation,omitempty"`
	Temporal      *TemporalConfig      `json:"temporal,omitempty"`
}

// Variant returns the populated variant's type, or "" when the union is empty
// or ambiguous (more than one variant set).
func (c ChallengeConfig) Variant() ChallengeType {
	var found ChallengeType
	count := 0
	if c.Marathon != nil {
		found, count = ChallengeTypeMarathon, count+1
	}
	if c.Level != nil {
		found, count = ChallengeTypeLevel, count+1
	}
	if c.Streak != nil {
		found, count = ChallengeTypeStreak, count+1
	}
	if c.Competition != nil {
		found, count = ChallengeTypeCompetition, count+1
	}
	if c.Consolidation != nil {
		found, count = ChallengeTypeConsolidation, count+1
	}
	if c.Temporal != nil {
		found, count = ChallengeTypeTemporal, count+1
	}
	if count != 1 {
		return ""
	}
	return found
}

// MarathonConfig requires best scores on a set of units (topic blocks).
type MarathonConfig struct {
	// UnitIDs are the units the participant must attempt.
	UnitIDs []string `json:"unit_ids" validate:"required,min=1,dive,required"`
	// ScoreThreshold is the passing score per unit (0-100).
	ScoreThreshold float64 `json:"score_threshold" validate:"gt=0,lte=100"`
	// AttemptCap bounds the attempts considered per unit. Zero means unlimited.
	AttemptCap int `json:"attempt_cap" validate:"gte=0"`
	// MustCompleteAll requires every unit to pass the threshold. When false,
	// the mean best score across all units must clear the threshold instead.
	MustCompleteAll bool `json:"must_complete_all"`
}

// LevelTarget pairs a scope (topic) with the tier the participant must reach.
type LevelTarget struct {
	Scope       string `json:"scope" validate:"required"`
	TargetOrder int    `json:"target_order" validate:"gte=1"`
}

// LevelConfig requires reaching tier ordinals in one or more scopes.
type LevelConfig struct {
	Targets []LevelTarget `json:"targets" validate:"required,min=1,dive"`
	// MinConsolidation is the floor every scope must also clear (0-100).
	MinConsolidation float64 `json:"min_consolidation" validate:"gte=0,lte=100"`
}

// StreakConfig requires consecutive qualifying days of activity.
type StreakConfig struct {
	RequiredDays int `json:"required_days" validate:"gte=1"`
	// A day counts only when all three minimums are met.
	MinSessions int `json:"min_sessions" validate:"gte=0"`
	MinMinutes  int `json:"min_minutes" validate:"gte=0"`
	MinAnswers  int `json:"min_answers" validate:"gte=0"`
	// GraceBreaks is the budget of single-day gaps that may be bridged
	// without resetting the streak. Nil means DefaultGraceBreaks.
	GraceBreaks *int `json:"grace_breaks,omitempty" validate:"omitempty,gte=0"`
}

// GraceBudget returns the configured grace-break budget, or the default when
// the configuration omits it.
func (c *StreakConfig) GraceBudget() int {
	if c.GraceBreaks == nil {
		return DefaultGraceBreaks
	}
	return *c.GraceBreaks
}

// CompetitionConfig requires wins in multi-participant game sessions.
type CompetitionConfig struct {
	Modes        []string `json:"modes" validate:"required,min=1,dive,required"`
	RequiredWins int      `json:"required_wins" validate:"gte=1"`
	MinWinRate   float64  `json:"min_win_rate" validate:"gte=0,lte=100"`
	MinAccuracy  float64  `json:"min_accuracy" validate:"gte=0,lte=100"`
}

// ConsolidationConfig requires a correct-answer ratio within an optional topic.
type ConsolidationConfig struct {
	TopicID       *string `json:"topic_id,omitempty"`
	TargetPercent float64 `json:"target_percent" validate:"gt=0,lte=100"`
}

// TemporalObjective is one weighted sub-objective of a composite challenge.
// Exactly one sub-config must be set; temporal objectives do not nest.
type TemporalObjective struct {
	Weight        float64              `json:"weight" validate:"gt=0"`
	Marathon      *MarathonConfig      `json:"marathon,omitempty"`
	Level         *LevelConfig         `json:"level,omitempty"`
	Streak        *StreakConfig        `json:"streak,omitempty"`
	Competition   *CompetitionConfig   `json:"competition,omitempty"`
	Consolidation *ConsolidationConfig `json:"consolidation,omitempty"`
}

// Variant returns the populated sub-config's type, or "" when empty/ambiguous.
func (o TemporalObjective) Variant() ChallengeType {
	var found ChallengeType
	count := 0
	if o.Marathon != nil {
		found, count = ChallengeTypeMarathon, count+1
	}
	if o.Level != nil {
		found, count = ChallengeTypeLevel, count+1
	}
	if o.Streak != nil {
		found, count = ChallengeTypeStreak, count+1
	}
	if o.Competition != nil {
		found, count = ChallengeTypeCompetition, count+1
	}
	if o.Consolidation != nil {
		found, count = ChallengeTypeConsolidation, count+1
	}
	if count != 1 {
		return ""
	}
	return found
}

// TemporalConfig combines sub-objectives into a weighted composite.
// Completion requires the weighted average percentage to reach 100.
type TemporalConfig struct {
	Objectives []TemporalObjective `json:"objectives" validate:"required,min=1,dive"`
}
