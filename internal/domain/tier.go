package domain

import (
	"time"

	"github.com/google/uuid"
)

// TierKind selects which ladder and metric source apply to a tier record.
type TierKind string

const (
	// TierKindTopicUser promotes a learner within one topic by consolidation.
	TierKindTopicUser TierKind = "topic_user"
	// TierKindCreator promotes a content creator by distinct active users.
	TierKindCreator TierKind = "creator"
	// TierKindTeacher promotes an instructor by distinct active students.
	TierKindTeacher TierKind = "teacher"
)

// TierKinds lists every supported tier kind.
var TierKinds = []TierKind{TierKindTopicUser, TierKindCreator, TierKindTeacher}

// TierDefinition is one rung of the ordered ladder for a kind. MinMetric is
// inclusive; MaxMetric, when set, is exclusive. For a given kind the ladder
// must cover the metric domain with the lowest-ordered tier as fallback.
type TierDefinition struct {
	ID           uuid.UUID `json:"id"`
	Kind         TierKind  `json:"kind"`
	Name         string    `json:"name"`
	Order        int       `json:"order"`
	MinMetric    float64   `json:"min_metric"`
	MaxMetric    *float64  `json:"max_metric,omitempty"`
	PayoutAmount int64     `json:"payout_amount"`
	Benefits     []string  `json:"benefits,omitempty"`
}

// Matches reports whether the metric falls inside this tier's bounds.
func (d *TierDefinition) Matches(metric float64) bool {
	if metric < d.MinMetric {
		return false
	}
	if d.MaxMetric != nil && metric >= *d.MaxMetric {
		return false
	}
	return true
}

// TierMetrics is the snapshot captured when a tier record is recalculated.
type TierMetrics struct {
	Consolidation float64   `json:"consolidation,omitempty"`
	ActiveUsers   int       `json:"active_users,omitempty"`
	ComputedAt    time.Time `json:"computed_at"`
}

// MetricValue is the single number the ladder is scanned with.
func (m TierMetrics) MetricValue(kind TierKind) float64 {
	if kind == TierKindTopicUser {
		return m.Consolidation
	}
	return float64(m.ActiveUsers)
}

// TierRecord is a user's current tier for one kind and optional scope.
// Unique per (user, kind, scope). LastPayoutAt gates the recurring tier
// payout: nil until the first payout, then advanced by each settled stipend.
type TierRecord struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"user_id"`
	Kind         TierKind    `json:"kind"`
	Scope        *string     `json:"scope,omitempty"`
	TierID       uuid.UUID   `json:"tier_id"`
	Metrics      TierMetrics `json:"metrics"`
	LastPayoutAt *time.Time  `json:"last_payout_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// PromotionHistory is the append-only audit trail of tier transitions.
// PreviousTierID is nil for the first placement.
type PromotionHistory struct {
	ID             uuid.UUID   `json:"id"`
	UserID         uuid.UUID   `json:"user_id"`
	Kind           TierKind    `json:"kind"`
	Scope          *string     `json:"scope,omitempty"`
	PreviousTierID *uuid.UUID  `json:"previous_tier_id,omitempty"`
	NewTierID      uuid.UUID   `json:"new_tier_id"`
	Metrics        TierMetrics `json:"metrics"`
	CreatedAt      time.Time   `json:"created_at"`
}
