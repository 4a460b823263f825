package domain

// Event type constants used across the application for event bus
// subscriptions and metrics tracking.
//
// Event types follow the pattern: <entity>.<action>
const (
	// EventTypeChallengeCompleted is published after a participant's reward
	// settles; consumed by the notification dispatcher and badge checker.
	EventTypeChallengeCompleted = "challenge.participant.completed"

	// EventTypeTierPromoted is published when a tier recalculation changes
	// a user's tier (promotion or demotion).
	EventTypeTierPromoted = "tier.promoted"

	// EventTypeChallengeExpired is published when a challenge window elapses
	// and its unspent reserve is refunded.
	EventTypeChallengeExpired = "challenge.expired"

	// EventTypeRunCompleted is published when an orchestrator batch finishes.
	EventTypeRunCompleted = "orchestrator.run.completed"
)
