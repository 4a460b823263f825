package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
)

// Type represents the type of an event
type Type string

// Common event types
const (
	ChallengeCompleted Type = Type(domain.EventTypeChallengeCompleted)
	TierPromoted       Type = Type(domain.EventTypeTierPromoted)
	ChallengeExpired   Type = Type(domain.EventTypeChallengeExpired)
	RunCompleted       Type = Type(domain.EventTypeRunCompleted)
)

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Typed event payloads

// ChallengeCompletedPayloadV1 is published after a participant's reward
// settles. Consumed by the notification dispatcher and badge checker.
type ChallengeCompletedPayloadV1 struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	UserID        uuid.UUID `json:"user_id"`
	ChallengeID   uuid.UUID `json:"challenge_id"`
	TotalAwarded  int64     `json:"total_awarded"`
	Timestamp     int64     `json:"timestamp"`
}

// TierPromotedPayloadV1 is published when a recalculation changes a tier.
type TierPromotedPayloadV1 struct {
	UserID         uuid.UUID          `json:"user_id"`
	Kind           domain.TierKind    `json:"kind"`
	Scope          *string            `json:"scope,omitempty"`
	PreviousTierID *uuid.UUID         `json:"previous_tier_id,omitempty"`
	NewTierID      uuid.UUID          `json:"new_tier_id"`
	Metrics        domain.TierMetrics `json:"metrics"`
}

// ChallengeExpiredPayloadV1 is published when a challenge window elapses.
type ChallengeExpiredPayloadV1 struct {
	ChallengeID        uuid.UUID `json:"challenge_id"`
	ParticipantsFailed int64     `json:"participants_failed"`
	RefundedAmount     int64     `json:"refunded_amount"`
}

// RunCompletedPayloadV1 is the orchestrator's run summary.
type RunCompletedPayloadV1 struct {
	Run       string `json:"run"`
	Processed int    `json:"processed"`
	Completed int    `json:"completed"`
	Errors    int    `json:"errors"`
}

// Type-safe event constructors

// NewChallengeCompletedEvent creates a completion event for settled rewards.
func NewChallengeCompletedEvent(participantID, userID, challengeID uuid.UUID, totalAwarded int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ChallengeCompleted,
		Payload: ChallengeCompletedPayloadV1{
			ParticipantID: participantID,
			UserID:        userID,
			ChallengeID:   challengeID,
			TotalAwarded:  totalAwarded,
			Timestamp:     time.Now().Unix(),
		},
	}
}

// NewTierPromotedEvent creates a promotion event from a history row.
func NewTierPromotedEvent(promotion domain.PromotionHistory) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TierPromoted,
		Payload: TierPromotedPayloadV1{
			UserID:         promotion.UserID,
			Kind:           promotion.Kind,
			Scope:          promotion.Scope,
			PreviousTierID: promotion.PreviousTierID,
			NewTierID:      promotion.NewTierID,
			Metrics:        promotion.Metrics,
		},
	}
}

// NewChallengeExpiredEvent creates an expiry event.
func NewChallengeExpiredEvent(challengeID uuid.UUID, participantsFailed, refunded int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ChallengeExpired,
		Payload: ChallengeExpiredPayloadV1{
			ChallengeID:        challengeID,
			ParticipantsFailed: participantsFailed,
			RefundedAmount:     refunded,
		},
	}
}

// NewRunCompletedEvent creates a run summary event.
func NewRunCompletedEvent(run string, processed, completed, errs int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RunCompleted,
		Payload: RunCompletedPayloadV1{
			Run:       run,
			Processed: processed,
			Completed: completed,
			Errors:    errs,
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers synchronously.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
