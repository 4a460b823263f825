package bootstrap

import (
	"context"
	"log/slog"

	"github.com/questline-app/questline/internal/event"
	"github.com/questline-app/questline/internal/logger"
)

// RegisterEventHandlers subscribes the audit logger to every event type the
// engine publishes. Settlements, promotions, expiries and run summaries all
// leave a structured log trail even when no external consumer is attached.
func RegisterEventHandlers(bus event.Bus) {
	for _, eventType := range []event.Type{
		event.ChallengeCompleted,
		event.TierPromoted,
		event.ChallengeExpired,
		event.RunCompleted,
	} {
		bus.Subscribe(eventType, auditLogHandler)
	}
	slog.Info(LogMsgEventAuditRegistered)
}

func auditLogHandler(ctx context.Context, evt event.Event) error {
	logger.FromContext(ctx).Info("Event published",
		"event_type", evt.Type,
		"version", evt.Version,
		"payload", evt.Payload)
	return nil
}
