package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/questline-app/questline/internal/config"
	"github.com/questline-app/questline/internal/event"
)

// InitializeEventSystem creates the in-memory event bus wrapped in a
// resilient publisher with exponential-backoff retries and a dead-letter
// file for events that never deliver.
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, error) {
	eventBus := event.NewMemoryBus()

	if err := os.MkdirAll(filepath.Dir(cfg.EventDeadLetterPath), DirPermission); err != nil {
		return nil, nil, fmt.Errorf("failed to create dead-letter directory: %w", err)
	}

	deadLetter, err := event.NewDeadLetterWriter(cfg.EventDeadLetterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create dead-letter writer: %w", err)
	}

	publisher := event.NewResilientPublisher(eventBus, deadLetter, event.ResilientConfig{
		MaxRetries: cfg.EventMaxRetries,
		RetryDelay: cfg.EventRetryDelay,
	})

	slog.Info(LogMsgEventSystemReady,
		"max_retries", cfg.EventMaxRetries,
		"retry_delay", cfg.EventRetryDelay,
		"deadletter_path", cfg.EventDeadLetterPath)

	return eventBus, publisher, nil
}
