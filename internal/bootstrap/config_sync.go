package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/questline-app/questline/internal/level"
	"github.com/questline-app/questline/internal/repository"
)

// SyncTierLadders loads the tier ladder JSON, validates it and upserts every
// tier definition. Called at startup so the database always reflects the
// checked-in ladder config; the admin reload endpoint covers mid-flight
// changes.
func SyncTierLadders(ctx context.Context, path string, tiers repository.Tier) error {
	loader := level.NewLadderLoader()

	ladderConfig, err := loader.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load ladder config: %w", err)
	}

	result, err := loader.SyncToDatabase(ctx, ladderConfig, tiers)
	if err != nil {
		return fmt.Errorf("failed to sync ladders to database: %w", err)
	}

	slog.Info(LogMsgLaddersSynced,
		"path", path,
		"kinds", result.KindsSynced,
		"tiers", result.TiersSynced,
		"version", ladderConfig.Version)
	return nil
}
