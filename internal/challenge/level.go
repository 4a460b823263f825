package challenge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
)

// evalLevel checks each configured (scope, target tier) pair: consolidation
// in the scope since joining is mapped to a tier ordinal through the shared
// ladder rule, and the pair is met when the ordinal reaches the target and
// the consolidation clears the configured floor. Completion requires every
// pair to be met.
func (s *service) evalLevel(ctx context.Context, userID uuid.UUID, since time.Time, cfg *domain.LevelConfig) (bool, domain.LevelProgress, float64, error) {
	progress := domain.LevelProgress{
		Targets: make([]domain.LevelTargetProgress, 0, len(cfg.Targets)),
	}

	for _, target := range cfg.Targets {
		scope := target.Scope
		stats, err := s.activity.AnswerStats(ctx, userID, &scope, since)
		if err != nil {
			return false, progress, 0, fmt.Errorf("failed to read answer stats for scope %s: %w", scope, err)
		}
		consolidation := stats.Percent()

		tier, err := s.tiers.TierFor(ctx, domain.TierKindTopicUser, consolidation)
		if err != nil {
			return false, progress, 0, fmt.Errorf("failed to resolve tier for scope %s: %w", scope, err)
		}

		met := tier.Order >= target.TargetOrder && consolidation >= cfg.MinConsolidation
		if met {
			progress.TargetsMet++
		}
		progress.Targets = append(progress.Targets, domain.LevelTargetProgress{
			Scope:         scope,
			Consolidation: consolidation,
			CurrentOrder:  tier.Order,
			TargetOrder:   target.TargetOrder,
			Met:           met,
		})
	}

	completed := progress.TargetsMet == len(cfg.Targets)
	percentage := float64(progress.TargetsMet) / float64(len(cfg.Targets)) * 100

	return completed, progress, percentage, nil
}
