package challenge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
)

// evalConsolidation compares the participant's correct-to-total answer ratio
// since joining, within an optional topic filter, against the target.
func (s *service) evalConsolidation(ctx context.Context, userID uuid.UUID, since time.Time, cfg *domain.ConsolidationConfig) (bool, domain.ConsolidationProgress, float64, error) {
	stats, err := s.activity.AnswerStats(ctx, userID, cfg.TopicID, since)
	if err != nil {
		return false, domain.ConsolidationProgress{}, 0, fmt.Errorf("failed to read answer stats: %w", err)
	}

	progress := domain.ConsolidationProgress{
		Consolidation: stats.Percent(),
		TargetPercent: cfg.TargetPercent,
		Answered:      stats.Answered,
		Correct:       stats.Correct,
	}

	completed := progress.Consolidation >= cfg.TargetPercent
	percentage := capPercent(progress.Consolidation / cfg.TargetPercent * 100)

	return completed, progress, percentage, nil
}
