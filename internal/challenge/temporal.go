package challenge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
)

// evalTemporal combines sub-objectives into a weighted average: each
// sub-objective's percentage (capped at 100) is multiplied by its weight,
// summed, and divided by the total weight. Completion requires the weighted
// average to reach 100, i.e. every objective fully met. The composite is a
// thin dispatcher over the other evaluators, not a seventh algorithm.
func (s *service) evalTemporal(ctx context.Context, userID uuid.UUID, since time.Time, cfg *domain.TemporalConfig) (bool, domain.TemporalProgress, float64, error) {
	progress := domain.TemporalProgress{
		Objectives: make([]domain.TemporalObjectiveProgress, 0, len(cfg.Objectives)),
	}

	var weightedSum, totalWeight float64
	for i, objective := range cfg.Objectives {
		kind := objective.Variant()
		pct, err := s.evalObjective(ctx, userID, since, objective)
		if err != nil {
			return false, progress, 0, fmt.Errorf("objective %d (%s): %w", i, kind, err)
		}

		pct = capPercent(pct)
		weightedSum += pct * objective.Weight
		totalWeight += objective.Weight
		progress.Objectives = append(progress.Objectives, domain.TemporalObjectiveProgress{
			Index:      i,
			Type:       kind,
			Percentage: pct,
			Weight:     objective.Weight,
		})
	}

	progress.WeightedAverage = weightedSum / totalWeight

	completed := progress.WeightedAverage >= percentComplete
	return completed, progress, capPercent(progress.WeightedAverage), nil
}

// evalObjective runs the matching evaluator and keeps only its percentage.
func (s *service) evalObjective(ctx context.Context, userID uuid.UUID, since time.Time, objective domain.TemporalObjective) (float64, error) {
	switch {
	case objective.Marathon != nil:
		_, _, pct, err := s.evalMarathon(ctx, userID, since, objective.Marathon)
		return pct, err
	case objective.Level != nil:
		_, _, pct, err := s.evalLevel(ctx, userID, since, objective.Level)
		return pct, err
	case objective.Streak != nil:
		_, _, pct, err := s.evalStreak(ctx, userID, since, objective.Streak)
		return pct, err
	case objective.Competition != nil:
		_, _, pct, err := s.evalCompetition(ctx, userID, since, objective.Competition)
		return pct, err
	case objective.Consolidation != nil:
		_, _, pct, err := s.evalConsolidation(ctx, userID, since, objective.Consolidation)
		return pct, err
	default:
		return 0, fmt.Errorf("%w: empty temporal objective", domain.ErrInvalidChallengeConfig)
	}
}
