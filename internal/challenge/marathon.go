package challenge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
)

// evalMarathon checks the participant's best score per configured unit since
// joining, within the attempt cap. Completion requires either every unit to
// pass the threshold (must_complete_all) or the mean best score across all
// units to clear it. A unit never attempted contributes a best score of 0 to
// the mean but is not counted as an attempt.
func (s *service) evalMarathon(ctx context.Context, userID uuid.UUID, since time.Time, cfg *domain.MarathonConfig) (bool, domain.MarathonProgress, float64, error) {
	progress := domain.MarathonProgress{
		Units:      make([]domain.MarathonUnitProgress, 0, len(cfg.UnitIDs)),
		UnitsTotal: len(cfg.UnitIDs),
	}

	var scoreSum float64
	for _, unitID := range cfg.UnitIDs {
		best, attempts, err := s.activity.BestScore(ctx, userID, unitID, since, cfg.AttemptCap)
		if err != nil {
			return false, progress, 0, fmt.Errorf("failed to read best score for unit %s: %w", unitID, err)
		}

		passed := attempts > 0 && best >= cfg.ScoreThreshold
		if passed {
			progress.UnitsPassed++
		}
		scoreSum += best
		progress.Units = append(progress.Units, domain.MarathonUnitProgress{
			UnitID:    unitID,
			BestScore: best,
			Attempts:  attempts,
			Passed:    passed,
		})
	}

	progress.MeanScore = scoreSum / float64(len(cfg.UnitIDs))

	var completed bool
	var percentage float64
	if cfg.MustCompleteAll {
		completed = progress.UnitsPassed == progress.UnitsTotal
		percentage = float64(progress.UnitsPassed) / float64(progress.UnitsTotal) * 100
	} else {
		completed = progress.MeanScore >= cfg.ScoreThreshold
		percentage = capPercent(progress.MeanScore / cfg.ScoreThreshold * 100)
	}

	return completed, progress, percentage, nil
}

// capPercent clamps a progress percentage to [0, 100].
func capPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > percentComplete {
		return percentComplete
	}
	return p
}
