package challenge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
)

// evalCompetition counts wins across multi-participant game sessions in the
// configured modes since joining. A session is a win when the participant's
// score is the session maximum; ties all count as wins. Completion requires
// wins, win-rate and answer accuracy to clear their minimums simultaneously.
func (s *service) evalCompetition(ctx context.Context, userID uuid.UUID, since time.Time, cfg *domain.CompetitionConfig) (bool, domain.CompetitionProgress, float64, error) {
	outcomes, err := s.activity.SessionOutcomes(ctx, userID, cfg.Modes, since)
	if err != nil {
		return false, domain.CompetitionProgress{}, 0, fmt.Errorf("failed to read session outcomes: %w", err)
	}

	progress := domain.CompetitionProgress{
		SessionsPlayed: len(outcomes),
		RequiredWins:   cfg.RequiredWins,
	}

	var answered, correct int
	for _, outcome := range outcomes {
		if outcome.IsWin() {
			progress.Wins++
		}
		answered += outcome.Answered
		correct += outcome.Correct
	}

	if progress.SessionsPlayed > 0 {
		progress.WinRate = float64(progress.Wins) / float64(progress.SessionsPlayed) * 100
	}
	if answered > 0 {
		progress.Accuracy = float64(correct) / float64(answered) * 100
	}

	completed := progress.Wins >= cfg.RequiredWins &&
		progress.WinRate >= cfg.MinWinRate &&
		progress.Accuracy >= cfg.MinAccuracy

	// Progress is the weakest of the three requirements, so a participant
	// who has the wins but not the accuracy still shows as incomplete.
	percentage := capPercent(minRatio(
		ratio(float64(progress.Wins), float64(cfg.RequiredWins)),
		ratio(progress.WinRate, cfg.MinWinRate),
		ratio(progress.Accuracy, cfg.MinAccuracy),
	) * 100)

	return completed, progress, percentage, nil
}

// ratio returns value/target, treating a zero target as already satisfied.
func ratio(value, target float64) float64 {
	if target <= 0 {
		return 1
	}
	return value / target
}

func minRatio(values ...float64) float64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}
