package challenge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
)

// evalStreak partitions activity into calendar days since joining and tracks
// the longest run of consecutive qualifying days. A gap of exactly one day
// may be bridged by spending one unit of the grace-break budget; the missed
// day itself never counts, it is only bridged. A longer gap, or an exhausted
// budget, resets the streak to 1 on the next qualifying day.
//
// Only the last counted day needs to be remembered; the full calendar is
// never materialized.
func (s *service) evalStreak(ctx context.Context, userID uuid.UUID, since time.Time, cfg *domain.StreakConfig) (bool, domain.StreakProgress, float64, error) {
	days, err := s.activity.DailyActivity(ctx, userID, since)
	if err != nil {
		return false, domain.StreakProgress{}, 0, fmt.Errorf("failed to read daily activity: %w", err)
	}

	progress := domain.StreakProgress{RequiredDays: cfg.RequiredDays}
	budget := cfg.GraceBudget()

	var last time.Time
	streak := 0
	for _, day := range days {
		if !dayQualifies(day, cfg) {
			continue
		}
		progress.DaysCounted++

		switch {
		case last.IsZero():
			streak = 1
		case gapDays(last, day.Day) == 1:
			streak++
		case gapDays(last, day.Day) == 2 && progress.GraceBreaksUsed < budget:
			progress.GraceBreaksUsed++
			streak++
		default:
			streak = 1
		}
		last = day.Day

		if streak > progress.MaxStreak {
			progress.MaxStreak = streak
		}
	}
	progress.CurrentStreak = streak

	completed := progress.MaxStreak >= cfg.RequiredDays
	percentage := capPercent(float64(progress.MaxStreak) / float64(cfg.RequiredDays) * 100)

	return completed, progress, percentage, nil
}

// dayQualifies reports whether a day meets all configured minimums.
func dayQualifies(day domain.DayActivity, cfg *domain.StreakConfig) bool {
	return day.Sessions >= cfg.MinSessions &&
		day.Minutes >= cfg.MinMinutes &&
		day.Answered >= cfg.MinAnswers
}

// gapDays returns the whole days between two calendar dates (both truncated
// to midnight UTC). Consecutive days yield 1.
func gapDays(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
