package orchestrator

import (
	"context"
	"time"

	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/event"
	"github.com/questline-app/questline/internal/logger"
	"github.com/questline-app/questline/internal/metrics"
)

func (s *service) ExpireChallenges(ctx context.Context) RunSummary {
	ctx, finish := s.startRun(ctx, metrics.RunExpiry)
	log := logger.FromContext(ctx)

	var summary RunSummary
	expired, err := s.challenges.ListExpiredActiveChallenges(ctx, time.Now().UTC())
	if err != nil {
		log.Error("Failed to list expired challenges", "error", err)
		summary.Errors++
		finish(summary)
		return summary
	}

	for _, ch := range expired {
		summary.Processed++
		if err := s.expireChallenge(ctx, ch); err != nil {
			summary.Errors++
			log.Error("Failed to expire challenge", "challenge_id", ch.ID, "error", err)
			continue
		}
		summary.Completed++
	}

	finish(summary)
	return summary
}

// expireChallenge fails the stragglers first, so the settled count it refunds
// against is final: a participant is either settled by now or just became
// failed, and failed participants can never win the settlement claim.
func (s *service) expireChallenge(ctx context.Context, ch domain.Challenge) error {
	log := logger.FromContext(ctx)

	failed, err := s.participants.FailActiveParticipants(ctx, ch.ID)
	if err != nil {
		return err
	}

	settled, err := s.participants.CountSettledParticipants(ctx, ch.ID)
	if err != nil {
		return err
	}

	refunded, err := s.settlement.Refund(ctx, &ch, domain.ChallengeStatusCompleted, settled)
	if err != nil {
		return err
	}

	log.Info(LogMsgChallengeExpired,
		"challenge_id", ch.ID,
		"participants_failed", failed,
		"refunded", refunded)

	if err := s.publisher.Publish(ctx, event.NewChallengeExpiredEvent(ch.ID, failed, refunded)); err != nil {
		log.Warn("Failed to publish expiry event", "error", err)
	}
	return nil
}
