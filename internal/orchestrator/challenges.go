package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/questline-app/questline/internal/logger"
	"github.com/questline-app/questline/internal/metrics"
	"github.com/questline-app/questline/internal/repository"
	"github.com/questline-app/questline/internal/worker"
)

func (s *service) RunChallenges(ctx context.Context) RunSummary {
	ctx, finish := s.startRun(ctx, metrics.RunChallenges)
	log := logger.FromContext(ctx)

	var summary RunSummary
	items, err := s.participants.ListValidatableParticipants(ctx, time.Now().UTC())
	if err != nil {
		log.Error("Failed to list validatable participants", "error", err)
		summary.Errors++
		finish(summary)
		return summary
	}

	// Fan out per participant; each job owns its failures so one bad config
	// or one slow query never poisons the batch.
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, item := range items {
		item := item
		wg.Add(1)
		s.pool.Enqueue(worker.JobFunc(func(jobCtx context.Context) error {
			defer wg.Done()
			completed, err := s.processParticipant(ctx, item)

			mu.Lock()
			defer mu.Unlock()
			summary.Processed++
			if err != nil {
				summary.Errors++
			}
			if completed {
				summary.Completed++
			}
			return nil
		}))
	}
	wg.Wait()

	finish(summary)
	return summary
}

// processParticipant runs one validate-save-settle cycle. Progress is saved
// on every pass, completed or not, so partial credit is always queryable.
func (s *service) processParticipant(ctx context.Context, item repository.ValidatableParticipant) (bool, error) {
	log := logger.FromContext(ctx)
	participant := item.Participant
	ch := item.Challenge

	metrics.ParticipantsProcessed.WithLabelValues(string(ch.Type)).Inc()

	result, err := s.validator.Validate(ctx, &participant, &ch)
	if err != nil {
		metrics.ValidationErrors.WithLabelValues(string(ch.Type)).Inc()
		log.Error(LogMsgParticipantFailed,
			"participant_id", participant.ID,
			"challenge_id", ch.ID,
			"stage", "validate",
			"error", err)
		return false, err
	}

	if err := s.participants.SaveProgress(ctx, participant.ID, result.Progress); err != nil {
		log.Error(LogMsgParticipantFailed,
			"participant_id", participant.ID,
			"stage", "save_progress",
			"error", err)
		return false, err
	}

	if !result.Completed {
		return false, nil
	}

	settled, err := s.settlement.Settle(ctx, &participant, &ch)
	if err != nil {
		log.Error(LogMsgParticipantFailed,
			"participant_id", participant.ID,
			"stage", "settle",
			"error", err)
		return false, err
	}
	if settled {
		metrics.ChallengesCompleted.WithLabelValues(string(ch.Type)).Inc()
	}
	return settled, nil
}
