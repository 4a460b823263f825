package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/logger"
	"github.com/questline-app/questline/internal/metrics"
)

// RunTierPayouts settles the recurring stipend of every tier record whose
// tier grants one. The payout-clock claim inside settlement decides whether a
// record is due, so the run can fire far more often than the payout period
// without double-paying.
func (s *service) RunTierPayouts(ctx context.Context) RunSummary {
	ctx, finish := s.startRun(ctx, metrics.RunPayouts)
	log := logger.FromContext(ctx)

	var summary RunSummary
	dueBefore := time.Now().UTC().Add(-s.payoutPeriod)

	for _, kind := range domain.TierKinds {
		ladder, err := s.tiers.ListTierDefinitions(ctx, kind)
		if err != nil {
			log.Error("Failed to list tier definitions", "kind", kind, "error", err)
			summary.Errors++
			continue
		}
		payouts := make(map[uuid.UUID]int64, len(ladder))
		for _, def := range ladder {
			if def.PayoutAmount > 0 {
				payouts[def.ID] = def.PayoutAmount
			}
		}
		if len(payouts) == 0 {
			continue
		}

		records, err := s.tiers.ListTierRecords(ctx, kind)
		if err != nil {
			log.Error("Failed to list tier records", "kind", kind, "error", err)
			summary.Errors++
			continue
		}

		for _, record := range records {
			amount, ok := payouts[record.TierID]
			if !ok {
				continue
			}
			summary.Processed++
			paid, err := s.settlement.PayRecurringReward(ctx, &record, amount, dueBefore)
			if err != nil {
				summary.Errors++
				log.Error(LogMsgPayoutFailed,
					"user_id", record.UserID,
					"kind", record.Kind,
					"error", err)
				continue
			}
			if paid {
				summary.Completed++
			}
		}
	}

	finish(summary)
	return summary
}
