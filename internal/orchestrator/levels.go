package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/logger"
	"github.com/questline-app/questline/internal/metrics"
)

func (s *service) RunLevels(ctx context.Context) RunSummary {
	ctx, finish := s.startRun(ctx, metrics.RunLevels)
	log := logger.FromContext(ctx)

	var summary RunSummary
	for _, kind := range domain.TierKinds {
		ladder, err := s.tiers.ListTierDefinitions(ctx, kind)
		if err != nil {
			log.Error("Failed to list tier definitions", "kind", kind, "error", err)
			summary.Errors++
			continue
		}
		byID := make(map[uuid.UUID]domain.TierDefinition, len(ladder))
		for _, def := range ladder {
			byID[def.ID] = def
		}

		records, err := s.tiers.ListTierRecords(ctx, kind)
		if err != nil {
			log.Error("Failed to list tier records", "kind", kind, "error", err)
			summary.Errors++
			continue
		}

		for _, record := range records {
			summary.Processed++
			promoted, err := s.recalculateRecord(ctx, record, byID)
			if err != nil {
				summary.Errors++
				log.Error(LogMsgRecordFailed,
					"user_id", record.UserID,
					"kind", record.Kind,
					"error", err)
				continue
			}
			if promoted {
				summary.Completed++
			}
		}
	}

	finish(summary)
	return summary
}

// recalculateRecord refreshes one tier record's metric, recalculates the tier
// and pays the new tier's reward on an upward move. Demotions are recorded
// without payout and without clawback.
func (s *service) recalculateRecord(ctx context.Context, record domain.TierRecord, ladder map[uuid.UUID]domain.TierDefinition) (bool, error) {
	snapshot, err := s.metricSnapshot(ctx, record)
	if err != nil {
		return false, err
	}

	promotion, err := s.levels.Recalculate(ctx, record.UserID, record.Kind, record.Scope, snapshot, false)
	if err != nil {
		return false, err
	}
	if promotion == nil {
		return false, nil
	}

	newDef, ok := ladder[promotion.NewTierID]
	if !ok {
		return false, fmt.Errorf("promotion references unknown tier %s", promotion.NewTierID)
	}
	upward := promotion.PreviousTierID == nil
	if promotion.PreviousTierID != nil {
		if prevDef, ok := ladder[*promotion.PreviousTierID]; ok {
			upward = newDef.Order > prevDef.Order
		}
	}
	if !upward {
		return true, nil
	}

	if err := s.settlement.PayTierReward(ctx, promotion, newDef.PayoutAmount); err != nil {
		return true, fmt.Errorf("failed to pay tier reward: %w", err)
	}
	return true, nil
}

// metricSnapshot reads the metric source for a record's kind: per-topic
// consolidation for learners, distinct active users for creators and teachers.
func (s *service) metricSnapshot(ctx context.Context, record domain.TierRecord) (domain.TierMetrics, error) {
	snapshot := domain.TierMetrics{ComputedAt: time.Now().UTC()}

	if record.Kind == domain.TierKindTopicUser {
		stats, err := s.activity.AnswerStats(ctx, record.UserID, record.Scope, time.Time{})
		if err != nil {
			return snapshot, fmt.Errorf("failed to read answer stats: %w", err)
		}
		snapshot.Consolidation = stats.Percent()
		return snapshot, nil
	}

	count, err := s.activity.ActiveUserCount(ctx, record.UserID, record.Kind, s.activeUserWindowDays)
	if err != nil {
		return snapshot, fmt.Errorf("failed to count active users: %w", err)
	}
	snapshot.ActiveUsers = count
	return snapshot, nil
}
