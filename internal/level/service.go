package level

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/event"
	"github.com/questline-app/questline/internal/logger"
	"github.com/questline-app/questline/internal/metrics"
	"github.com/questline-app/questline/internal/repository"
)

// Service defines the interface for tier recalculation. It owns the ladder
// rule shared with the challenge validators: a single metric number maps to
// exactly one tier per kind.
type Service interface {
	// TierFor maps a metric to its tier via the ladder for the kind.
	TierFor(ctx context.Context, kind domain.TierKind, metric float64) (domain.TierDefinition, error)

	// Recalculate re-derives a user's tier from a fresh metric snapshot.
	// Without force it returns (nil, nil) when the tier is unchanged; the
	// record's metric snapshot is still refreshed. With force the record is
	// upserted and a history row appended even when the tier id stays the
	// same, so an audit trail entry exists for the recompute. A changed
	// tier upserts the record, appends promotion history and publishes a
	// TierPromoted event, in both directions (demotions are recorded the
	// same way).
	Recalculate(ctx context.Context, userID uuid.UUID, kind domain.TierKind, scope *string, metricsSnapshot domain.TierMetrics, force bool) (*domain.PromotionHistory, error)

	// ReloadLadders drops cached ladders after a config sync.
	ReloadLadders(ctx context.Context)
}

type service struct {
	repo      repository.Tier
	ladders   *ladderCache
	publisher event.Bus
}

// NewService creates a new level calculation service
func NewService(repo repository.Tier, publisher event.Bus) Service {
	return &service{
		repo:      repo,
		ladders:   newLadderCache(repo),
		publisher: publisher,
	}
}

func (s *service) TierFor(ctx context.Context, kind domain.TierKind, metric float64) (domain.TierDefinition, error) {
	return s.ladders.resolve(ctx, kind, metric)
}

func (s *service) ReloadLadders(ctx context.Context) {
	s.ladders.Reload(ctx)
}

func (s *service) Recalculate(ctx context.Context, userID uuid.UUID, kind domain.TierKind, scope *string, metricsSnapshot domain.TierMetrics, force bool) (*domain.PromotionHistory, error) {
	log := logger.FromContext(ctx)

	metric := metricsSnapshot.MetricValue(kind)
	target, err := s.TierFor(ctx, kind, metric)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target tier: %w", err)
	}

	existing, err := s.repo.GetTierRecord(ctx, userID, kind, scope)
	if err != nil && !errors.Is(err, domain.ErrTierNotFound) {
		return nil, fmt.Errorf("failed to get tier record: %w", err)
	}

	record := domain.TierRecord{
		UserID:  userID,
		Kind:    kind,
		Scope:   scope,
		TierID:  target.ID,
		Metrics: metricsSnapshot,
	}

	var previousTierID *uuid.UUID
	if existing != nil {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		previousTierID = &existing.TierID

		if existing.TierID == target.ID && !force {
			// Same tier: refresh the metric snapshot, no promotion.
			if err := s.repo.UpsertTierRecord(ctx, &record); err != nil {
				return nil, fmt.Errorf("failed to refresh tier record: %w", err)
			}
			log.Debug(LogMsgTierRecalculated,
				"user_id", userID,
				"kind", kind,
				"tier", target.Name,
				"metric", metric)
			return nil, nil
		}
	} else {
		record.ID = uuid.New()
	}

	if err := s.repo.UpsertTierRecord(ctx, &record); err != nil {
		return nil, fmt.Errorf("failed to upsert tier record: %w", err)
	}

	promotion := domain.PromotionHistory{
		ID:             uuid.New(),
		UserID:         userID,
		Kind:           kind,
		Scope:          scope,
		PreviousTierID: previousTierID,
		NewTierID:      target.ID,
		Metrics:        metricsSnapshot,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.InsertPromotion(ctx, &promotion); err != nil {
		return nil, fmt.Errorf("failed to insert promotion history: %w", err)
	}

	if previousTierID != nil && *previousTierID == target.ID {
		// Forced recompute landing on the same tier: the history row is the
		// audit trail, but nothing was promoted and nothing is announced.
		log.Info(LogMsgTierRecalculated,
			"user_id", userID,
			"kind", kind,
			"tier", target.Name,
			"metric", metric,
			"forced", true)
		return &promotion, nil
	}

	metrics.TierPromotions.WithLabelValues(string(kind)).Inc()
	log.Info(LogMsgTierPromoted,
		"user_id", userID,
		"kind", kind,
		"tier", target.Name,
		"order", target.Order,
		"metric", metric)

	if err := s.publisher.Publish(ctx, event.NewTierPromotedEvent(promotion)); err != nil {
		// Promotion is committed; a lost event must not fail the run.
		log.Warn("Failed to publish tier promotion event", "error", err)
	}

	return &promotion, nil
}
