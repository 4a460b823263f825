package level

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/logger"
	"github.com/questline-app/questline/internal/repository"
)

// ladderCache holds the per-kind tier ladders in memory. Ladders change only
// on config sync, so they are loaded once and refreshed explicitly.
type ladderCache struct {
	repo repository.Tier

	mu      sync.RWMutex
	ladders map[domain.TierKind][]domain.TierDefinition
}

func newLadderCache(repo repository.Tier) *ladderCache {
	return &ladderCache{
		repo:    repo,
		ladders: make(map[domain.TierKind][]domain.TierDefinition),
	}
}

// ladder returns the cached ladder for a kind, loading it on first use.
func (c *ladderCache) ladder(ctx context.Context, kind domain.TierKind) ([]domain.TierDefinition, error) {
	c.mu.RLock()
	cached, ok := c.ladders[kind]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	defs, err := c.repo.ListTierDefinitions(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to load tier ladder for kind %s: %w", kind, err)
	}
	if err := validateLadder(kind, defs); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.ladders[kind] = defs
	c.mu.Unlock()

	return defs, nil
}

// Reload drops the cache so the next lookup reads fresh definitions. Called
// after a ladder config sync.
func (c *ladderCache) Reload(ctx context.Context) {
	c.mu.Lock()
	c.ladders = make(map[domain.TierKind][]domain.TierDefinition)
	c.mu.Unlock()

	logger.FromContext(ctx).Info(LogMsgLadderReloaded)
}

// resolve scans the ladder from the highest tier down and returns the first
// tier whose bounds match the metric. A metric below every tier's minimum
// falls back to the lowest tier, so every user always has a tier.
func (c *ladderCache) resolve(ctx context.Context, kind domain.TierKind, metric float64) (domain.TierDefinition, error) {
	ladder, err := c.ladder(ctx, kind)
	if err != nil {
		return domain.TierDefinition{}, err
	}

	for i := len(ladder) - 1; i >= 0; i-- {
		if ladder[i].Matches(metric) {
			return ladder[i], nil
		}
	}
	return ladder[0], nil
}

// validateLadder enforces the invariants resolve depends on: a non-empty
// ladder, unique ascending orders, and sane bounds per tier.
func validateLadder(kind domain.TierKind, defs []domain.TierDefinition) error {
	if len(defs) == 0 {
		return fmt.Errorf("%w: no tiers defined for kind %s", domain.ErrInvalidLadder, kind)
	}

	sorted := sort.SliceIsSorted(defs, func(i, j int) bool {
		return defs[i].Order < defs[j].Order
	})
	if !sorted {
		return fmt.Errorf("%w: kind %s tiers not ordered", domain.ErrInvalidLadder, kind)
	}

	seen := make(map[int]bool, len(defs))
	for _, def := range defs {
		if seen[def.Order] {
			return fmt.Errorf("%w: kind %s has duplicate order %d", domain.ErrInvalidLadder, kind, def.Order)
		}
		seen[def.Order] = true

		if def.MaxMetric != nil && *def.MaxMetric <= def.MinMetric {
			return fmt.Errorf("%w: kind %s tier %q has empty metric range", domain.ErrInvalidLadder, kind, def.Name)
		}
		if def.PayoutAmount < 0 {
			return fmt.Errorf("%w: kind %s tier %q has negative payout", domain.ErrInvalidLadder, kind, def.Name)
		}
	}
	return nil
}
