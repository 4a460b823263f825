package level

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/logger"
	"github.com/questline-app/questline/internal/repository"
)

// LadderConfig is the JSON configuration for the tier ladders.
type LadderConfig struct {
	Version     string       `json:"version"`
	Description string       `json:"description"`
	Ladders     []KindLadder `json:"ladders"`
}

// KindLadder is one kind's ordered list of tiers.
type KindLadder struct {
	Kind  domain.TierKind `json:"kind"`
	Tiers []TierConfig    `json:"tiers"`
}

// TierConfig is a single ladder rung in the JSON file.
type TierConfig struct {
	Name         string   `json:"name"`
	Order        int      `json:"order"`
	MinMetric    float64  `json:"min_metric"`
	MaxMetric    *float64 `json:"max_metric,omitempty"`
	PayoutAmount int64    `json:"payout_amount"`
	Benefits     []string `json:"benefits,omitempty"`
}

// LadderLoader handles loading and validating tier ladder configuration
type LadderLoader interface {
	Load(path string) (*LadderConfig, error)
	Validate(config *LadderConfig) error
	SyncToDatabase(ctx context.Context, config *LadderConfig, repo repository.Tier) (*SyncResult, error)
}

// SyncResult contains the result of syncing the ladders to the database
type SyncResult struct {
	TiersSynced int
	KindsSynced int
}

type ladderLoader struct{}

// NewLadderLoader creates a new LadderLoader instance
func NewLadderLoader() LadderLoader {
	return &ladderLoader{}
}

// Load reads and parses a tier ladder JSON file
func (l *ladderLoader) Load(path string) (*LadderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ladder config file: %w", err)
	}

	var config LadderConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse ladder config: %w", err)
	}

	if err := l.Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the parsed config against the same invariants the resolver
// enforces, plus JSON-level concerns: known kinds, no duplicate kinds, tiers
// listed in ascending order.
func (l *ladderLoader) Validate(config *LadderConfig) error {
	if len(config.Ladders) == 0 {
		return fmt.Errorf("%w: config defines no ladders", domain.ErrInvalidLadder)
	}

	seenKinds := make(map[domain.TierKind]bool, len(config.Ladders))
	for _, ladder := range config.Ladders {
		if !knownKind(ladder.Kind) {
			return fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidLadder, ladder.Kind)
		}
		if seenKinds[ladder.Kind] {
			return fmt.Errorf("%w: duplicate kind %q", domain.ErrInvalidLadder, ladder.Kind)
		}
		seenKinds[ladder.Kind] = true

		defs := make([]domain.TierDefinition, 0, len(ladder.Tiers))
		for _, tier := range ladder.Tiers {
			if tier.Name == "" {
				return fmt.Errorf("%w: kind %s has a tier with no name", domain.ErrInvalidLadder, ladder.Kind)
			}
			defs = append(defs, domain.TierDefinition{
				Kind:         ladder.Kind,
				Name:         tier.Name,
				Order:        tier.Order,
				MinMetric:    tier.MinMetric,
				MaxMetric:    tier.MaxMetric,
				PayoutAmount: tier.PayoutAmount,
			})
		}
		if err := validateLadder(ladder.Kind, defs); err != nil {
			return err
		}
	}
	return nil
}

// SyncToDatabase upserts every configured tier. Existing tiers are matched by
// (kind, order) in the repository, so renames and payout changes apply in
// place and tier record references stay intact.
func (l *ladderLoader) SyncToDatabase(ctx context.Context, config *LadderConfig, repo repository.Tier) (*SyncResult, error) {
	log := logger.FromContext(ctx)

	result := &SyncResult{}
	for _, ladder := range config.Ladders {
		for _, tier := range ladder.Tiers {
			def := domain.TierDefinition{
				ID:           uuid.New(),
				Kind:         ladder.Kind,
				Name:         tier.Name,
				Order:        tier.Order,
				MinMetric:    tier.MinMetric,
				MaxMetric:    tier.MaxMetric,
				PayoutAmount: tier.PayoutAmount,
				Benefits:     tier.Benefits,
			}
			if err := repo.UpsertTierDefinition(ctx, &def); err != nil {
				return result, fmt.Errorf("failed to sync tier %s/%s: %w", ladder.Kind, tier.Name, err)
			}
			result.TiersSynced++
		}
		result.KindsSynced++
	}

	log.Info("Tier ladders synced",
		"kinds", result.KindsSynced,
		"tiers", result.TiersSynced,
		"version", config.Version)
	return result, nil
}

func knownKind(kind domain.TierKind) bool {
	for _, k := range domain.TierKinds {
		if k == kind {
			return true
		}
	}
	return false
}
