package challenge

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/questline-app/questline/internal/domain"
	"github.com/questline-app/questline/internal/logger"
	"github.com/questline-app/questline/internal/repository"
)

// Service defines the interface for challenge validation. Validation is
// read-only: it maps a participant and its challenge's configuration to a
// progress snapshot and a completion decision, and never mutates state.
type Service interface {
	// Validate computes the participant's progress against the challenge.
	// "Not yet complete" is a normal negative result, never an error; errors
	// mean malformed configuration or read-model unavailability and are
	// retryable by the orchestrator.
	Validate(ctx context.Context, participant *domain.Participant, challenge *domain.Challenge) (domain.ValidationResult, error)

	// CheckConfig validates a challenge's configuration against its type
	// schema. A challenge must pass before it can leave draft.
	CheckConfig(challenge *domain.Challenge) error
}

// TierResolver maps a metric to a tier definition via the shared ladder rule.
// Implemented by the level calculator so tiered-level challenges and the
// level subsystem agree on tier ordinals.
type TierResolver interface {
	TierFor(ctx context.Context, kind domain.TierKind, metric float64) (domain.TierDefinition, error)
}

type service struct {
	activity repository.Activity
	tiers    TierResolver
	validate *validator.Validate

	// checkedConfigs caches config schema checks per (challenge, updated_at)
	// so a batch run does not re-validate the same immutable config for
	// every participant.
	checkedConfigs *lru.Cache[string, error]
}

// NewService creates a new challenge validation service
func NewService(activity repository.Activity, tiers TierResolver) (Service, error) {
	cache, err := lru.New[string, error](ConfigCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create config cache: %w", err)
	}
	return &service{
		activity:       activity,
		tiers:          tiers,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		checkedConfigs: cache,
	}, nil
}

func (s *service) Validate(ctx context.Context, participant *domain.Participant, ch *domain.Challenge) (domain.ValidationResult, error) {
	log := logger.FromContext(ctx)

	if err := s.checkConfigCached(ch); err != nil {
		return domain.ValidationResult{}, err
	}

	since := participant.JoinedAt
	userID := participant.UserID

	snapshot := domain.ProgressSnapshot{
		Type:       ch.Type,
		ComputedAt: time.Now().UTC(),
	}

	var completed bool
	var err error

	switch ch.Type {
	case domain.ChallengeTypeMarathon:
		var detail domain.MarathonProgress
		completed, detail, snapshot.Percentage, err = s.evalMarathon(ctx, userID, since, ch.Config.Marathon)
		snapshot.Marathon = &detail
	case domain.ChallengeTypeLevel:
		var detail domain.LevelProgress
		completed, detail, snapshot.Percentage, err = s.evalLevel(ctx, userID, since, ch.Config.Level)
		snapshot.Level = &detail
	case domain.ChallengeTypeStreak:
		var detail domain.StreakProgress
		completed, detail, snapshot.Percentage, err = s.evalStreak(ctx, userID, since, ch.Config.Streak)
		snapshot.Streak = &detail
	case domain.ChallengeTypeCompetition:
		var detail domain.CompetitionProgress
		completed, detail, snapshot.Percentage, err = s.evalCompetition(ctx, userID, since, ch.Config.Competition)
		snapshot.Competition = &detail
	case domain.ChallengeTypeConsolidation:
		var detail domain.ConsolidationProgress
		completed, detail, snapshot.Percentage, err = s.evalConsolidation(ctx, userID, since, ch.Config.Consolidation)
		snapshot.Consolidation = &detail
	case domain.ChallengeTypeTemporal:
		var detail domain.TemporalProgress
		completed, detail, snapshot.Percentage, err = s.evalTemporal(ctx, userID, since, ch.Config.Temporal)
		snapshot.Temporal = &detail
	default:
		return domain.ValidationResult{}, fmt.Errorf("%w: unknown challenge type %q", domain.ErrInvalidChallengeConfig, ch.Type)
	}

	if err != nil {
		return domain.ValidationResult{}, fmt.Errorf("failed to validate %s challenge: %w", ch.Type, err)
	}

	log.Debug("Participant validated",
		"participant_id", participant.ID,
		"challenge_type", ch.Type,
		"percentage", snapshot.Percentage,
		"completed", completed)

	return domain.ValidationResult{Completed: completed, Progress: snapshot}, nil
}

// checkConfigCached runs CheckConfig at most once per (id, updated_at).
// Configs are immutable once a challenge is active, so updated_at is a
// sufficient cache invalidator.
func (s *service) checkConfigCached(ch *domain.Challenge) error {
	key := fmt.Sprintf("%s:%d", ch.ID, ch.UpdatedAt.UnixNano())
	if err, ok := s.checkedConfigs.Get(key); ok {
		return err
	}
	err := s.CheckConfig(ch)
	s.checkedConfigs.Add(key, err)
	return err
}

func (s *service) CheckConfig(ch *domain.Challenge) error {
	variant := ch.Config.Variant()
	if variant == "" {
		return fmt.Errorf("%w: exactly one config variant must be set", domain.ErrInvalidChallengeConfig)
	}
	if variant != ch.Type {
		return fmt.Errorf("%w: challenge type %q, config variant %q", domain.ErrConfigTypeMismatch, ch.Type, variant)
	}

	var err error
	switch variant {
	case domain.ChallengeTypeMarathon:
		err = s.validate.Struct(ch.Config.Marathon)
	case domain.ChallengeTypeLevel:
		err = s.validate.Struct(ch.Config.Level)
	case domain.ChallengeTypeStreak:
		err = s.validate.Struct(ch.Config.Streak)
	case domain.ChallengeTypeCompetition:
		err = s.validate.Struct(ch.Config.Competition)
	case domain.ChallengeTypeConsolidation:
		err = s.validate.Struct(ch.Config.Consolidation)
	case domain.ChallengeTypeTemporal:
		err = s.checkTemporalConfig(ch.Config.Temporal)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidChallengeConfig, err)
	}
	return nil
}

// checkTemporalConfig validates the composite plus every sub-objective's
// variant. Temporal objectives cannot nest another temporal config.
func (s *service) checkTemporalConfig(cfg *domain.TemporalConfig) error {
	if err := s.validate.Struct(cfg); err != nil {
		return err
	}
	for i, obj := range cfg.Objectives {
		variant := obj.Variant()
		if variant == "" {
			return fmt.Errorf("objective %d: exactly one sub-config must be set", i)
		}
		var err error
		switch variant {
		case domain.ChallengeTypeMarathon:
			err = s.validate.Struct(obj.Marathon)
		case domain.ChallengeTypeLevel:
			err = s.validate.Struct(obj.Level)
		case domain.ChallengeTypeStreak:
			err = s.validate.Struct(obj.Streak)
		case domain.ChallengeTypeCompetition:
			err = s.validate.Struct(obj.Competition)
		case domain.ChallengeTypeConsolidation:
			err = s.validate.Struct(obj.Consolidation)
		}
		if err != nil {
			return fmt.Errorf("objective %d: %w", i, err)
		}
	}
	return nil
}
