package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/questline-app/questline/internal/domain"
)

// Tier defines the interface for tier ladder and tier record persistence.
type Tier interface {
	// ListTierDefinitions returns the ladder for a kind ordered by Order.
	ListTierDefinitions(ctx context.Context, kind domain.TierKind) ([]domain.TierDefinition, error)
	UpsertTierDefinition(ctx context.Context, def *domain.TierDefinition) error

	GetTierRecord(ctx context.Context, userID uuid.UUID, kind domain.TierKind, scope *string) (*domain.TierRecord, error)
	UpsertTierRecord(ctx context.Context, record *domain.TierRecord) error

	// ListTierRecords enumerates every tracked tier record of a kind, for the
	// periodic recalculation pass.
	ListTierRecords(ctx context.Context, kind domain.TierKind) ([]domain.TierRecord, error)

	InsertPromotion(ctx context.Context, promotion *domain.PromotionHistory) error
	ListPromotions(ctx context.Context, userID uuid.UUID, kind domain.TierKind) ([]domain.PromotionHistory, error)
}
