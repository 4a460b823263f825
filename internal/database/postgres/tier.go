package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/questline-app/questline/internal/domain"
)

// TierRepository implements the tier repository for PostgreSQL
type TierRepository struct {
	db *pgxpool.Pool
}

// NewTierRepository creates a new TierRepository
func NewTierRepository(db *pgxpool.Pool) *TierRepository {
	return &TierRepository{db: db}
}

// ListTierDefinitions returns the ladder for a kind ordered by tier order
func (r *TierRepository) ListTierDefinitions(ctx context.Context, kind domain.TierKind) ([]domain.TierDefinition, error) {
	query := `
		SELECT id, kind, name, tier_order, min_metric, max_metric, payout_amount, benefits
		FROM tier_definitions
		WHERE kind = $1
		ORDER BY tier_order
	`
	rows, err := r.db.Query(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query tier definitions: %w", err)
	}
	defer rows.Close()

	var defs []domain.TierDefinition
	for rows.Next() {
		var def domain.TierDefinition
		err := rows.Scan(
			&def.ID,
			&def.Kind,
			&def.Name,
			&def.Order,
			&def.MinMetric,
			&def.MaxMetric,
			&def.PayoutAmount,
			&def.Benefits,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tier definition: %w", err)
		}
		defs = append(defs, def)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return defs, nil
}

// UpsertTierDefinition inserts or updates a ladder rung, matched by
// (kind, tier_order) so config re-syncs keep stable IDs.
func (r *TierRepository) UpsertTierDefinition(ctx context.Context, def *domain.TierDefinition) error {
	query := `
		INSERT INTO tier_definitions (id, kind, name, tier_order, min_metric, max_metric, payout_amount, benefits)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (kind, tier_order) DO UPDATE SET
			name = EXCLUDED.name,
			min_metric = EXCLUDED.min_metric,
			max_metric = EXCLUDED.max_metric,
			payout_amount = EXCLUDED.payout_amount,
			benefits = EXCLUDED.benefits
	`
	_, err := r.db.Exec(ctx, query,
		def.ID, def.Kind, def.Name, def.Order,
		def.MinMetric, def.MaxMetric, def.PayoutAmount, def.Benefits,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert tier definition: %w", err)
	}
	return nil
}

// GetTierRecord retrieves a user's tier record for one kind and scope
func (r *TierRepository) GetTierRecord(ctx context.Context, userID uuid.UUID, kind domain.TierKind, scope *string) (*domain.TierRecord, error) {
	query := `
		SELECT id, user_id, kind, scope, tier_id, metrics, last_payout_at, created_at, updated_at
		FROM tier_records
		WHERE user_id = $1 AND kind = $2 AND scope IS NOT DISTINCT FROM $3
	`
	record, err := scanTierRecord(r.db.QueryRow(ctx, query, userID, kind, scope))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTierNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tier record: %w", err)
	}
	return record, nil
}

// UpsertTierRecord inserts or refreshes a tier record, matched by the
// (user, kind, scope) uniqueness the recalculation pass relies on.
func (r *TierRepository) UpsertTierRecord(ctx context.Context, record *domain.TierRecord) error {
	metricsJSON, err := json.Marshal(record.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	query := `
		INSERT INTO tier_records (id, user_id, kind, scope, tier_id, metrics)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, kind, scope) DO UPDATE SET
			tier_id = EXCLUDED.tier_id,
			metrics = EXCLUDED.metrics,
			updated_at = NOW()
	`
	_, err = r.db.Exec(ctx, query,
		record.ID, record.UserID, record.Kind, record.Scope, record.TierID, metricsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert tier record: %w", err)
	}
	return nil
}

// ListTierRecords enumerates every tracked tier record of a kind
func (r *TierRepository) ListTierRecords(ctx context.Context, kind domain.TierKind) ([]domain.TierRecord, error) {
	query := `
		SELECT id, user_id, kind, scope, tier_id, metrics, last_payout_at, created_at, updated_at
		FROM tier_records
		WHERE kind = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query tier records: %w", err)
	}
	defer rows.Close()

	var records []domain.TierRecord
	for rows.Next() {
		record, err := scanTierRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tier record: %w", err)
		}
		records = append(records, *record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}

// InsertPromotion appends a tier transition to the audit trail
func (r *TierRepository) InsertPromotion(ctx context.Context, promotion *domain.PromotionHistory) error {
	metricsJSON, err := json.Marshal(promotion.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	query := `
		INSERT INTO promotion_history (id, user_id, kind, scope, previous_tier_id, new_tier_id, metrics)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.Exec(ctx, query,
		promotion.ID, promotion.UserID, promotion.Kind, promotion.Scope,
		promotion.PreviousTierID, promotion.NewTierID, metricsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert promotion: %w", err)
	}
	return nil
}

// ListPromotions returns a user's tier transitions, newest first
func (r *TierRepository) ListPromotions(ctx context.Context, userID uuid.UUID, kind domain.TierKind) ([]domain.PromotionHistory, error) {
	query := `
		SELECT id, user_id, kind, scope, previous_tier_id, new_tier_id, metrics, created_at
		FROM promotion_history
		WHERE user_id = $1 AND kind = $2
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query promotions: %w", err)
	}
	defer rows.Close()

	var promotions []domain.PromotionHistory
	for rows.Next() {
		var p domain.PromotionHistory
		var metricsJSON []byte
		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Kind,
			&p.Scope,
			&p.PreviousTierID,
			&p.NewTierID,
			&metricsJSON,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan promotion: %w", err)
		}
		if err := json.Unmarshal(metricsJSON, &p.Metrics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
		}
		promotions = append(promotions, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return promotions, nil
}

func scanTierRecord(row pgx.Row) (*domain.TierRecord, error) {
	var record domain.TierRecord
	var metricsJSON []byte
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.Kind,
		&record.Scope,
		&record.TierID,
		&metricsJSON,
		&record.LastPayoutAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(metricsJSON, &record.Metrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
	}
	return &record, nil
}
