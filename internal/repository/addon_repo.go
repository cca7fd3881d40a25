package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/offerfinder/internal/models"
)

// AddOnRepository handles database operations for store add-ons
type AddOnRepository struct {
	db *sqlx.DB
}

// NewAddOnRepository creates a new AddOnRepository
func NewAddOnRepository(db *sqlx.DB) *AddOnRepository {
	return &AddOnRepository{db: db}
}

// ListByStoreCarrier returns the add-ons a store bundles with a carrier.
// Ordering by id fixes the index space used by cost comparisons.
func (r *AddOnRepository) ListByStoreCarrier(ctx context.Context, storeID, carrierID int64) ([]models.AddOn, error) {
	q := r.db.Rebind(`
		SELECT id, store_id, carrier_id, name, monthly_fee, duration_months, penalty_fee
		FROM addons
		WHERE store_id = ? AND carrier_id = ?
		ORDER BY id`)

	addons := []models.AddOn{}
	if err := r.db.SelectContext(ctx, &addons, q, storeID, carrierID); err != nil {
		return nil, err
	}
	return addons, nil
}
