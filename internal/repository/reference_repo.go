package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/offerfinder/internal/models"
	"github.com/GTDGit/offerfinder/internal/utils"
)

// ReferenceRepository provides read-only access to master data
type ReferenceRepository struct {
	db *sqlx.DB
}

// NewReferenceRepository creates a new ReferenceRepository
func NewReferenceRepository(db *sqlx.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// ListRegions returns every region, active or not, ordered by code
func (r *ReferenceRepository) ListRegions(ctx context.Context) ([]models.Region, error) {
	var regions []models.Region
	err := r.db.SelectContext(ctx, &regions, `SELECT code, parent_code, name, is_active FROM regions ORDER BY code`)
	return regions, err
}

// ListManufacturers returns all manufacturers ordered by name
func (r *ReferenceRepository) ListManufacturers(ctx context.Context) ([]models.Manufacturer, error) {
	var out []models.Manufacturer
	err := r.db.SelectContext(ctx, &out, `SELECT id, name FROM manufacturers ORDER BY name, id`)
	return out, err
}

// ListModels returns all models ordered by manufacturer then name
func (r *ReferenceRepository) ListModels(ctx context.Context) ([]models.Model, error) {
	var out []models.Model
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, manufacturer_id, name, image_url FROM models ORDER BY manufacturer_id, name, id`)
	return out, err
}

// ListStorages returns all storage variants ordered by id
func (r *ReferenceRepository) ListStorages(ctx context.Context) ([]models.Storage, error) {
	var out []models.Storage
	err := r.db.SelectContext(ctx, &out, `SELECT id, name FROM storages ORDER BY id`)
	return out, err
}

// ListDevices returns all sold (model, storage) combinations
func (r *ReferenceRepository) ListDevices(ctx context.Context) ([]models.Device, error) {
	var out []models.Device
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, model_id, storage_id, retail_price, unlocked_price, purchase_url FROM devices ORDER BY model_id, storage_id`)
	return out, err
}

// ListCarriers returns all carriers ordered by id
func (r *ReferenceRepository) ListCarriers(ctx context.Context) ([]models.Carrier, error) {
	var out []models.Carrier
	err := r.db.SelectContext(ctx, &out, `SELECT id, name FROM carriers ORDER BY id`)
	return out, err
}

// GetStore returns a store by id
func (r *ReferenceRepository) GetStore(ctx context.Context, id int64) (*models.Store, error) {
	var s models.Store
	err := r.db.GetContext(ctx, &s, r.db.Rebind(`SELECT id, name, region_code FROM stores WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrUnknownStore
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
