package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/offerfinder/internal/filter"
	"github.com/GTDGit/offerfinder/internal/models"
	"github.com/GTDGit/offerfinder/internal/utils"
)

// SearchPage is one page of ranked offers.
type SearchPage struct {
	Rows        []models.OfferRow
	HasNextPage bool
}

// OfferRepository handles database operations for offers
type OfferRepository struct {
	db *sqlx.DB
	// timeout bounds each search query; zero leaves the caller's deadline alone.
	timeout time.Duration
}

// NewOfferRepository creates a new OfferRepository
func NewOfferRepository(db *sqlx.DB, timeout time.Duration) *OfferRepository {
	return &OfferRepository{db: db, timeout: timeout}
}

// Search returns page (1-based) of the latest offers matching p, ranked by sort.
// One extra row is read to decide HasNextPage and is not returned.
// Failures, including timeouts, wrap utils.ErrRetrieval.
func (r *OfferRepository) Search(ctx context.Context, p filter.Predicate, sort models.SortOrder, page, pageSize int) (*SearchPage, error) {
	if page < 1 || pageSize < 1 {
		return nil, fmt.Errorf("%w: page and page size must be positive", utils.ErrInvalidRequest)
	}

	q, args, err := buildSearchQuery(r.db, p, sort, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: build query: %v", utils.ErrRetrieval, err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	rows := make([]models.OfferRow, 0, pageSize+1)
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrRetrieval, err)
	}

	res := &SearchPage{Rows: rows}
	if len(rows) > pageSize {
		res.Rows = rows[:pageSize]
		res.HasNextPage = true
	}
	return res, nil
}

// GetByID returns an offer with its device prices. Superseded offers are
// still returned so that shared links keep working.
func (r *OfferRepository) GetByID(ctx context.Context, id int64) (*models.OfferDetail, error) {
	q := r.db.Rebind("SELECT" + offerColumns + `,
	d.id AS device_id, d.retail_price, d.unlocked_price, d.purchase_url` +
		offerJoins + `
	WHERE o.id = ?`)

	var o models.OfferDetail
	if err := r.db.GetContext(ctx, &o, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrOfferNotFound
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrRetrieval, err)
	}
	return &o, nil
}

// Create inserts a new offer row. The row supersedes any earlier row of the
// same (store, carrier, device, offer type). CreatedAt defaults to now.
func (r *OfferRepository) Create(ctx context.Context, o *models.Offer) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	q := r.db.Rebind(`
		INSERT INTO offers (store_id, carrier_id, device_id, offer_type, price, monthly_fee, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	return r.db.QueryRowxContext(ctx, q,
		o.StoreID, o.CarrierID, o.DeviceID, string(o.OfferType), o.Price, o.MonthlyFee, o.CreatedAt,
	).Scan(&o.ID)
}

// CountLatest returns how many offers are currently visible to search.
func (r *OfferRepository) CountLatest(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM offers o WHERE "+latestOffers)
	return n, err
}
