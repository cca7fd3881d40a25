package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/offerfinder/internal/cache"
	"github.com/GTDGit/offerfinder/internal/config"
	"github.com/GTDGit/offerfinder/internal/filter"
	"github.com/GTDGit/offerfinder/internal/metrics"
	"github.com/GTDGit/offerfinder/internal/models"
	"github.com/GTDGit/offerfinder/internal/repository"
	"github.com/GTDGit/offerfinder/internal/selection"
	"github.com/GTDGit/offerfinder/internal/utils"
)

// OfferSearcher runs ranked offer queries. *repository.OfferRepository implements it.
type OfferSearcher interface {
	Search(ctx context.Context, p filter.Predicate, sort models.SortOrder, page, pageSize int) (*repository.SearchPage, error)
}

// RegionSelection picks one child of a region, or every child with "ALL".
type RegionSelection struct {
	ParentCode string                     `json:"parentCode" binding:"required"`
	ChildCode  selection.Selector[string] `json:"childCode"`
}

// DeviceSelection picks a model (or every model of ManufacturerID with "ALL")
// and optionally some of its storages.
type DeviceSelection struct {
	ManufacturerID int64                       `json:"manufacturerId"`
	ModelID        selection.Selector[int64]   `json:"modelId"`
	StorageIDs     []selection.Selector[int64] `json:"storageIds"`
}

// SearchRequest is the buyer's filter state.
type SearchRequest struct {
	Regions    []RegionSelection  `json:"regions" binding:"omitempty,dive"`
	Devices    []DeviceSelection  `json:"devices"`
	Carriers   []int64            `json:"carriers"`
	OfferTypes []models.OfferType `json:"offerTypes"`
	SortOrder  models.SortOrder   `json:"sortOrder" binding:"omitempty,sortorder"`
	Page       int                `json:"page" binding:"omitempty,min=1"`
	PageSize   int                `json:"pageSize" binding:"omitempty,min=1"`
}

// SearchResponse is one page of results. Page and PageSize are the
// normalised values actually used.
type SearchResponse struct {
	Offers      []models.OfferRow `json:"offers"`
	HasNextPage bool              `json:"hasNextPage"`
	Page        int               `json:"-"`
	PageSize    int               `json:"-"`
}

// OfferSearchService turns a SearchRequest into a ranked page of offers.
type OfferSearchService struct {
	offers    OfferSearcher
	reference CatalogProvider
	cache     *cache.SearchCache
	metrics   *metrics.Metrics
	cfg       config.SearchConfig
}

// NewOfferSearchService constructs an OfferSearchService. cache and m may be nil.
func NewOfferSearchService(offers OfferSearcher, reference CatalogProvider, c *cache.SearchCache, m *metrics.Metrics, cfg config.SearchConfig) *OfferSearchService {
	return &OfferSearchService{offers: offers, reference: reference, cache: c, metrics: m, cfg: cfg}
}

// SelectionFromRequest builds a selection from untrusted input. Each model's
// manufacturer is taken from the catalog. Models the catalog does not know, and
// wildcards without a manufacturer id, are filed under manufacturer 0 so they
// match no offers instead of lifting the device filter.
func SelectionFromRequest(req SearchRequest, catalog *Catalog) *selection.Set {
	var regions []selection.RegionEntry
	for _, r := range req.Regions {
		regions = append(regions, selection.RegionEntry{Parent: r.ParentCode, Child: r.ChildCode})
	}

	var mdls []selection.ModelEntry
	var storages []selection.StorageEntry
	for _, d := range req.Devices {
		if d.ModelID.IsAll() {
			mdls = append(mdls, selection.ModelEntry{Parent: max(d.ManufacturerID, 0), Child: d.ModelID})
			continue
		}
		id, ok := d.ModelID.ID()
		if !ok {
			continue
		}
		var manufacturer int64
		if m, known := catalog.ModelByID(id); known {
			manufacturer = m.ManufacturerID
		}
		mdls = append(mdls, selection.ModelEntry{Parent: manufacturer, Child: d.ModelID})
		for _, st := range d.StorageIDs {
			storages = append(storages, selection.StorageEntry{Parent: id, Child: st})
		}
	}
	return selection.FromEntries(regions, mdls, storages)
}

func (s *OfferSearchService) normalise(req SearchRequest) (models.SortOrder, int, int, error) {
	sort := req.SortOrder
	if sort == "" {
		sort = models.SortDefault
	}
	if !sort.Valid() {
		return "", 0, 0, fmt.Errorf("%w: %q", utils.ErrInvalidSortOrder, req.SortOrder)
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size < 1 {
		size = s.cfg.DefaultPageSize
	}
	if size > s.cfg.MaxPageSize {
		size = s.cfg.MaxPageSize
	}
	return sort, page, size, nil
}

// Search compiles the request and returns the requested page. Cache failures
// are logged and otherwise ignored; retrieval failures wrap utils.ErrRetrieval.
func (s *OfferSearchService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	sort, page, size, err := s.normalise(req)
	if err != nil {
		return nil, err
	}

	set := SelectionFromRequest(req, s.reference.Catalog())
	pred := filter.Compile(set, req.Carriers, req.OfferTypes)
	key := pred.Key()

	entry, err := s.cache.Get(ctx, pred, sort, page, size)
	switch {
	case err == nil:
		s.metrics.CacheResult("hit")
		log.Debug().Str("predicate", key).Int("page", page).Msg("Search cache hit")
		return newSearchResponse(entry.Rows, entry.HasNextPage, page, size), nil
	case errors.Is(err, cache.ErrMiss):
		s.metrics.CacheResult("miss")
	default:
		s.metrics.CacheResult("error")
		log.Warn().Err(err).Str("predicate", key).Msg("Search cache read failed")
	}

	start := time.Now()
	res, err := s.offers.Search(ctx, pred, sort, page, size)
	s.metrics.ObserveSearch(string(sort), time.Since(start))
	if err != nil {
		log.Error().Err(err).Str("predicate", key).Str("sort", string(sort)).Int("page", page).Msg("Offer search failed")
		return nil, err
	}

	if err := s.cache.Set(ctx, pred, sort, page, size, &cache.SearchEntry{Rows: res.Rows, HasNextPage: res.HasNextPage}); err != nil {
		log.Warn().Err(err).Str("predicate", key).Msg("Search cache write failed")
	}
	return newSearchResponse(res.Rows, res.HasNextPage, page, size), nil
}

func newSearchResponse(rows []models.OfferRow, next bool, page, size int) *SearchResponse {
	if rows == nil {
		rows = []models.OfferRow{}
	}
	return &SearchResponse{Offers: rows, HasNextPage: next, Page: page, PageSize: size}
}
