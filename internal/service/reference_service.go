package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/offerfinder/internal/models"
)

// ReferenceSource loads master data. *repository.ReferenceRepository implements it.
type ReferenceSource interface {
	ListRegions(ctx context.Context) ([]models.Region, error)
	ListManufacturers(ctx context.Context) ([]models.Manufacturer, error)
	ListModels(ctx context.Context) ([]models.Model, error)
	ListStorages(ctx context.Context) ([]models.Storage, error)
	ListDevices(ctx context.Context) ([]models.Device, error)
	ListCarriers(ctx context.Context) ([]models.Carrier, error)
}

// CatalogProvider returns the current reference snapshot.
type CatalogProvider interface {
	Catalog() *Catalog
}

// Catalog is an immutable snapshot of master data with lookup indexes.
// The zero value is an empty catalog.
type Catalog struct {
	regions       []models.Region
	regionByCode  map[string]models.Region
	manufacturers []models.Manufacturer
	models        []models.Model
	modelByID     map[int64]models.Model
	storageByID   map[int64]models.Storage
	deviceByID    map[int64]models.Device
	modelDevices  map[int64][]models.Device
	carriers      []models.Carrier
	carrierByID   map[int64]models.Carrier
	LoadedAt      time.Time
}

// NewCatalog indexes the given master data. Slices are retained, not copied.
func NewCatalog(regions []models.Region, mfs []models.Manufacturer, mds []models.Model,
	storages []models.Storage, devices []models.Device, carriers []models.Carrier) *Catalog {
	c := &Catalog{
		regions:       regions,
		regionByCode:  make(map[string]models.Region, len(regions)),
		manufacturers: mfs,
		models:        mds,
		modelByID:     make(map[int64]models.Model, len(mds)),
		storageByID:   make(map[int64]models.Storage, len(storages)),
		deviceByID:    make(map[int64]models.Device, len(devices)),
		modelDevices:  make(map[int64][]models.Device),
		carriers:      carriers,
		carrierByID:   make(map[int64]models.Carrier, len(carriers)),
		LoadedAt:      time.Now(),
	}
	for _, r := range regions {
		c.regionByCode[r.Code] = r
	}
	for _, m := range mds {
		c.modelByID[m.ID] = m
	}
	for _, s := range storages {
		c.storageByID[s.ID] = s
	}
	for _, d := range devices {
		c.deviceByID[d.ID] = d
		c.modelDevices[d.ModelID] = append(c.modelDevices[d.ModelID], d)
	}
	for _, cr := range carriers {
		c.carrierByID[cr.ID] = cr
	}
	return c
}

// ModelByID looks up a model.
func (c *Catalog) ModelByID(id int64) (models.Model, bool) {
	m, ok := c.modelByID[id]
	return m, ok
}

// DeviceByID looks up a device.
func (c *Catalog) DeviceByID(id int64) (models.Device, bool) {
	d, ok := c.deviceByID[id]
	return d, ok
}

// CarrierByID looks up a carrier.
func (c *Catalog) CarrierByID(id int64) (models.Carrier, bool) {
	cr, ok := c.carrierByID[id]
	return cr, ok
}

// Region looks up a region by code.
func (c *Catalog) Region(code string) (models.Region, bool) {
	r, ok := c.regionByCode[code]
	return r, ok
}

// RegionChildren returns the direct children of parent, or the top-level
// regions when parent is empty.
func (c *Catalog) RegionChildren(parent string, activeOnly bool) []models.Region {
	out := []models.Region{}
	for _, r := range c.regions {
		if activeOnly && !r.IsActive {
			continue
		}
		if (parent == "" && r.ParentCode == nil) || (r.ParentCode != nil && *r.ParentCode == parent) {
			out = append(out, r)
		}
	}
	return out
}

// ActiveRegions returns every active region ordered by code.
func (c *Catalog) ActiveRegions() []models.Region {
	out := []models.Region{}
	for _, r := range c.regions {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out
}

// Manufacturers returns all manufacturers.
func (c *Catalog) Manufacturers() []models.Manufacturer {
	return append([]models.Manufacturer{}, c.manufacturers...)
}

// Models returns the models of manufacturerID, or every model when it is 0.
func (c *Catalog) Models(manufacturerID int64) []models.Model {
	out := []models.Model{}
	for _, m := range c.models {
		if manufacturerID == 0 || m.ManufacturerID == manufacturerID {
			out = append(out, m)
		}
	}
	return out
}

// StoragesForModel returns the storage variants a model is sold in, by id.
func (c *Catalog) StoragesForModel(modelID int64) []models.Storage {
	out := []models.Storage{}
	for _, d := range c.modelDevices[modelID] {
		if s, ok := c.storageByID[d.StorageID]; ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Carriers returns all carriers.
func (c *Catalog) Carriers() []models.Carrier {
	return append([]models.Carrier{}, c.carriers...)
}

// ReferenceService keeps the reference catalog in memory and swaps it on refresh.
type ReferenceService struct {
	source ReferenceSource

	mu      sync.RWMutex
	catalog *Catalog
}

// NewReferenceService constructs a ReferenceService with an empty catalog.
// Call Refresh before serving traffic.
func NewReferenceService(source ReferenceSource) *ReferenceService {
	return &ReferenceService{source: source, catalog: &Catalog{}}
}

// Catalog returns the current snapshot. It is never nil.
func (s *ReferenceService) Catalog() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Refresh reloads every reference table. On failure the previous snapshot stays.
func (s *ReferenceService) Refresh(ctx context.Context) error {
	regions, err := s.source.ListRegions(ctx)
	if err != nil {
		return fmt.Errorf("load regions: %w", err)
	}
	mfs, err := s.source.ListManufacturers(ctx)
	if err != nil {
		return fmt.Errorf("load manufacturers: %w", err)
	}
	mds, err := s.source.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}
	storages, err := s.source.ListStorages(ctx)
	if err != nil {
		return fmt.Errorf("load storages: %w", err)
	}
	devices, err := s.source.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("load devices: %w", err)
	}
	carriers, err := s.source.ListCarriers(ctx)
	if err != nil {
		return fmt.Errorf("load carriers: %w", err)
	}

	c := NewCatalog(regions, mfs, mds, storages, devices, carriers)

	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()

	log.Debug().
		Int("regions", len(regions)).
		Int("models", len(mds)).
		Int("devices", len(devices)).
		Int("carriers", len(carriers)).
		Msg("Reference catalog loaded")
	return nil
}
