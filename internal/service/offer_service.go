package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/offerfinder/internal/models"
	"github.com/GTDGit/offerfinder/internal/utils"
)

// OfferStore reads and writes single offers. *repository.OfferRepository implements it.
type OfferStore interface {
	GetByID(ctx context.Context, id int64) (*models.OfferDetail, error)
	Create(ctx context.Context, o *models.Offer) error
}

// AddOnLister lists store add-ons. *repository.AddOnRepository implements it.
type AddOnLister interface {
	ListByStoreCarrier(ctx context.Context, storeID, carrierID int64) ([]models.AddOn, error)
}

// StoreLookup resolves stores. *repository.ReferenceRepository implements it.
type StoreLookup interface {
	GetStore(ctx context.Context, id int64) (*models.Store, error)
}

// SubmitOfferRequest is a store operator's new terms for one device.
type SubmitOfferRequest struct {
	CarrierID  int64               `json:"carrierId" binding:"required,gt=0"`
	DeviceID   int64               `json:"deviceId" binding:"required,gt=0"`
	OfferType  models.OfferType    `json:"offerType" binding:"required,offertype"`
	Price      decimal.NullDecimal `json:"price"`
	MonthlyFee *int64              `json:"monthlyFee" binding:"omitempty,gte=0"`
}

// maxPrice bounds the price column, NUMERIC(10,2).
var maxPrice = decimal.New(1, 8)

func validatePrice(price decimal.NullDecimal) error {
	if !price.Valid {
		return nil
	}
	d := price.Decimal
	if d.Abs().GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("%w: price must be below %s in magnitude", utils.ErrInvalidRequest, maxPrice)
	}
	if !d.Equal(d.Truncate(2)) {
		return fmt.Errorf("%w: price allows at most 2 decimal places", utils.ErrInvalidRequest)
	}
	return nil
}

// OfferService provides single-offer operations.
type OfferService struct {
	offers    OfferStore
	addons    AddOnLister
	stores    StoreLookup
	reference CatalogProvider
}

// NewOfferService constructs an OfferService.
func NewOfferService(offers OfferStore, addons AddOnLister, stores StoreLookup, reference CatalogProvider) *OfferService {
	return &OfferService{offers: offers, addons: addons, stores: stores, reference: reference}
}

// Get returns one offer with device prices.
func (s *OfferService) Get(ctx context.Context, id int64) (*models.OfferDetail, error) {
	return s.offers.GetByID(ctx, id)
}

// AddOns returns the add-ons of the offer's store and carrier, ordered by id.
func (s *OfferService) AddOns(ctx context.Context, offerID int64) ([]models.AddOn, error) {
	o, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	addons, err := s.addons.ListByStoreCarrier(ctx, o.StoreID, o.CarrierID)
	if err != nil {
		return nil, fmt.Errorf("%w: list add-ons: %v", utils.ErrRetrieval, err)
	}
	return addons, nil
}

// Submit publishes new terms for storeID. The new row supersedes the store's
// previous offer for the same carrier, device and offer type.
func (s *OfferService) Submit(ctx context.Context, storeID int64, req SubmitOfferRequest) (*models.Offer, error) {
	if !req.OfferType.Valid() {
		return nil, utils.ErrInvalidOfferType
	}
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}
	catalog := s.reference.Catalog()
	if _, ok := catalog.DeviceByID(req.DeviceID); !ok {
		return nil, utils.ErrUnknownDevice
	}
	if _, ok := catalog.CarrierByID(req.CarrierID); !ok {
		return nil, utils.ErrUnknownCarrier
	}
	if _, err := s.stores.GetStore(ctx, storeID); err != nil {
		return nil, err
	}

	o := &models.Offer{
		StoreID:    storeID,
		CarrierID:  req.CarrierID,
		DeviceID:   req.DeviceID,
		OfferType:  req.OfferType,
		Price:      req.Price,
		MonthlyFee: req.MonthlyFee,
	}
	if err := s.offers.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}

	log.Info().
		Int64("offer_id", o.ID).
		Int64("store_id", storeID).
		Int64("carrier_id", o.CarrierID).
		Int64("device_id", o.DeviceID).
		Str("offer_type", string(o.OfferType)).
		Msg("Offer submitted")
	return o, nil
}
