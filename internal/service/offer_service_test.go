package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/offerfinder/internal/filter"
	"github.com/GTDGit/offerfinder/internal/models"
	"github.com/GTDGit/offerfinder/internal/repository"
	"github.com/GTDGit/offerfinder/internal/testutil"
	"github.com/GTDGit/offerfinder/internal/utils"
)

type offerFixture struct {
	svc    *OfferService
	offers *repository.OfferRepository
}

func newOfferFixture(t *testing.T) offerFixture {
	t.Helper()
	db := testutil.NewDB(t)
	refRepo := repository.NewReferenceRepository(db)
	ref := NewReferenceService(refRepo)
	require.NoError(t, ref.Refresh(context.Background()))
	offers := repository.NewOfferRepository(db, 0)
	testutil.InsertAddOns(t, db,
		testutil.AddOn{ID: 2, StoreID: 4, CarrierID: 2, Name: "Cloud", MonthlyFee: 3000, DurationMonths: 4},
		testutil.AddOn{ID: 1, StoreID: 4, CarrierID: 2, Name: "Insurance", MonthlyFee: 5000, DurationMonths: 6, PenaltyFee: testutil.Float(3)},
	)
	return offerFixture{
		svc:    NewOfferService(offers, repository.NewAddOnRepository(db), refRepo, ref),
		offers: offers,
	}
}

func TestOfferService_Submit(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()
	fee := int64(55000)

	o, err := f.svc.Submit(ctx, 4, SubmitOfferRequest{
		CarrierID:  2,
		DeviceID:   72,
		OfferType:  models.OfferTypeCHG,
		Price:      decimal.NewNullDecimal(decimal.NewFromInt(8)),
		MonthlyFee: &fee,
	})
	require.NoError(t, err)
	assert.NotZero(t, o.ID)
	assert.False(t, o.CreatedAt.IsZero())

	page, err := f.offers.Search(ctx, filter.Predicate{Carriers: []int64{2}}, models.SortDefault, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Galaxy S24", page.Rows[0].ModelName)
	assert.Equal(t, "Store 4", page.Rows[0].StoreName)
}

func TestOfferService_SubmitValidation(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		storeID int64
		req     SubmitOfferRequest
		want    error
	}{
		{"bad type", 1, SubmitOfferRequest{CarrierID: 1, DeviceID: 51, OfferType: "NEW"}, utils.ErrInvalidOfferType},
		{"unknown device", 1, SubmitOfferRequest{CarrierID: 1, DeviceID: 99, OfferType: models.OfferTypeMNP}, utils.ErrUnknownDevice},
		{"unknown carrier", 1, SubmitOfferRequest{CarrierID: 9, DeviceID: 51, OfferType: models.OfferTypeMNP}, utils.ErrUnknownCarrier},
		{"unknown store", 77, SubmitOfferRequest{CarrierID: 1, DeviceID: 51, OfferType: models.OfferTypeMNP}, utils.ErrUnknownStore},
		{"price too large", 1, SubmitOfferRequest{CarrierID: 1, DeviceID: 51, OfferType: models.OfferTypeMNP, Price: price("100000000")}, utils.ErrInvalidRequest},
		{"rebate too large", 1, SubmitOfferRequest{CarrierID: 1, DeviceID: 51, OfferType: models.OfferTypeMNP, Price: price("-123456789.5")}, utils.ErrInvalidRequest},
		{"too many decimals", 1, SubmitOfferRequest{CarrierID: 1, DeviceID: 51, OfferType: models.OfferTypeMNP, Price: price("1.005")}, utils.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Submit(ctx, tt.storeID, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOfferService_SubmitPriceBounds(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()

	for _, p := range []string{"99999999.99", "-99999999.99", "-15.25", "0"} {
		o, err := f.svc.Submit(ctx, 1, SubmitOfferRequest{CarrierID: 1, DeviceID: 51, OfferType: models.OfferTypeMNP, Price: price(p)})
		require.NoError(t, err, p)
		assert.True(t, o.Price.Decimal.Equal(decimal.RequireFromString(p)))
	}
}

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestOfferService_GetAndAddOns(t *testing.T) {
	f := newOfferFixture(t)
	ctx := context.Background()
	o, err := f.svc.Submit(ctx, 4, SubmitOfferRequest{CarrierID: 2, DeviceID: 51, OfferType: models.OfferTypeMNP})
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.False(t, got.Price.Valid)
	assert.Nil(t, got.MonthlyFee)

	addons, err := f.svc.AddOns(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, addons, 2)
	assert.Equal(t, "Insurance", addons[0].Name)

	_, err = f.svc.AddOns(ctx, 12345)
	assert.ErrorIs(t, err, utils.ErrOfferNotFound)
}
