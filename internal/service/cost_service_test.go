package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/offerfinder/internal/cost"
	"github.com/GTDGit/offerfinder/internal/repository"
	"github.com/GTDGit/offerfinder/internal/testutil"
	"github.com/GTDGit/offerfinder/internal/utils"
)

func i64(v int64) *int64 { return &v }

func newCostService(t *testing.T) *CostService {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.InsertOffers(t, db,
		// device 51 has an unlocked price of 1200000
		testutil.Offer{ID: 1, StoreID: 1, CarrierID: 1, DeviceID: 51, OfferType: "MNP", Price: testutil.Float(-15), MonthlyFee: testutil.Int(30000)},
		// device 52 has only a retail price of 1400000
		testutil.Offer{ID: 2, StoreID: 2, CarrierID: 1, DeviceID: 52, OfferType: "CHG", Price: testutil.Float(10), MonthlyFee: testutil.Int(50000)},
	)
	testutil.InsertAddOns(t, db,
		testutil.AddOn{ID: 1, StoreID: 1, CarrierID: 1, Name: "Insurance", MonthlyFee: 5000, DurationMonths: 6, PenaltyFee: testutil.Float(3)},
	)
	offers := repository.NewOfferRepository(db, 0)
	return NewCostService(offers, repository.NewAddOnRepository(db), cost.DefaultPolicy())
}

func TestCostService_ExampleScenario(t *testing.T) {
	svc := newCostService(t)

	res, err := svc.Compare(context.Background(), 1, CompareRequest{
		SelectedAddOns:    []int{0},
		ChangedMonthlyFee: i64(45000),
		SelfMonthlyPlan:   i64(20000),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1680000), res.SelfTotal)
	assert.Equal(t, int64(870000), res.OfferTotal)
	assert.Equal(t, int64(810000), res.Difference)
	assert.Equal(t, cost.VerdictOfferCheaper, res.Verdict)
	assert.Equal(t, 24, res.HorizonMonths)
}

func TestCostService_Defaults(t *testing.T) {
	svc := newCostService(t)

	// unlocked price falls back to retail, changed plan to the offer's fee
	res, err := svc.Compare(context.Background(), 2, CompareRequest{SelfMonthlyPlan: i64(30000)})
	require.NoError(t, err)
	assert.Equal(t, int64(1400000+30000*24), res.SelfTotal)
	assert.Equal(t, int64(50000*24+10*10000), res.OfferTotal)
	assert.Equal(t, res.SelfTotal-res.OfferTotal, res.Difference)

	// explicit unlocked price and shorter horizon
	res, err = svc.Compare(context.Background(), 2, CompareRequest{
		SelfMonthlyPlan: i64(30000),
		UnlockedPrice:   i64(1000000),
		HorizonMonths:   12,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000000+30000*12), res.SelfTotal)
	assert.Equal(t, int64(50000*12+100000), res.OfferTotal)
	assert.Equal(t, 12, res.HorizonMonths)
}

func TestCostService_UnselectedAddOnPenalty(t *testing.T) {
	svc := newCostService(t)

	res, err := svc.Compare(context.Background(), 1, CompareRequest{
		ChangedMonthlyFee: i64(45000),
		SelfMonthlyPlan:   i64(20000),
		SelectedAddOns:    []int{5, -1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(870000), res.OfferTotal)
}

func TestCostService_OfferNotFound(t *testing.T) {
	svc := newCostService(t)
	_, err := svc.Compare(context.Background(), 404, CompareRequest{SelfMonthlyPlan: i64(1)})
	assert.ErrorIs(t, err, utils.ErrOfferNotFound)
}
