package service

import (
	"context"
	"fmt"

	"github.com/GTDGit/offerfinder/internal/cost"
	"github.com/GTDGit/offerfinder/internal/utils"
)

// CompareRequest carries the buyer's figures for a cost comparison. Nil
// fields fall back to the offer or device data, then to 0.
type CompareRequest struct {
	SelectedAddOns    []int  `json:"selectedAddOns"`
	ChangedMonthlyFee *int64 `json:"changedMonthlyFee" binding:"omitempty,gte=0"`
	SelfMonthlyPlan   *int64 `json:"selfMonthlyPlan" binding:"required,gte=0"`
	UnlockedPrice     *int64 `json:"unlockedPrice" binding:"omitempty,gte=0"`
	HorizonMonths     int    `json:"horizonMonths" binding:"omitempty,min=1,max=120"`
}

// CompareResponse is a comparison result with its verdict.
type CompareResponse struct {
	cost.Result
	Verdict       cost.Verdict `json:"verdict"`
	HorizonMonths int          `json:"horizonMonths"`
}

// CostService compares an offer's total cost with a self-purchase.
type CostService struct {
	offers OfferStore
	addons AddOnLister
	policy cost.Policy
}

// NewCostService constructs a CostService.
func NewCostService(offers OfferStore, addons AddOnLister, policy cost.Policy) *CostService {
	return &CostService{offers: offers, addons: addons, policy: policy}
}

// Compare loads offer offerID and its add-ons and runs the comparator.
// SelectedAddOns index the add-ons in id order. The unlocked price defaults to
// the device's unlocked price, then its retail price; the changed plan
// defaults to the offer's monthly fee.
func (s *CostService) Compare(ctx context.Context, offerID int64, req CompareRequest) (*CompareResponse, error) {
	o, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	addons, err := s.addons.ListByStoreCarrier(ctx, o.StoreID, o.CarrierID)
	if err != nil {
		return nil, fmt.Errorf("%w: list add-ons: %v", utils.ErrRetrieval, err)
	}

	policy := s.policy
	if req.HorizonMonths > 0 {
		policy.HorizonMonths = req.HorizonMonths
	}

	unlocked := req.UnlockedPrice
	if unlocked == nil {
		unlocked = o.UnlockedPrice
	}
	if unlocked == nil {
		retail := o.RetailPrice
		unlocked = &retail
	}
	changed := req.ChangedMonthlyFee
	if changed == nil {
		changed = o.MonthlyFee
	}

	in := cost.Input{
		OfferPrice:         o.Price,
		RequiredMonthlyFee: o.MonthlyFee,
		ChangedMonthlyFee:  changed,
		AddOns:             make([]cost.AddOn, len(addons)),
		Selected:           req.SelectedAddOns,
		UnlockedPrice:      unlocked,
		SelfMonthlyPlan:    req.SelfMonthlyPlan,
	}
	for i, a := range addons {
		in.AddOns[i] = cost.AddOn{MonthlyFee: a.MonthlyFee, DurationMonths: a.DurationMonths, PenaltyFee: a.PenaltyFee}
	}

	res := cost.Compare(in, policy)
	return &CompareResponse{Result: res, Verdict: res.Verdict(), HorizonMonths: policy.HorizonMonths}, nil
}
