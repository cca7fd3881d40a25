// Package cost compares the total cost of ownership of a carrier offer with
// buying the device unlocked and paying for a plan separately.
package cost

import (
	"github.com/shopspring/decimal"
)

// Policy holds the business constants of a comparison.
type Policy struct {
	// HorizonMonths is the comparison period.
	HorizonMonths int
	// RequiredPlanMonths is the initial segment during which the offer's
	// required plan must be kept.
	RequiredPlanMonths int
	// PriceUnit converts offer prices and add-on penalties, which are quoted in
	// multiples of this many currency units, into currency units.
	PriceUnit int64
}

// DefaultPolicy is a 24-month horizon with a 6-month required plan and prices
// quoted in ten-thousands.
func DefaultPolicy() Policy {
	return Policy{HorizonMonths: 24, RequiredPlanMonths: 6, PriceUnit: 10_000}
}

// AddOn is an optional service bundled with an offer.
type AddOn struct {
	MonthlyFee     int64
	DurationMonths int
	// PenaltyFee is quoted in Policy.PriceUnit and charged when the add-on is
	// not selected.
	PenaltyFee decimal.NullDecimal
}

// Input describes one comparison. Nil or invalid numeric fields contribute 0.
type Input struct {
	// OfferPrice is the device balance in Policy.PriceUnit; negative means a rebate.
	OfferPrice         decimal.NullDecimal
	RequiredMonthlyFee *int64
	ChangedMonthlyFee  *int64
	AddOns             []AddOn
	// Selected holds indices into AddOns. Out-of-range and repeated indices are ignored.
	Selected []int

	UnlockedPrice   *int64
	SelfMonthlyPlan *int64
}

// Verdict names the cheaper path.
type Verdict string

const (
	VerdictOfferCheaper Verdict = "offer_cheaper"
	VerdictSelfCheaper  Verdict = "self_cheaper"
	VerdictEqual        Verdict = "equal"
)

// Result holds the two totals and their difference. Difference is always
// exactly SelfTotal - OfferTotal.
type Result struct {
	SelfTotal  int64 `json:"selfTotal"`
	OfferTotal int64 `json:"offerTotal"`
	Difference int64 `json:"difference"`
}

// Verdict reports which path is cheaper.
func (r Result) Verdict() Verdict {
	switch {
	case r.Difference > 0:
		return VerdictOfferCheaper
	case r.Difference < 0:
		return VerdictSelfCheaper
	default:
		return VerdictEqual
	}
}

// Compare computes both totals over p.HorizonMonths. A horizon shorter than
// the required segment charges only the required plan for the whole horizon.
func Compare(in Input, p Policy) Result {
	horizon := max(p.HorizonMonths, 0)
	required := min(max(p.RequiredPlanMonths, 0), horizon)
	remaining := horizon - required
	unit := decimal.NewFromInt(p.PriceUnit)

	selected := make(map[int]bool, len(in.Selected))
	for _, i := range in.Selected {
		if i >= 0 && i < len(in.AddOns) {
			selected[i] = true
		}
	}

	var addonsCost int64
	penalty := decimal.Zero
	for i, a := range in.AddOns {
		if selected[i] {
			addonsCost += a.MonthlyFee * int64(max(a.DurationMonths, 0))
			continue
		}
		penalty = penalty.Add(orZero(a.PenaltyFee).Mul(unit))
	}

	selfTotal := deref(in.UnlockedPrice) + deref(in.SelfMonthlyPlan)*int64(horizon)

	offerTotal := deref(in.RequiredMonthlyFee)*int64(required) +
		deref(in.ChangedMonthlyFee)*int64(remaining) +
		toUnits(orZero(in.OfferPrice).Mul(unit)) +
		toUnits(penalty) +
		addonsCost

	return Result{
		SelfTotal:  selfTotal,
		OfferTotal: offerTotal,
		Difference: selfTotal - offerTotal,
	}
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// toUnits rounds half away from zero to whole currency units.
func toUnits(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
