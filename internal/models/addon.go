package models

import "github.com/shopspring/decimal"

// AddOn is an optional service a store bundles with a carrier activation.
// PenaltyFee is in ten-thousand currency units and applies only when the
// add-on is not subscribed.
type AddOn struct {
	ID             int64               `db:"id" json:"id"`
	StoreID        int64               `db:"store_id" json:"storeId"`
	CarrierID      int64               `db:"carrier_id" json:"carrierId"`
	Name           string              `db:"name" json:"name"`
	MonthlyFee     int64               `db:"monthly_fee" json:"monthlyFee"`
	DurationMonths int                 `db:"duration_months" json:"durationMonths"`
	PenaltyFee     decimal.NullDecimal `db:"penalty_fee" json:"penaltyFee"`
}
