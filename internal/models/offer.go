package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money fields go on the wire as JSON numbers. Decoding accepts both forms.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// OfferType enumerates the supported activation types.
type OfferType string

const (
	OfferTypeMNP OfferType = "MNP" // number port-in
	OfferTypeCHG OfferType = "CHG" // in-place device change
)

// Valid reports whether t is a known activation type.
func (t OfferType) Valid() bool {
	return t == OfferTypeMNP || t == OfferTypeCHG
}

// SortOrder enumerates the ranking orders supported by offer search.
type SortOrder string

const (
	SortDefault   SortOrder = "default"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
)

// Valid reports whether s is a known sort order. The empty value is not valid;
// callers normalise it to SortDefault first.
func (s SortOrder) Valid() bool {
	switch s {
	case SortDefault, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

// Offer is a store's published terms for one (carrier, device, offer type).
// Price is expressed in ten-thousand currency units and may be negative (rebate).
// A newer row for the same (store, carrier, device, offer type) supersedes older ones.
type Offer struct {
	ID         int64               `db:"id" json:"id"`
	StoreID    int64               `db:"store_id" json:"storeId"`
	CarrierID  int64               `db:"carrier_id" json:"carrierId"`
	DeviceID   int64               `db:"device_id" json:"deviceId"`
	OfferType  OfferType           `db:"offer_type" json:"offerType"`
	Price      decimal.NullDecimal `db:"price" json:"price"`
	MonthlyFee *int64              `db:"monthly_fee" json:"monthlyFee,omitempty"`
	CreatedAt  time.Time           `db:"created_at" json:"createdAt"`
}

// OfferRow is the denormalised projection returned by offer search.
// Every display field is resolved by the search query's joins.
type OfferRow struct {
	ID               int64               `db:"id" json:"id"`
	OfferType        OfferType           `db:"offer_type" json:"offerType"`
	Price            decimal.NullDecimal `db:"price" json:"price"`
	MonthlyFee       *int64              `db:"monthly_fee" json:"monthlyFee,omitempty"`
	CreatedAt        time.Time           `db:"created_at" json:"createdAt"`
	StoreID          int64               `db:"store_id" json:"storeId"`
	StoreName        string              `db:"store_name" json:"storeName"`
	RegionCode       string              `db:"region_code" json:"regionCode"`
	RegionName       string              `db:"region_name" json:"regionName"`
	CarrierID        int64               `db:"carrier_id" json:"carrierId"`
	CarrierName      string              `db:"carrier_name" json:"carrierName"`
	ManufacturerName string              `db:"manufacturer_name" json:"manufacturerName"`
	ModelID          int64               `db:"model_id" json:"modelId"`
	ModelName        string              `db:"model_name" json:"modelName"`
	StorageName      string              `db:"storage_name" json:"storageName"`
	ImageURL         *string             `db:"image_url" json:"imageUrl,omitempty"`
}

// OfferDetail is a single offer together with the device prices needed for a
// cost comparison.
type OfferDetail struct {
	OfferRow
	DeviceID      int64   `db:"device_id" json:"deviceId"`
	RetailPrice   int64   `db:"retail_price" json:"retailPrice"`
	UnlockedPrice *int64  `db:"unlocked_price" json:"unlockedPrice,omitempty"`
	PurchaseURL   *string `db:"purchase_url" json:"purchaseUrl,omitempty"`
}
