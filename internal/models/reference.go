package models

// Region is a node of the administrative hierarchy. A child's code always
// starts with its parent's code.
type Region struct {
	Code       string  `db:"code" json:"code"`
	ParentCode *string `db:"parent_code" json:"parentCode,omitempty"`
	Name       string  `db:"name" json:"name"`
	IsActive   bool    `db:"is_active" json:"isActive"`
}

// Manufacturer represents a handset maker.
type Manufacturer struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Model represents a handset model.
type Model struct {
	ID             int64   `db:"id" json:"id"`
	ManufacturerID int64   `db:"manufacturer_id" json:"manufacturerId"`
	Name           string  `db:"name" json:"name"`
	ImageURL       *string `db:"image_url" json:"imageUrl,omitempty"`
}

// Storage represents a storage capacity variant (e.g. "256GB").
type Storage struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Device is a (model, storage) combination that is actually sold.
type Device struct {
	ID            int64   `db:"id" json:"id"`
	ModelID       int64   `db:"model_id" json:"modelId"`
	StorageID     int64   `db:"storage_id" json:"storageId"`
	RetailPrice   int64   `db:"retail_price" json:"retailPrice"`
	UnlockedPrice *int64  `db:"unlocked_price" json:"unlockedPrice,omitempty"`
	PurchaseURL   *string `db:"purchase_url" json:"purchaseUrl,omitempty"`
}

// Carrier represents a mobile network operator.
type Carrier struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Store represents a retail shop publishing offers.
type Store struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	RegionCode string `db:"region_code" json:"regionCode"`
}
