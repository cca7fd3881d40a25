// Package filter compiles a buyer's selection into a canonical offer predicate.
package filter

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/GTDGit/offerfinder/internal/models"
)

// RegionClause matches stores whose region code starts with Parent and, unless
// AnyChild is set, is one of Codes. A code outside Parent matches nothing.
type RegionClause struct {
	Parent   string   `json:"parent"`
	AnyChild bool     `json:"anyChild,omitempty"`
	Codes    []string `json:"codes,omitempty"`
}

// ModelClause matches devices of Model, restricted to Storages unless
// AnyStorage is set.
type ModelClause struct {
	Model      int64   `json:"model"`
	AnyStorage bool    `json:"anyStorage,omitempty"`
	Storages   []int64 `json:"storages,omitempty"`
}

// DeviceClause matches devices of Manufacturer, either every model (AnyModel)
// or one of Models.
type DeviceClause struct {
	Manufacturer int64         `json:"manufacturer"`
	AnyModel     bool          `json:"anyModel,omitempty"`
	Models       []ModelClause `json:"models,omitempty"`
}

// Predicate is the compiled search filter. Clauses inside Regions and inside
// Devices are OR'ed; the four groups are AND'ed. An empty group does not
// constrain its dimension.
type Predicate struct {
	Regions    []RegionClause     `json:"regions,omitempty"`
	Devices    []DeviceClause     `json:"devices,omitempty"`
	Carriers   []int64            `json:"carriers,omitempty"`
	OfferTypes []models.OfferType `json:"offerTypes,omitempty"`
}

// IsEmpty reports whether p matches every offer.
func (p Predicate) IsEmpty() bool {
	return len(p.Regions) == 0 && len(p.Devices) == 0 && len(p.Carriers) == 0 && len(p.OfferTypes) == 0
}

// Canonical returns the canonical JSON encoding of p. Predicates produced by
// Compile from equivalent selections encode to identical bytes.
func (p Predicate) Canonical() []byte {
	// Only slices, strings, ints and bools: Marshal cannot fail.
	b, _ := json.Marshal(p)
	return b
}

// Key returns a stable hex digest of the canonical encoding, suitable as a
// cache key component.
func (p Predicate) Key() string {
	sum := sha256.Sum256(p.Canonical())
	return hex.EncodeToString(sum[:])
}
