// Package testutil provides an in-memory SQLite database that mirrors the
// PostgreSQL schema closely enough for repository and service tests.
package testutil

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

const schema = `
PRAGMA foreign_keys = ON;

CREATE TABLE regions(
  code TEXT PRIMARY KEY,
  parent_code TEXT REFERENCES regions(code),
  name TEXT NOT NULL,
  is_active BOOLEAN NOT NULL DEFAULT 1
);
CREATE TABLE manufacturers(
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);
CREATE TABLE models(
  id INTEGER PRIMARY KEY,
  manufacturer_id INTEGER NOT NULL REFERENCES manufacturers(id),
  name TEXT NOT NULL,
  image_url TEXT
);
CREATE TABLE storages(
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);
CREATE TABLE devices(
  id INTEGER PRIMARY KEY,
  model_id INTEGER NOT NULL REFERENCES models(id),
  storage_id INTEGER NOT NULL REFERENCES storages(id),
  retail_price INTEGER NOT NULL,
  unlocked_price INTEGER,
  purchase_url TEXT,
  UNIQUE(model_id, storage_id)
);
CREATE TABLE carriers(
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);
CREATE TABLE stores(
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  region_code TEXT NOT NULL REFERENCES regions(code)
);
CREATE TABLE offers(
  id INTEGER PRIMARY KEY,
  store_id INTEGER NOT NULL REFERENCES stores(id),
  carrier_id INTEGER NOT NULL REFERENCES carriers(id),
  device_id INTEGER NOT NULL REFERENCES devices(id),
  offer_type TEXT NOT NULL CHECK (offer_type IN ('MNP','CHG')),
  price NUMERIC,
  monthly_fee INTEGER,
  created_at DATETIME NOT NULL
);
CREATE TABLE addons(
  id INTEGER PRIMARY KEY,
  store_id INTEGER NOT NULL REFERENCES stores(id),
  carrier_id INTEGER NOT NULL REFERENCES carriers(id),
  name TEXT NOT NULL,
  monthly_fee INTEGER NOT NULL DEFAULT 0,
  duration_months INTEGER NOT NULL DEFAULT 0,
  penalty_fee NUMERIC
);
`

// catalog is shared by every test database:
//
//	regions   11 > 1101, 1102, 1103 (inactive);  21 > 2101
//	models    5, 6 (manufacturer 1);  7 (manufacturer 2)
//	devices   51-53 = model 5 x storage 1-3; 61 = 6/2; 71, 72 = 7/1, 7/2
//	stores    1-10 alternate 1101/1102; 11 in 2101; 12 in 1103
const catalog = `
INSERT INTO regions(code, parent_code, name, is_active) VALUES
  ('11', NULL, 'Capital', 1),
  ('1101', '11', 'North District', 1),
  ('1102', '11', 'South District', 1),
  ('1103', '11', 'Old Town', 0),
  ('21', NULL, 'Harbor City', 1),
  ('2101', '21', 'Harbor Center', 1);
INSERT INTO manufacturers(id, name) VALUES (1, 'Apple'), (2, 'Samsung');
INSERT INTO models(id, manufacturer_id, name, image_url) VALUES
  (5, 1, 'iPhone 15', 'https://img.example.com/iphone15.png'),
  (6, 1, 'iPhone 15 Pro', NULL),
  (7, 2, 'Galaxy S24', 'https://img.example.com/s24.png');
INSERT INTO storages(id, name) VALUES (1, '128GB'), (2, '256GB'), (3, '512GB');
INSERT INTO devices(id, model_id, storage_id, retail_price, unlocked_price, purchase_url) VALUES
  (51, 5, 1, 1250000, 1200000, 'https://shop.example.com/iphone15-128'),
  (52, 5, 2, 1400000, NULL, NULL),
  (53, 5, 3, 1700000, NULL, NULL),
  (61, 6, 2, 1550000, 1500000, NULL),
  (71, 7, 1, 1150000, NULL, NULL),
  (72, 7, 2, 1300000, NULL, NULL);
INSERT INTO carriers(id, name) VALUES (1, 'SKT'), (2, 'KT'), (3, 'LGU+');
INSERT INTO stores(id, name, region_code) VALUES
  (1, 'Store 1', '1101'), (2, 'Store 2', '1102'), (3, 'Store 3', '1101'),
  (4, 'Store 4', '1102'), (5, 'Store 5', '1101'), (6, 'Store 6', '1102'),
  (7, 'Store 7', '1101'), (8, 'Store 8', '1102'), (9, 'Store 9', '1101'),
  (10, 'Store 10', '1102'), (11, 'Harbor Store', '2101'), (12, 'Old Town Store', '1103');
`

// BaseTime is the reference timestamp used by offer fixtures.
var BaseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// NewDB opens a fresh in-memory database with the schema and catalog loaded.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// Each connection to :memory: is its own database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(catalog); err != nil {
		t.Fatal(err)
	}
	return db
}

// Offer is a fixture row. A nil Price or MonthlyFee is stored as NULL.
type Offer struct {
	ID         int64
	StoreID    int64
	CarrierID  int64
	DeviceID   int64
	OfferType  string
	Price      *float64
	MonthlyFee *int64
	// Age is subtracted from BaseTime to produce created_at.
	Age time.Duration
}

// InsertOffers writes fixture offers, assigning ids in order when ID is zero.
func InsertOffers(t *testing.T, db *sqlx.DB, offers ...Offer) {
	t.Helper()
	for _, o := range offers {
		var id any
		if o.ID != 0 {
			id = o.ID
		}
		_, err := db.Exec(`INSERT INTO offers(id, store_id, carrier_id, device_id, offer_type, price, monthly_fee, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, o.StoreID, o.CarrierID, o.DeviceID, o.OfferType, o.Price, o.MonthlyFee, BaseTime.Add(-o.Age))
		if err != nil {
			t.Fatal(err)
		}
	}
}

// AddOn is a fixture row for the addons table.
type AddOn struct {
	ID             int64
	StoreID        int64
	CarrierID      int64
	Name           string
	MonthlyFee     int64
	DurationMonths int
	PenaltyFee     *float64
}

// InsertAddOns writes fixture add-ons.
func InsertAddOns(t *testing.T, db *sqlx.DB, addons ...AddOn) {
	t.Helper()
	for _, a := range addons {
		_, err := db.Exec(`INSERT INTO addons(id, store_id, carrier_id, name, monthly_fee, duration_months, penalty_fee)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.StoreID, a.CarrierID, a.Name, a.MonthlyFee, a.DurationMonths, a.PenaltyFee)
		if err != nil {
			t.Fatal(err)
		}
	}
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int64) *int64 { return &v }
