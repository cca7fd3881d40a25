package repository

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/offerfinder/internal/filter"
	"github.com/GTDGit/offerfinder/internal/models"
)

const offerColumns = `
	o.id, o.offer_type, o.price, o.monthly_fee, o.created_at,
	s.id AS store_id, s.name AS store_name,
	rg.code AS region_code, rg.name AS region_name,
	c.id AS carrier_id, c.name AS carrier_name,
	mf.name AS manufacturer_name,
	md.id AS model_id, md.name AS model_name,
	st.name AS storage_name, md.image_url`

const offerJoins = `
	FROM offers o
	JOIN devices d ON d.id = o.device_id
	JOIN models md ON md.id = d.model_id
	JOIN manufacturers mf ON mf.id = md.manufacturer_id
	JOIN storages st ON st.id = d.storage_id
	JOIN stores s ON s.id = o.store_id
	JOIN regions rg ON rg.code = s.region_code
	JOIN carriers c ON c.id = o.carrier_id`

// offerProjection is the join path behind models.OfferRow.
const offerProjection = "SELECT" + offerColumns + offerJoins

// latestOffers keeps only the newest row of each (store, carrier, device,
// offer type); ties on created_at go to the higher id.
const latestOffers = `o.id IN (
		SELECT ranked.id FROM (
			SELECT id, ROW_NUMBER() OVER (
				PARTITION BY store_id, carrier_id, device_id, offer_type
				ORDER BY created_at DESC, id DESC
			) AS rn
			FROM offers
		) ranked
		WHERE ranked.rn = 1
	)`

// whereBuilder accumulates AND'ed conditions written with '?' placeholders.
// Slice arguments are expanded by sqlx.In.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) and(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

// anyOf adds the OR of parts as a single condition. Nothing is added for no parts.
func (w *whereBuilder) anyOf(parts []string, args []any) {
	if len(parts) == 0 {
		return
	}
	w.and("("+strings.Join(parts, " OR ")+")", args...)
}

func (w *whereBuilder) String() string {
	return strings.Join(w.conds, " AND ")
}

// buildOfferWhere translates a compiled predicate into SQL conditions over
// the offerProjection aliases.
func buildOfferWhere(p filter.Predicate) *whereBuilder {
	w := &whereBuilder{}
	w.and(latestOffers)

	var parts []string
	var args []any
	for _, rc := range p.Regions {
		if rc.AnyChild {
			parts = append(parts, `s.region_code LIKE ? ESCAPE '\'`)
			args = append(args, escapeLike(rc.Parent)+"%")
			continue
		}
		parts = append(parts, `(s.region_code IN (?) AND s.region_code LIKE ? ESCAPE '\')`)
		args = append(args, rc.Codes, escapeLike(rc.Parent)+"%")
	}
	w.anyOf(parts, args)

	parts, args = nil, nil
	for _, dc := range p.Devices {
		if dc.AnyModel {
			parts = append(parts, "md.manufacturer_id = ?")
			args = append(args, dc.Manufacturer)
			continue
		}
		for _, mc := range dc.Models {
			if mc.AnyStorage {
				parts = append(parts, "d.model_id = ?")
				args = append(args, mc.Model)
				continue
			}
			parts = append(parts, "(d.model_id = ? AND d.storage_id IN (?))")
			args = append(args, mc.Model, mc.Storages)
		}
	}
	w.anyOf(parts, args)

	if len(p.Carriers) > 0 {
		w.and("o.carrier_id IN (?)", p.Carriers)
	}
	if len(p.OfferTypes) > 0 {
		types := make([]string, len(p.OfferTypes))
		for i, t := range p.OfferTypes {
			types[i] = string(t)
		}
		w.and("o.offer_type IN (?)", types)
	}
	return w
}

func orderBy(sort models.SortOrder) string {
	switch sort {
	case models.SortPriceAsc:
		return "o.price IS NULL, o.price ASC, o.created_at DESC, o.id DESC"
	case models.SortPriceDesc:
		return "o.price IS NULL, o.price DESC, o.created_at DESC, o.id DESC"
	default:
		return "o.created_at DESC, o.id DESC"
	}
}

// buildSearchQuery returns the page query for p, already rebound for db.
// It asks for limit+1 rows so the caller can detect a following page.
func buildSearchQuery(db *sqlx.DB, p filter.Predicate, sort models.SortOrder, limit, offset int) (string, []any, error) {
	w := buildOfferWhere(p)
	q := offerProjection + "\n\tWHERE " + w.String() +
		"\n\tORDER BY " + orderBy(sort) +
		"\n\tLIMIT ? OFFSET ?"
	args := append(w.args, limit+1, offset)

	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return "", nil, err
	}
	return db.Rebind(q), args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
