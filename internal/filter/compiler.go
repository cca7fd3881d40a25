package filter

import (
	"cmp"
	"slices"

	"github.com/GTDGit/offerfinder/internal/models"
	"github.com/GTDGit/offerfinder/internal/selection"
)

// group collects the children chosen under one parent.
type group[K cmp.Ordered] struct {
	any bool
	ids []K
}

func collect[P, K cmp.Ordered](es []selection.Entry[P, K]) map[P]*group[K] {
	out := make(map[P]*group[K])
	for _, e := range es {
		if !e.Child.Valid() {
			continue
		}
		g := out[e.Parent]
		if g == nil {
			g = &group[K]{}
		}
		if e.Child.IsAll() {
			g.any = true
		} else {
			id, _ := e.Child.ID()
			g.ids = append(g.ids, id)
		}
		out[e.Parent] = g
	}
	return out
}

func sortedKeys[P cmp.Ordered, V any](m map[P]V) []P {
	keys := make([]P, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func uniq[K cmp.Ordered](ids []K) []K {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// Compile reduces a selection plus flat carrier and offer-type choices into a
// canonical Predicate. It never fails: wildcard entries win over specific
// siblings, storages of unselected models are dropped, and unknown offer types
// or non-positive carrier ids are ignored. Entries that cannot match anything,
// such as a region code outside its parent or a model under manufacturer 0,
// are kept so the dimension still constrains and the search returns nothing.
func Compile(set *selection.Set, carriers []int64, offerTypes []models.OfferType) Predicate {
	var p Predicate
	if set != nil {
		p.Regions = compileRegions(set.Regions())
		p.Devices = compileDevices(set.Models(), set.Storages())
	}
	p.Carriers = compileCarriers(carriers)
	p.OfferTypes = compileOfferTypes(offerTypes)
	return p
}

func compileRegions(entries []selection.RegionEntry) []RegionClause {
	groups := collect(entries)
	var clauses []RegionClause
	for _, parent := range sortedKeys(groups) {
		g := groups[parent]
		switch {
		case parent == "":
			// a parentless wildcard would match every region
		case g.any:
			clauses = append(clauses, RegionClause{Parent: parent, AnyChild: true})
		case len(g.ids) > 0:
			clauses = append(clauses, RegionClause{Parent: parent, Codes: uniq(g.ids)})
		}
	}
	return clauses
}

func compileDevices(modelEntries []selection.ModelEntry, storageEntries []selection.StorageEntry) []DeviceClause {
	manufacturers := collect(modelEntries)
	storages := collect(storageEntries)

	var clauses []DeviceClause
	for _, mf := range sortedKeys(manufacturers) {
		g := manufacturers[mf]
		if g.any {
			clauses = append(clauses, DeviceClause{Manufacturer: mf, AnyModel: true})
			continue
		}
		var mcs []ModelClause
		for _, model := range uniq(g.ids) {
			mc := ModelClause{Model: model, AnyStorage: true}
			if sg := storages[model]; sg != nil && !sg.any && len(sg.ids) > 0 {
				mc = ModelClause{Model: model, Storages: uniq(sg.ids)}
			}
			mcs = append(mcs, mc)
		}
		if len(mcs) > 0 {
			clauses = append(clauses, DeviceClause{Manufacturer: mf, Models: mcs})
		}
	}
	return clauses
}

func compileCarriers(carriers []int64) []int64 {
	var out []int64
	for _, id := range carriers {
		if id > 0 {
			out = append(out, id)
		}
	}
	return uniq(out)
}

func compileOfferTypes(types []models.OfferType) []models.OfferType {
	var out []models.OfferType
	for _, t := range types {
		if t.Valid() {
			out = append(out, t)
		}
	}
	return uniq(out)
}

// Decompile rebuilds a selection equivalent to p, so that compiling it again
// yields p.
func Decompile(p Predicate) (*selection.Set, []int64, []models.OfferType) {
	var regions []selection.RegionEntry
	for _, rc := range p.Regions {
		if rc.AnyChild {
			regions = append(regions, selection.RegionEntry{Parent: rc.Parent, Child: selection.All[string]()})
			continue
		}
		for _, code := range rc.Codes {
			regions = append(regions, selection.RegionEntry{Parent: rc.Parent, Child: selection.Specific(code)})
		}
	}

	var modelEntries []selection.ModelEntry
	var storageEntries []selection.StorageEntry
	for _, dc := range p.Devices {
		if dc.AnyModel {
			modelEntries = append(modelEntries, selection.ModelEntry{Parent: dc.Manufacturer, Child: selection.All[int64]()})
			continue
		}
		for _, mc := range dc.Models {
			modelEntries = append(modelEntries, selection.ModelEntry{Parent: dc.Manufacturer, Child: selection.Specific(mc.Model)})
			if mc.AnyStorage {
				continue
			}
			for _, st := range mc.Storages {
				storageEntries = append(storageEntries, selection.StorageEntry{Parent: mc.Model, Child: selection.Specific(st)})
			}
		}
	}

	return selection.FromEntries(regions, modelEntries, storageEntries),
		slices.Clone(p.Carriers),
		slices.Clone(p.OfferTypes)
}
