// Package selection holds a buyer's hierarchical filter choices.
//
// Every choice is a (parent, child) pair where the child is either a specific
// id or the wildcard for that parent. Toggle operations keep a wildcard and its
// specific siblings mutually exclusive. A Set is owned by one caller and is not
// safe for concurrent mutation.
package selection

// Entry is one (parent, child) choice.
type Entry[P, K comparable] struct {
	Parent P           `json:"parent"`
	Child  Selector[K] `json:"child"`
}

// RegionEntry selects a region under a parent region code.
type RegionEntry = Entry[string, string]

// ModelEntry selects a model (Child) under a manufacturer (Parent).
type ModelEntry = Entry[int64, int64]

// StorageEntry selects a storage variant (Child) under a model (Parent).
type StorageEntry = Entry[int64, int64]

type entries[P, K comparable] []Entry[P, K]

func (es entries[P, K]) indexOf(parent P, child Selector[K]) int {
	for i, e := range es {
		if e.Parent == parent && e.Child == child {
			return i
		}
	}
	return -1
}

// without returns es minus every entry under parent, plus the removed entries.
func (es entries[P, K]) without(parent P) (entries[P, K], entries[P, K]) {
	kept := es[:0:0]
	var removed entries[P, K]
	for _, e := range es {
		if e.Parent == parent {
			removed = append(removed, e)
			continue
		}
		kept = append(kept, e)
	}
	return kept, removed
}

// toggle applies the wildcard/specific exclusion rule and returns the new
// entries together with the entries that were dropped.
func (es entries[P, K]) toggle(parent P, child Selector[K]) (entries[P, K], entries[P, K]) {
	if !child.Valid() {
		return es, nil
	}
	if child.IsAll() {
		hadWildcard := es.indexOf(parent, child) >= 0
		kept, removed := es.without(parent)
		if hadWildcard {
			return kept, removed
		}
		return append(kept, Entry[P, K]{Parent: parent, Child: child}), removed
	}

	var removed entries[P, K]
	if i := es.indexOf(parent, All[K]()); i >= 0 {
		removed = append(removed, es[i])
		es = append(es[:i:i], es[i+1:]...)
	}
	if i := es.indexOf(parent, child); i >= 0 {
		removed = append(removed, es[i])
		return append(es[:i:i], es[i+1:]...), removed
	}
	return append(es, Entry[P, K]{Parent: parent, Child: child}), removed
}

func (es entries[P, K]) clone() []Entry[P, K] {
	if len(es) == 0 {
		return nil
	}
	out := make([]Entry[P, K], len(es))
	copy(out, es)
	return out
}

// Set is the in-memory selection state of one filter panel.
type Set struct {
	regions  entries[string, string]
	models   entries[int64, int64]
	storages entries[int64, int64]
}

// New returns an empty selection.
func New() *Set {
	return &Set{}
}

// FromEntries builds a Set from already-collected entries, keeping their order
// and dropping exact duplicates. It does not enforce the wildcard or orphan
// invariants; callers feeding untrusted input rely on the filter compiler to
// resolve those.
func FromEntries(regions []RegionEntry, models []ModelEntry, storages []StorageEntry) *Set {
	s := New()
	s.regions = appendUnique(s.regions, regions)
	s.models = appendUnique(s.models, models)
	s.storages = appendUnique(s.storages, storages)
	return s
}

func appendUnique[P, K comparable](dst entries[P, K], src []Entry[P, K]) entries[P, K] {
	for _, e := range src {
		if !e.Child.Valid() || dst.indexOf(e.Parent, e.Child) >= 0 {
			continue
		}
		dst = append(dst, e)
	}
	return dst
}

// ToggleRegion toggles child under parent. Selecting the wildcard replaces all
// specific children of parent; selecting a specific child clears the wildcard.
// Toggling an already selected wildcard clears the parent.
func (s *Set) ToggleRegion(parent string, child Selector[string]) {
	s.regions, _ = s.regions.toggle(parent, child)
}

// ToggleModel toggles model under manufacturer with the same exclusion rule as
// ToggleRegion. Storage choices of every model that leaves the set are
// discarded with it.
func (s *Set) ToggleModel(manufacturer int64, model Selector[int64]) {
	var removed entries[int64, int64]
	s.models, removed = s.models.toggle(manufacturer, model)
	for _, e := range removed {
		if id, ok := e.Child.ID(); ok && !s.modelSelected(id) {
			s.storages, _ = s.storages.without(id)
		}
	}
}

// ToggleStorage toggles storage under model. It is a no-op returning false
// when model is not currently selected as a specific model.
func (s *Set) ToggleStorage(model int64, storage Selector[int64]) bool {
	if !s.modelSelected(model) || !storage.Valid() {
		return false
	}
	s.storages, _ = s.storages.toggle(model, storage)
	return true
}

func (s *Set) modelSelected(model int64) bool {
	for _, e := range s.models {
		if id, ok := e.Child.ID(); ok && id == model {
			return true
		}
	}
	return false
}

// HasRegion reports whether the exact (parent, child) pair is selected.
func (s *Set) HasRegion(parent string, child Selector[string]) bool {
	return s.regions.indexOf(parent, child) >= 0
}

// HasModel reports whether the exact (manufacturer, model) pair is selected.
func (s *Set) HasModel(manufacturer int64, model Selector[int64]) bool {
	return s.models.indexOf(manufacturer, model) >= 0
}

// HasStorage reports whether the exact (model, storage) pair is selected.
func (s *Set) HasStorage(model int64, storage Selector[int64]) bool {
	return s.storages.indexOf(model, storage) >= 0
}

// Regions returns a copy of the region entries in selection order.
func (s *Set) Regions() []RegionEntry { return s.regions.clone() }

// Models returns a copy of the model entries in selection order.
func (s *Set) Models() []ModelEntry { return s.models.clone() }

// Storages returns a copy of the storage entries in selection order.
func (s *Set) Storages() []StorageEntry { return s.storages.clone() }

// IsEmpty reports whether nothing is selected.
func (s *Set) IsEmpty() bool {
	return len(s.regions) == 0 && len(s.models) == 0 && len(s.storages) == 0
}

// Clear drops every choice.
func (s *Set) Clear() {
	s.regions, s.models, s.storages = nil, nil, nil
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	return &Set{
		regions:  s.regions.clone(),
		models:   s.models.clone(),
		storages: s.storages.clone(),
	}
}
