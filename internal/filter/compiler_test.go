package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/offerfinder/internal/models"
	"github.com/GTDGit/offerfinder/internal/selection"
)

func TestCompile_EmptySelectionMatchesAll(t *testing.T) {
	p := Compile(selection.New(), nil, nil)
	assert.True(t, p.IsEmpty())
	assert.Equal(t, `{}`, string(p.Canonical()))

	assert.True(t, Compile(nil, nil, nil).IsEmpty())
}

func TestCompile_ExampleScenario(t *testing.T) {
	s := selection.New()
	s.ToggleRegion("11", selection.All[string]())
	s.ToggleModel(3, selection.Specific[int64](5))
	s.ToggleStorage(5, selection.All[int64]())

	p := Compile(s, []int64{1}, []models.OfferType{models.OfferTypeMNP})

	assert.Equal(t, Predicate{
		Regions:    []RegionClause{{Parent: "11", AnyChild: true}},
		Devices:    []DeviceClause{{Manufacturer: 3, Models: []ModelClause{{Model: 5, AnyStorage: true}}}},
		Carriers:   []int64{1},
		OfferTypes: []models.OfferType{models.OfferTypeMNP},
	}, p)
}

func TestCompile_ExplicitRegionCodesSortedAndDeduplicated(t *testing.T) {
	s := selection.FromEntries([]selection.RegionEntry{
		{Parent: "26", Child: selection.Specific("2603")},
		{Parent: "11", Child: selection.Specific("1105")},
		{Parent: "26", Child: selection.Specific("2601")},
		{Parent: "11", Child: selection.Specific("1101")},
	}, nil, nil)

	p := Compile(s, nil, nil)

	assert.Equal(t, []RegionClause{
		{Parent: "11", Codes: []string{"1101", "1105"}},
		{Parent: "26", Codes: []string{"2601", "2603"}},
	}, p.Regions)
}

func TestCompile_WildcardWinsOverSpecificSiblings(t *testing.T) {
	s := selection.FromEntries(
		[]selection.RegionEntry{
			{Parent: "11", Child: selection.Specific("1101")},
			{Parent: "11", Child: selection.All[string]()},
		},
		[]selection.ModelEntry{
			{Parent: 3, Child: selection.Specific[int64](5)},
			{Parent: 3, Child: selection.All[int64]()},
		},
		[]selection.StorageEntry{{Parent: 5, Child: selection.Specific[int64](2)}},
	)

	p := Compile(s, nil, nil)

	assert.Equal(t, []RegionClause{{Parent: "11", AnyChild: true}}, p.Regions)
	assert.Equal(t, []DeviceClause{{Manufacturer: 3, AnyModel: true}}, p.Devices)
}

func TestCompile_DropsOrphanedStorages(t *testing.T) {
	s := selection.FromEntries(nil,
		[]selection.ModelEntry{{Parent: 3, Child: selection.Specific[int64](5)}},
		[]selection.StorageEntry{
			{Parent: 5, Child: selection.Specific[int64](2)},
			{Parent: 77, Child: selection.Specific[int64](4)}, // model 77 not selected
		},
	)

	p := Compile(s, nil, nil)

	require.Len(t, p.Devices, 1)
	assert.Equal(t, []ModelClause{{Model: 5, Storages: []int64{2}}}, p.Devices[0].Models)
}

func TestCompile_StorageOnlySelectionIsNoDeviceFilter(t *testing.T) {
	s := selection.FromEntries(nil, nil,
		[]selection.StorageEntry{{Parent: 5, Child: selection.Specific[int64](2)}})

	assert.Empty(t, Compile(s, nil, nil).Devices)
}

func TestCompile_UnresolvableEntriesStillConstrain(t *testing.T) {
	s := selection.FromEntries(
		[]selection.RegionEntry{
			{Parent: "11", Child: selection.Specific("2601")}, // not under 11
			{Parent: "", Child: selection.All[string]()},
		},
		[]selection.ModelEntry{
			{Parent: 0, Child: selection.All[int64]()},
			{Parent: 0, Child: selection.Specific[int64](999)},
		},
		nil,
	)

	p := Compile(s, nil, nil)

	assert.False(t, p.IsEmpty())
	assert.Equal(t, []RegionClause{{Parent: "11", Codes: []string{"2601"}}}, p.Regions)
	assert.Equal(t, []DeviceClause{{Manufacturer: 0, AnyModel: true}}, p.Devices)

	s = selection.FromEntries(nil, []selection.ModelEntry{{Parent: 0, Child: selection.Specific[int64](999)}}, nil)
	assert.Equal(t, []DeviceClause{{Manufacturer: 0, Models: []ModelClause{{Model: 999, AnyStorage: true}}}}, Compile(s, nil, nil).Devices)
}

func TestCompile_CarriersAndOfferTypes(t *testing.T) {
	p := Compile(nil,
		[]int64{3, 1, 3, 0, -2},
		[]models.OfferType{"CHG", "MNP", "CHG", "XYZ"},
	)

	assert.Equal(t, []int64{1, 3}, p.Carriers)
	assert.Equal(t, []models.OfferType{models.OfferTypeCHG, models.OfferTypeMNP}, p.OfferTypes)
}

func TestCompile_OrderIndependent(t *testing.T) {
	a := selection.New()
	a.ToggleRegion("11", selection.Specific("1101"))
	a.ToggleRegion("26", selection.All[string]())
	a.ToggleModel(3, selection.Specific[int64](5))
	a.ToggleModel(4, selection.Specific[int64](8))
	a.ToggleStorage(5, selection.Specific[int64](2))
	a.ToggleStorage(5, selection.Specific[int64](1))

	b := selection.New()
	b.ToggleModel(4, selection.Specific[int64](8))
	b.ToggleModel(3, selection.Specific[int64](5))
	b.ToggleStorage(5, selection.Specific[int64](1))
	b.ToggleStorage(5, selection.Specific[int64](2))
	b.ToggleRegion("26", selection.All[string]())
	b.ToggleRegion("11", selection.Specific("1101"))

	pa := Compile(a, []int64{2, 1}, []models.OfferType{"MNP", "CHG"})
	pb := Compile(b, []int64{1, 2}, []models.OfferType{"CHG", "MNP"})

	assert.Equal(t, pa.Canonical(), pb.Canonical())
	assert.Equal(t, pa.Key(), pb.Key())
}

func TestCompile_RoundTripIsIdempotent(t *testing.T) {
	selections := []*selection.Set{
		selection.New(),
		selection.FromEntries(
			[]selection.RegionEntry{
				{Parent: "11", Child: selection.All[string]()},
				{Parent: "26", Child: selection.Specific("2601")},
				{Parent: "26", Child: selection.Specific("2609")},
			},
			[]selection.ModelEntry{
				{Parent: 3, Child: selection.Specific[int64](5)},
				{Parent: 3, Child: selection.Specific[int64](6)},
				{Parent: 4, Child: selection.All[int64]()},
			},
			[]selection.StorageEntry{
				{Parent: 5, Child: selection.Specific[int64](2)},
				{Parent: 6, Child: selection.All[int64]()},
				{Parent: 9, Child: selection.Specific[int64](1)},
			},
		),
	}

	for _, s := range selections {
		p := Compile(s, []int64{2}, []models.OfferType{models.OfferTypeCHG})
		again := Compile(Decompile(p))
		assert.Equal(t, p, again)
		assert.Equal(t, string(p.Canonical()), string(again.Canonical()))
	}
}

func TestPredicate_KeyDiffersForDifferentFilters(t *testing.T) {
	a := Compile(nil, []int64{1}, nil)
	b := Compile(nil, []int64{2}, nil)
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Len(t, a.Key(), 64)
}
