package selection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleRegion_WildcardReplacesSpecificSiblings(t *testing.T) {
	s := New()
	s.ToggleRegion("11", Specific("1101"))
	s.ToggleRegion("11", Specific("1102"))
	s.ToggleRegion("26", Specific("2601"))

	s.ToggleRegion("11", All[string]())

	assert.Equal(t, []RegionEntry{
		{Parent: "26", Child: Specific("2601")},
		{Parent: "11", Child: All[string]()},
	}, s.Regions())
}

func TestToggleRegion_SpecificClearsWildcard(t *testing.T) {
	s := New()
	s.ToggleRegion("11", All[string]())
	s.ToggleRegion("11", Specific("1103"))

	assert.Equal(t, []RegionEntry{{Parent: "11", Child: Specific("1103")}}, s.Regions())
	assert.False(t, s.HasRegion("11", All[string]()))
}

func TestToggleRegion_RemovingLastChildDropsParent(t *testing.T) {
	s := New()
	s.ToggleRegion("11", Specific("1101"))
	s.ToggleRegion("11", Specific("1101"))

	assert.Empty(t, s.Regions())
	assert.True(t, s.IsEmpty())
}

func TestToggleRegion_WildcardTwiceClearsParent(t *testing.T) {
	s := New()
	s.ToggleRegion("11", All[string]())
	s.ToggleRegion("11", All[string]())

	assert.Empty(t, s.Regions())
}

func TestToggleRegion_IgnoresZeroSelector(t *testing.T) {
	s := New()
	s.ToggleRegion("11", Selector[string]{})
	assert.True(t, s.IsEmpty())
}

func TestToggleModel_WildcardDropsStoragesOfReplacedModels(t *testing.T) {
	s := New()
	s.ToggleModel(1, Specific[int64](5))
	require.True(t, s.ToggleStorage(5, Specific[int64](2)))
	s.ToggleModel(2, Specific[int64](9))
	require.True(t, s.ToggleStorage(9, All[int64]()))

	s.ToggleModel(1, All[int64]())

	assert.Equal(t, []ModelEntry{
		{Parent: 2, Child: Specific[int64](9)},
		{Parent: 1, Child: All[int64]()},
	}, s.Models())
	assert.Equal(t, []StorageEntry{{Parent: 9, Child: All[int64]()}}, s.Storages())
}

func TestToggleModel_DeselectDropsStorages(t *testing.T) {
	s := New()
	s.ToggleModel(1, Specific[int64](5))
	s.ToggleStorage(5, Specific[int64](2))
	s.ToggleStorage(5, Specific[int64](3))

	s.ToggleModel(1, Specific[int64](5))

	assert.Empty(t, s.Models())
	assert.Empty(t, s.Storages())
}

func TestToggleStorage_RequiresSelectedModel(t *testing.T) {
	s := New()
	assert.False(t, s.ToggleStorage(5, Specific[int64](2)))

	s.ToggleModel(1, All[int64]())
	assert.False(t, s.ToggleStorage(5, Specific[int64](2)), "wildcard manufacturer does not select model 5")
	assert.Empty(t, s.Storages())
}

func TestToggleStorage_WildcardExclusivity(t *testing.T) {
	s := New()
	s.ToggleModel(1, Specific[int64](5))
	s.ToggleStorage(5, Specific[int64](2))
	s.ToggleStorage(5, Specific[int64](3))

	s.ToggleStorage(5, All[int64]())
	assert.Equal(t, []StorageEntry{{Parent: 5, Child: All[int64]()}}, s.Storages())

	s.ToggleStorage(5, Specific[int64](3))
	assert.Equal(t, []StorageEntry{{Parent: 5, Child: Specific[int64](3)}}, s.Storages())
}

func TestFromEntries_DropsDuplicatesAndInvalid(t *testing.T) {
	s := FromEntries(
		[]RegionEntry{
			{Parent: "11", Child: Specific("1101")},
			{Parent: "11", Child: Specific("1101")},
			{Parent: "11", Child: Selector[string]{}},
		},
		nil,
		[]StorageEntry{{Parent: 5, Child: Specific[int64](2)}},
	)

	assert.Len(t, s.Regions(), 1)
	// orphaned storage is kept for the compiler to resolve
	assert.Len(t, s.Storages(), 1)
}

func TestClone_IsIndependent(t *testing.T) {
	s := New()
	s.ToggleRegion("11", Specific("1101"))
	c := s.Clone()
	c.ToggleRegion("11", Specific("1102"))

	assert.Len(t, s.Regions(), 1)
	assert.Len(t, c.Regions(), 2)

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.False(t, s.IsEmpty())
}

func TestSelector_JSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Selector[int64]
	}{
		{"wildcard", `"ALL"`, All[int64]()},
		{"specific", `42`, Specific[int64](42)},
		{"null", `null`, Selector[int64]{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Selector[int64]
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)

			out, err := json.Marshal(got)
			require.NoError(t, err)
			assert.JSONEq(t, tt.in, string(out))
		})
	}

	var bad Selector[int64]
	assert.Error(t, json.Unmarshal([]byte(`"many"`), &bad))
}

func TestSelector_ID(t *testing.T) {
	id, ok := Specific("1101").ID()
	assert.True(t, ok)
	assert.Equal(t, "1101", id)

	_, ok = All[string]().ID()
	assert.False(t, ok)
	assert.Equal(t, "ALL", All[string]().String())
}
