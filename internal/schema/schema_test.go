package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

func TestInsertionOrder(t *testing.T) {
	order, err := InsertionOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"LFA1", "MARA", "VENDOR_CONTRACTS", "EKKO", "EKPO", "EKBE"}, order)
	assert.Equal(t, Names(), order)
}

func TestDependencyGraphCycle(t *testing.T) {
	g := NewDependencyGraph()
	g.AddTable("A", "B")
	g.AddTable("B", "C")
	g.AddTable("C", "A")
	_, err := g.BuildInsertionOrder()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular dependency")
}

func TestDependencyGraphSelfReferenceAndUnknown(t *testing.T) {
	g := NewDependencyGraph()
	g.AddTable("child", "parent")
	g.AddTable("parent", "parent")
	order, err := g.BuildInsertionOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"parent", "child"}, order)
	assert.Equal(t, order, g.GetOrder())

	g.AddTable("orphan", "missing")
	_, err = g.BuildInsertionOrder()
	assert.Error(t, err)
}

// Every generated column must have a contract entry, and vice versa.
func TestRegistryMatchesGeneratedColumns(t *testing.T) {
	cases := map[string][]string{
		types.TableVendors:   types.VendorColumns,
		types.TableMaterials: types.MaterialColumns,
		types.TableContracts: types.ContractColumns,
		types.TableHeaders:   types.HeaderColumns,
		types.TableItems:     types.ItemColumns,
		types.TableHistory:   types.HistoryColumns,
	}
	for name, cols := range cases {
		tbl, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, cols, tbl.FieldNames(), name)
		for _, id := range tbl.IDFields {
			_, ok := tbl.Field(id)
			assert.True(t, ok, "%s id field %s", name, id)
		}
	}
}

func TestFieldConstraints(t *testing.T) {
	lifnr, ok := MustLookup(types.TableVendors).Field("LIFNR")
	require.True(t, ok)
	assert.True(t, lifnr.HasLength())
	assert.True(t, lifnr.HasFormat())
	assert.True(t, lifnr.Format.MatchString("V0000001"))
	assert.False(t, lifnr.Format.MatchString("V001"))

	bukrs, _ := MustLookup(types.TableHeaders).Field("BUKRS")
	assert.False(t, bukrs.HasLength())
	assert.True(t, bukrs.TypeMatches(int64(1000)))
	assert.False(t, bukrs.TypeMatches("1000"))

	menge, _ := MustLookup(types.TableItems).Field("MENGE")
	assert.True(t, menge.TypeMatches(int64(3)))
	assert.True(t, menge.TypeMatches(3.5))
	require.NotNil(t, menge.Min)
	assert.Equal(t, 0.0, *menge.Min)

	aedat, _ := MustLookup(types.TableHeaders).Field("AEDAT")
	assert.True(t, aedat.HasFormat())
	assert.True(t, aedat.Format.MatchString(Text(time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC))))
}

func TestText(t *testing.T) {
	assert.Equal(t, "12", Text(int64(12)))
	assert.Equal(t, "1.5", Text(1.5))
	assert.Equal(t, "true", Text(true))
	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "2024-01-31", Text(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)))
}

func TestMustLookupPanics(t *testing.T) {
	assert.Panics(t, func() { MustLookup("NOPE") })
}
