package schema

import (
	"errors"
	"testing"

	"neocc-backend/lib/neotable"

	"github.com/stretchr/testify/require"
)

func TestLookupKnownCategories(t *testing.T) {
	registry := NewRegistry()

	for _, category := range []Category{
		NEAList, RiskList, RiskListSpecial,
		CloseApproachUpcoming, CloseApproachRecent,
		PriorityList, PriorityListFaint,
		PhysicalProperties, Summary, CloseApproaches,
		Impacts, OrbitProperties, Observations, Ephemerides,
	} {
		spec, err := registry.Lookup(category)
		require.NoError(t, err, "category %s", category)
		require.Equal(t, category, spec.Category)
		require.NotEmpty(t, spec.Columns)
	}
}

func TestLookupUnknownCategory(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Lookup("asteroid_gossip")
	var uerr *UnknownCategoryError
	require.True(t, errors.As(err, &uerr))
	require.Equal(t, Category("asteroid_gossip"), uerr.Category)
}

func TestCategoriesAreSorted(t *testing.T) {
	registry := NewRegistry()

	categories := registry.Categories()
	require.NotEmpty(t, categories)
	for i := 1; i < len(categories); i++ {
		require.Less(t, string(categories[i-1]), string(categories[i]))
	}
}

func TestTableColumns(t *testing.T) {
	registry := NewRegistry()

	spec, err := registry.Lookup(RiskList)
	require.NoError(t, err)

	cols := spec.TableColumns()
	require.Len(t, cols, len(spec.Columns))
	require.Equal(t, "Diameter", cols[1].Name)
	require.Equal(t, neotable.KindFloat, cols[1].Kind)
	require.Equal(t, "m", cols[1].Unit)
}
