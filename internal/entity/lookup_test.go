package entity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dealer-admin-console/internal/model"
)

func TestGetLookup(t *testing.T) {
	t.Parallel()

	binding, ok := GetLookup("states")
	require.True(t, ok)
	require.Equal(t, "countryId", binding.DependsOnField)

	// Phone number types nest under a differently named array.
	phones, ok := GetLookup("phone-number-types")
	require.True(t, ok)
	require.Equal(t, "phoneNumbers", phones.PluralKey)

	_, ok = GetLookup("nope")
	require.False(t, ok)
}

func TestLookupOptions(t *testing.T) {
	t.Parallel()

	binding, ok := GetLookup("states")
	require.True(t, ok)

	options := binding.Options([]model.Record{
		{"countryStateId": float64(10), "countryState": "Bavaria", "countryId": float64(1)},
		{"countryState": "Orphan"},
		{"countryStateId": float64(11), "countryState": "Hesse", "countryId": float64(1)},
	})

	require.Len(t, options, 2)
	require.Equal(t, "Bavaria", options[0].Value)
	require.Equal(t, float64(1), options[0].DependsOn)
	require.Equal(t, float64(10), options[0].Key)
}

func TestDescriptorSortField(t *testing.T) {
	t.Parallel()

	desc, ok := Get("organizations")
	require.True(t, ok)

	require.Equal(t, "organizationName", desc.SortField(0))
	require.Equal(t, "industryType", desc.SortField(3))

	// Unmapped indexes fall back to the identity field.
	require.Equal(t, "orgId", desc.SortField(9))
	require.Equal(t, "orgId", desc.SortField(-2))
}

func TestDescriptorTitle(t *testing.T) {
	t.Parallel()

	desc, ok := Get("organizations")
	require.True(t, ok)

	require.Equal(t, "Acme", desc.Title(model.Record{"organizationName": "Acme"}))
	require.Equal(t, "7", desc.Title(model.Record{"orgId": float64(7)}))
}
