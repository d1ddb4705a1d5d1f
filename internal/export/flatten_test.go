package export

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dealer-admin-console/internal/model"
)

func TestFlatten(t *testing.T) {
	t.Parallel()

	t.Run("drops identity keys", func(t *testing.T) {
		flat := Flatten(model.Record{
			"orgId":            float64(1),
			"organizationName": "Acme",
			"orgTypeId":        float64(3),
		})
		require.Equal(t, model.Record{"organizationName": "Acme"}, flat)
	})

	t.Run("merges nested objects", func(t *testing.T) {
		flat := Flatten(model.Record{
			"organizationName": "Acme",
			"organizationType": map[string]any{"orgType": "Dealer"},
		})
		require.Equal(t, "Dealer", flat["orgType"])
		require.NotContains(t, flat, "organizationType")
	})

	t.Run("object array elements merge", func(t *testing.T) {
		flat := Flatten(model.Record{
			"addresses": []any{
				map[string]any{"addressLine1": "Main St 1"},
			},
		})
		require.Equal(t, "Main St 1", flat["addressLine1"])
	})

	t.Run("scalar array elements keep their index", func(t *testing.T) {
		flat := Flatten(model.Record{
			"tags": []any{"dealer", "priority"},
		})
		require.Equal(t, "dealer", flat["tags_0"])
		require.Equal(t, "priority", flat["tags_1"])
	})

	t.Run("nested dates reformatted", func(t *testing.T) {
		flat := Flatten(model.Record{
			"organizationType": map[string]any{
				"createdAt": "2024-03-15T10:30:00Z",
			},
		})
		require.Equal(t, "15-03-2024", flat["createdAt"])
	})

	t.Run("top-level date strings untouched", func(t *testing.T) {
		flat := Flatten(model.Record{
			"registeredOn": "2024-03-15T10:30:00Z",
		})
		require.Equal(t, "2024-03-15T10:30:00Z", flat["registeredOn"])
	})

	t.Run("non-date strings pass through", func(t *testing.T) {
		flat := Flatten(model.Record{
			"organizationType": map[string]any{"orgType": "Dealer"},
		})
		require.Equal(t, "Dealer", flat["orgType"])
	})
}
