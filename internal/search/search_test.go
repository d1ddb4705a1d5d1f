package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dealer-admin-console/internal/model"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		raw       string
		term      string
		modifiers []string
	}{
		{"plain term", "acme", "acme", nil},
		{"blank", "   ", "", nil},
		{"negation", "!:acme", "acme", []string{"!"}},
		{"case sensitive", "^:Acme", "Acme", []string{"^"}},
		{"stacked modifiers", "!^:acme", "acme", []string{"!", "^"}},
		{"strict match", `"Acme Corp"`, "Acme Corp", []string{"strict-match"}},
		{"strict with escapes", `"Acme \"HQ\""`, `Acme \"HQ\"`, []string{"strict-match"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parsed := Parse(tc.raw)
			require.Equal(t, tc.term, parsed.Term)
			require.Equal(t, tc.modifiers, parsed.Modifiers)
		})
	}
}

func TestHasModifiers(t *testing.T) {
	t.Parallel()

	require.False(t, HasModifiers("acme"))
	require.False(t, HasModifiers(""))
	require.True(t, HasModifiers("!:acme"))
	require.True(t, HasModifiers(`"acme"`))
}

func TestApply(t *testing.T) {
	t.Parallel()

	records := []model.Record{
		{"organizationName": "Acme", "city": map[string]any{"city": "Berlin"}},
		{"organizationName": "acme east"},
		{"organizationName": "Bolt", "tags": []any{"acme partner"}},
		{"organizationName": "Vendor"},
	}

	t.Run("no term passes everything", func(t *testing.T) {
		require.Len(t, Apply(records, ""), 4)
	})

	t.Run("plain term is substring containment", func(t *testing.T) {
		got := Apply(records, "acme")
		require.Len(t, got, 3)
	})

	t.Run("negation inverts", func(t *testing.T) {
		got := Apply(records, "!:acme")
		require.Len(t, got, 1)
		require.Equal(t, "Vendor", got[0]["organizationName"])
	})

	t.Run("case sensitive", func(t *testing.T) {
		got := Apply(records, "^:Acme")
		require.Len(t, got, 1)
		require.Equal(t, "Acme", got[0]["organizationName"])
	})

	t.Run("strict match demands the whole value", func(t *testing.T) {
		got := Apply(records, `"acme"`)
		require.Len(t, got, 1)
		require.Equal(t, "Acme", got[0]["organizationName"])
	})

	t.Run("nested values participate", func(t *testing.T) {
		got := Apply(records, "berlin")
		require.Len(t, got, 1)
	})

	t.Run("non-string leaves never match", func(t *testing.T) {
		numeric := []model.Record{{"orgId": float64(42)}}
		require.Empty(t, Apply(numeric, "42"))
	})
}
