package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "3", Key(float64(3)))
	require.Equal(t, "3.5", Key(float64(3.5)))
	require.Equal(t, "3", Key("3"))
	require.Equal(t, "3", Key(json.Number("3")))
	require.Equal(t, "3", Key(3))
	require.Equal(t, "true", Key(true))
	require.Equal(t, "", Key(nil))
}

func TestLooseEqual(t *testing.T) {
	t.Parallel()

	require.True(t, LooseEqual(float64(3), "3"))
	require.True(t, LooseEqual(json.Number("3"), 3))
	require.True(t, LooseEqual("3.0", "3"))
	require.True(t, LooseEqual(nil, nil))

	require.False(t, LooseEqual(float64(3), "4"))
	require.False(t, LooseEqual(nil, "3"))
	require.False(t, LooseEqual("abc", "abd"))
}

func TestRecordIsActive(t *testing.T) {
	t.Parallel()

	require.True(t, Record{"isActive": true}.IsActive())
	require.False(t, Record{"isActive": false}.IsActive())
	require.False(t, Record{}.IsActive())
	require.False(t, Record{"isActive": "true"}.IsActive())

	rec := Record{"isActive": true}
	rec.SetActive(false)
	require.False(t, rec.IsActive())

	clone := rec.Clone()
	clone.SetActive(true)
	require.False(t, rec.IsActive())
}
