package named_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azctl/azctl/internal/named"
)

type entry struct {
	Name  string
	Value int
}

func entryName(e entry) string { return e.Name }

func TestFind_CaseInsensitive(t *testing.T) {
	t.Parallel()

	items := []entry{
		{Name: "policy1", Value: 1},
		{Name: "Policy2", Value: 2},
	}

	got, ok := named.Find(items, "POLICY2", entryName)
	require.True(t, ok)
	assert.Equal(t, 2, got.Value)
}

func TestFind_FirstMatchWins(t *testing.T) {
	t.Parallel()

	items := []entry{
		{Name: "Route", Value: 1},
		{Name: "route", Value: 2},
	}

	got, ok := named.Find(items, "route", entryName)
	require.True(t, ok)
	assert.Equal(t, 1, got.Value)
}

func TestFind_Missing(t *testing.T) {
	t.Parallel()

	items := []entry{{Name: "policy1"}}

	_, ok := named.Find(items, "policy2", entryName)
	assert.False(t, ok)
}

func TestExists(t *testing.T) {
	t.Parallel()

	items := []entry{{Name: "Policy1"}}

	assert.True(t, named.Exists(items, "policy1", entryName))
	assert.False(t, named.Exists(items, "policy2", entryName))
}

func TestRemove_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	items := []entry{
		{Name: "a"},
		{Name: "B"},
		{Name: "c"},
	}

	got := named.Remove(items, "b", entryName)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "c", got[1].Name)

	// Original slice is untouched.
	assert.Len(t, items, 3)
	assert.Equal(t, "B", items[1].Name)
}

func TestRemove_Missing(t *testing.T) {
	t.Parallel()

	items := []entry{{Name: "a"}}

	got := named.Remove(items, "x", entryName)
	assert.Len(t, got, 1)
}
