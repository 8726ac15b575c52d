package random

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededIsReproducible(t *testing.T) {
	a, b := NewSeeded(42), NewSeeded(42)
	for range 50 {
		require.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestFixedClamps(t *testing.T) {
	assert.Equal(t, 2, Fixed(2).IntN(5))
	assert.Equal(t, 4, Fixed(9).IntN(5))
	assert.Equal(t, 0, Fixed(-1).IntN(5))
}

func TestPickStaysInRange(t *testing.T) {
	items := []string{"a", "b", "c"}
	src := Default()
	for range 100 {
		assert.Contains(t, items, Pick(src, items))
	}
	assert.Equal(t, "c", Pick(Fixed(2), items))
}

func TestShuffleIsPermutation(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	Shuffle(NewSeeded(7), items)

	sorted := slices.Clone(items)
	slices.Sort(sorted)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, sorted)
}
