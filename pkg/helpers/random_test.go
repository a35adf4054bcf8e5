package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickIndex_StaysInHalfOpenRange(t *testing.T) {
	seen := make(map[int]int)
	for i := 0; i < 10000; i++ {
		n, err := PickIndex(0, 5)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 5)
		seen[n]++
	}
	// 10k draws over 5 values: every value shows up
	for v := 0; v < 5; v++ {
		assert.Positive(t, seen[v], "value %d never picked", v)
	}
}

func TestPickIndex_NonZeroMin(t *testing.T) {
	for i := 0; i < 1000; i++ {
		n, err := PickIndex(1, 3)
		require.NoError(t, err)
		assert.Contains(t, []int{1, 2}, n)
	}
}

func TestPickIndex_SingleValue(t *testing.T) {
	n, err := PickIndex(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPickIndex_DegenerateRangeYieldsMin(t *testing.T) {
	for _, min := range []int{0, 1, 7} {
		n, err := PickIndex(min, min)
		require.NoError(t, err)
		assert.Equal(t, min, n)
	}
}

func TestPickIndex_EmptyRange(t *testing.T) {
	_, err := PickIndex(3, 0)
	assert.ErrorIs(t, err, ErrEmptyRange)

	_, err = PickIndex(1, -1)
	assert.ErrorIs(t, err, ErrEmptyRange)
}
