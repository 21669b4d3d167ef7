package series

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// column flattens a scalar-item rolling array, NaN mapped to -1 for comparison.
func column(t *testing.T, ra *RollingArray) []float64 {
	t.Helper()
	out := make([]float64, ra.Len())
	for i := range out {
		item, err := ra.At(i)
		require.NoError(t, err)
		out[i] = item[0]
		if math.IsNaN(out[i]) {
			out[i] = -1
		}
	}
	return out
}

func TestRollingArray_ConsecutiveInsert(t *testing.T) {
	ra, err := NewRollingArray([]int{3}, math.NaN())
	require.NoError(t, err)

	steps := []struct {
		k        int
		val      float64
		expected []float64
		filled   int
	}{
		{0, 1, []float64{-1, -1, 1}, 1},
		{1, 2, []float64{-1, 1, 2}, 2},
		{2, 3, []float64{1, 2, 3}, 3},
		{3, 4, []float64{2, 3, 4}, 3},
		{4, 5, []float64{3, 4, 5}, 3},
	}

	for _, s := range steps {
		require.NoError(t, ra.Insert(s.k, []float64{s.val}))
		assert.Equal(t, s.expected, column(t, ra), "after k=%d", s.k)
		assert.Equal(t, s.filled, ra.Filled(), "after k=%d", s.k)
	}

	oldest, newest, err := ra.Span()
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, oldest)
	assert.Equal(t, []float64{5}, newest)
}

func TestRollingArray_RepeatedIndexShiftsByOne(t *testing.T) {
	ra, err := NewRollingArray([]int{3}, math.NaN())
	require.NoError(t, err)

	// Forecast then analysis at the same k.
	require.NoError(t, ra.Insert(1, []float64{10}))
	require.NoError(t, ra.Insert(1, []float64{11}))
	assert.Equal(t, []float64{-1, 10, 11}, column(t, ra))
	assert.Equal(t, 2, ra.Filled())
}

func TestRollingArray_SkippedIndex(t *testing.T) {
	ra, err := NewRollingArray([]int{5}, math.NaN())
	require.NoError(t, err)

	require.NoError(t, ra.Insert(1, []float64{1}))
	require.NoError(t, ra.Insert(3, []float64{3}))
	assert.Equal(t, []float64{-1, -1, 1, -1, 3}, column(t, ra))
	assert.Equal(t, 3, ra.Filled())

	leftmost, err := ra.Leftmost()
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, leftmost)

	// A jump past the capacity clears everything but the new entry.
	require.NoError(t, ra.Insert(20, []float64{20}))
	assert.Equal(t, []float64{-1, -1, -1, -1, 20}, column(t, ra))
	assert.Equal(t, 5, ra.Filled())
}

func TestRollingArray_FillValue(t *testing.T) {
	ra, err := NewRollingArray([]int{3}, 0)
	require.NoError(t, err)

	item, err := ra.At(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, item)

	_, err = ra.Leftmost()
	assert.ErrorIs(t, err, ErrEmptyBuffer)

	_, _, err = ra.Span()
	assert.ErrorIs(t, err, ErrEmptyBuffer)
}

func TestRollingArray_SetAlwaysFails(t *testing.T) {
	ra, err := NewRollingArray([]int{4, 2}, math.NaN())
	require.NoError(t, err)

	cases := []struct {
		i    int
		item []float64
	}{
		{0, []float64{1, 2}},
		{3, []float64{1}},
		{-1, nil},
		{100, []float64{1, 2, 3}},
	}
	for _, c := range cases {
		assert.ErrorIs(t, ra.Set(c.i, c.item), ErrDirectAssignment)
	}
	assert.Equal(t, 0, ra.Filled())

	var idx Indexed = ra
	assert.ErrorIs(t, idx.Set(0, []float64{1, 2}), ErrDirectAssignment)
}

func TestRollingArray_ItemShape(t *testing.T) {
	ra, err := NewRollingArray([]int{4, 2}, math.NaN())
	require.NoError(t, err)
	assert.Equal(t, []int{2}, ra.ItemShape())

	require.NoError(t, ra.Insert(0, []float64{1, 2}))
	require.NoError(t, ra.Insert(1, []float64{5}))

	// A rejected insert leaves the buffer untouched.
	assert.ErrorIs(t, ra.Insert(2, []float64{1, 2, 3}), ErrItemShape)
	assert.Equal(t, 2, ra.Filled())
	assert.Equal(t, []float64{5, 5}, ra.Newest())

	r, c := ra.T().Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 4, c)

	arr := ra.Array()
	arr.Set(3, 0, 100)
	assert.Equal(t, []float64{5, 5}, ra.Newest())
}
