package series

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// RollingArray is an array that rolls leftward along its leading axis.
// It always exposes its most recent (up to) Len entries in time order, the
// newest last. It backs the sliding graphs of live plotting.
//
// Items can only be written with Insert; Set always fails so that Leftmost
// keeps pointing at the oldest valid entry.
type RollingArray struct {
	shape   []int
	data    *mat.Dense
	prevK   int
	nFilled int
}

// NewRollingArray creates a buffer of shape[0] items of shape shape[1:],
// initially filled with fill.
func NewRollingArray(shape []int, fill float64) (*RollingArray, error) {
	if len(shape) == 0 {
		return nil, ErrInvalidShape
	}
	data, err := newNaNDense(shape[0], shape[1:])
	if err != nil {
		return nil, err
	}
	r, c := data.Dims()
	return &RollingArray{
		shape: append([]int(nil), shape...),
		data:  newFilledDense(r, c, fill),
	}, nil
}

// Insert writes item as the entry for logical position k.
//
// The buffer is shifted left by dk = max(1, k-prevK). When positions were
// skipped, the dk-1 slots before the new entry are set to NaN. A single
// value is broadcast over the item.
func (ra *RollingArray) Insert(k int, item []float64) error {
	row, err := broadcastItem(item, ra.data)
	if err != nil {
		return err
	}

	dk := max(1, k-ra.prevK)
	ra.shiftLeft(dk)

	n := ra.Len()
	ra.data.SetRow(n-1, row)
	ra.prevK = k
	ra.nFilled = min(n, ra.nFilled+dk)
	return nil
}

func (ra *RollingArray) shiftLeft(dk int) {
	n, cols := ra.data.Dims()
	keep := max(0, n-dk)
	for i := 0; i < keep; i++ {
		ra.data.SetRow(i, ra.data.RawRowView(i+dk))
	}
	for i := keep; i < n; i++ {
		row := ra.data.RawRowView(i)
		for j := 0; j < cols; j++ {
			row[j] = math.NaN()
		}
	}
}

// Len returns the capacity of the buffer.
func (ra *RollingArray) Len() int {
	r, _ := ra.data.Dims()
	return r
}

// Filled returns the number of entries rolled in so far, at most Len.
func (ra *RollingArray) Filled() int { return ra.nFilled }

// ItemShape returns the shape of one item.
func (ra *RollingArray) ItemShape() []int { return append([]int(nil), ra.shape[1:]...) }

// At returns a copy of entry i, counted from the oldest slot.
func (ra *RollingArray) At(i int) ([]float64, error) {
	if err := checkIndex(i, ra.Len()); err != nil {
		return nil, err
	}
	return mat.Row(nil, i, ra.data), nil
}

// Set always fails: writes go through Insert.
func (ra *RollingArray) Set(int, []float64) error {
	return ErrDirectAssignment
}

// Leftmost returns the oldest filled entry.
func (ra *RollingArray) Leftmost() ([]float64, error) {
	if ra.nFilled == 0 {
		return nil, ErrEmptyBuffer
	}
	return ra.At(ra.Len() - ra.nFilled)
}

// Newest returns the most recently inserted entry.
func (ra *RollingArray) Newest() []float64 {
	return mat.Row(nil, ra.Len()-1, ra.data)
}

// Span returns the oldest filled entry and the newest entry.
func (ra *RollingArray) Span() (oldest, newest []float64, err error) {
	oldest, err = ra.Leftmost()
	if err != nil {
		return nil, nil, err
	}
	return oldest, ra.Newest(), nil
}

// T returns the transpose of the buffer (item values x time).
func (ra *RollingArray) T() mat.Matrix { return ra.data.T() }

// Array returns a copy of the buffer.
func (ra *RollingArray) Array() *mat.Dense { return mat.DenseCopyOf(ra.data) }

func (ra *RollingArray) String() string {
	return "RollingArray:\n" + formatDense(ra.data, "  ")
}
