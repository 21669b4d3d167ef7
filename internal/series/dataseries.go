package series

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Indexed is a container of fixed-shape items along a leading axis.
type Indexed interface {
	Len() int
	ItemShape() []int
	At(i int) ([]float64, error)
	Set(i int, item []float64) error
}

var (
	_ Indexed = (*DataSeries)(nil)
	_ Indexed = (*RollingArray)(nil)
)

// DataSeries is a NaN-initialised array indexed along its leading axis. Each
// item is stored flat, in row-major order of ItemShape.
type DataSeries struct {
	shape       []int
	data        *mat.Dense
	wereChanged bool
}

// NewDataSeries creates a series of shape[0] items, each of shape shape[1:].
func NewDataSeries(shape ...int) (*DataSeries, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: data series needs a leading dimension", ErrInvalidShape)
	}
	data, err := newNaNDense(shape[0], shape[1:])
	if err != nil {
		return nil, err
	}
	return &DataSeries{
		shape: append([]int(nil), shape...),
		data:  data,
	}, nil
}

// Len returns the number of items.
func (s *DataSeries) Len() int {
	r, _ := s.data.Dims()
	return r
}

// Shape returns the full shape, leading axis first.
func (s *DataSeries) Shape() []int { return append([]int(nil), s.shape...) }

// ItemShape returns the shape of one item.
func (s *DataSeries) ItemShape() []int { return append([]int(nil), s.shape[1:]...) }

// At returns a copy of item i.
func (s *DataSeries) At(i int) ([]float64, error) {
	if err := checkIndex(i, s.Len()); err != nil {
		return nil, err
	}
	return mat.Row(nil, i, s.data), nil
}

// Set overwrites item i. A single value is broadcast over the item.
func (s *DataSeries) Set(i int, item []float64) error {
	if err := checkIndex(i, s.Len()); err != nil {
		return err
	}
	row, err := broadcastItem(item, s.data)
	if err != nil {
		return err
	}
	s.data.SetRow(i, row)
	s.wereChanged = true
	return nil
}

// Matrix returns the series as a (Len x item size) matrix view.
func (s *DataSeries) Matrix() mat.Matrix { return s.data }

// WereChanged reports whether Set has been called.
func (s *DataSeries) WereChanged() bool { return s.wereChanged }

func (s *DataSeries) String() string {
	return "DataSeries" + formatShape(s.shape) + ":\n" + formatDense(s.data, "  ")
}

// itemSize returns the number of values in an item of the given shape.
// The empty shape is a scalar item of size 1.
func itemSize(shape []int) (int, error) {
	size := 1
	for _, d := range shape {
		if d <= 0 {
			return 0, fmt.Errorf("%w: %v", ErrInvalidShape, shape)
		}
		size *= d
	}
	return size, nil
}

func newNaNDense(rows int, itemShape []int) (*mat.Dense, error) {
	if rows <= 0 {
		return nil, fmt.Errorf("%w: leading dimension %d", ErrInvalidShape, rows)
	}
	cols, err := itemSize(itemShape)
	if err != nil {
		return nil, err
	}
	return newFilledDense(rows, cols, math.NaN()), nil
}

func newFilledDense(rows, cols int, v float64) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = v
	}
	return mat.NewDense(rows, cols, data)
}

// broadcastItem validates item against the column count of d. A one-element
// item is repeated over every column.
func broadcastItem(item []float64, d *mat.Dense) ([]float64, error) {
	_, cols := d.Dims()
	switch len(item) {
	case cols:
		return item, nil
	case 1:
		row := make([]float64, cols)
		for i := range row {
			row[i] = item[0]
		}
		return row, nil
	}
	return nil, fmt.Errorf("%w: got %d values, want %d", ErrItemShape, len(item), cols)
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, n)
	}
	return nil
}

func formatShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatDense(d *mat.Dense, prefix string) string {
	return prefix + fmt.Sprintf("%.3g", mat.Formatted(d, mat.Prefix(prefix), mat.Excerpt(3)))
}
