// Package decimate downsamples signals and 2-D fields after anti-alias
// filtering, matching scipy.signal.decimate with ftype="fir" and zero phase.
package decimate

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FilterType names the anti-alias filter.
type FilterType string

const (
	// FilterFIR is a Hamming-windowed FIR lowpass of order 20*factor.
	FilterFIR FilterType = "fir"
)

// tapsPerFactor is the filter half-length per unit of decimation factor.
const tapsPerFactor = 10

var (
	// ErrUnsupportedFilter is returned for an unknown filter type.
	ErrUnsupportedFilter = errors.New("unsupported filter type")
	// ErrInvalidFactor is returned for a decimation factor below 1.
	ErrInvalidFactor = errors.New("decimation factor must be at least 1")
)

// ValidFilterTypes returns all supported filter types.
func ValidFilterTypes() []FilterType {
	return []FilterType{FilterFIR}
}

// IsValid checks if a filter type string is supported
func IsValid(ftype string) bool {
	for _, f := range ValidFilterTypes() {
		if string(f) == ftype {
			return true
		}
	}
	return false
}

// Decimator filters and keeps every factor-th sample.
type Decimator struct {
	factor int
	taps   []float64
	half   int
}

// New creates a Decimator for the given factor and filter type.
func New(factor int, ftype FilterType) (*Decimator, error) {
	if factor < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFactor, factor)
	}
	if !IsValid(string(ftype)) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFilter, ftype)
	}

	d := &Decimator{factor: factor}
	if factor == 1 {
		d.taps = []float64{1}
		return d, nil
	}

	d.half = tapsPerFactor * factor
	taps, err := FIRLowpass(2*d.half+1, 1/float64(factor))
	if err != nil {
		return nil, err
	}
	d.taps = taps
	return d, nil
}

// Factor returns the decimation factor.
func (d *Decimator) Factor() int { return d.factor }

// Taps returns a copy of the filter coefficients.
func (d *Decimator) Taps() []float64 { return append([]float64(nil), d.taps...) }

// OutputLen returns the number of samples kept from n input samples.
func (d *Decimator) OutputLen(n int) int {
	return (n + d.factor - 1) / d.factor
}

// Apply decimates x. Output sample m is centered on input sample factor*m,
// with the signal taken as zero outside its bounds:
//
//	y[m] = sum_j taps[j] * x[factor*m + half - j]
func (d *Decimator) Apply(x []float64) []float64 {
	y := make([]float64, d.OutputLen(len(x)))
	for m := range y {
		center := d.factor*m + d.half
		var sum float64
		for j, h := range d.taps {
			if t := center - j; t >= 0 && t < len(x) {
				sum += h * x[t]
			}
		}
		y[m] = sum
	}
	return y
}

// Rows decimates m along axis 0, independently for each column.
func (d *Decimator) Rows(m mat.Matrix) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(d.OutputLen(rows), cols, nil)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, m)
		out.SetCol(j, d.Apply(col))
	}
	return out
}

// Cols decimates m along axis 1, independently for each row.
func (d *Decimator) Cols(m mat.Matrix) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, d.OutputLen(cols), nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, m)
		out.SetRow(i, d.Apply(row))
	}
	return out
}

// Field decimates a 2-D field along both axes, first axis first.
func (d *Decimator) Field(m mat.Matrix) *mat.Dense {
	return d.Cols(d.Rows(m))
}
