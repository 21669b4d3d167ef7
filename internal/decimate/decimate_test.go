package decimate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestFIRLowpass(t *testing.T) {
	h, err := FIRLowpass(41, 0.5)
	require.NoError(t, err)
	require.Len(t, h, 41)

	assert.InDelta(t, 1.0, floats.Sum(h), 1e-12)
	for i := range h {
		assert.InDelta(t, h[i], h[len(h)-1-i], 1e-15, "tap %d not symmetric", i)
	}

	// Half-band filter: every second tap away from the centre vanishes.
	for m := 2; m <= 20; m += 2 {
		assert.InDelta(t, 0, h[20+m], 1e-15, "tap %d", 20+m)
	}
	assert.Equal(t, 20, floats.MaxIdx(h))
}

func TestFIRLowpass_Invalid(t *testing.T) {
	_, err := FIRLowpass(0, 0.5)
	assert.Error(t, err)
	_, err = FIRLowpass(11, 0)
	assert.Error(t, err)
	_, err = FIRLowpass(11, 1)
	assert.Error(t, err)

	h, err := FIRLowpass(1, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, h)
}

func TestNew(t *testing.T) {
	d, err := New(2, FilterFIR)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Factor())
	assert.Len(t, d.Taps(), 41)

	_, err = New(0, FilterFIR)
	assert.ErrorIs(t, err, ErrInvalidFactor)

	_, err = New(2, FilterType("iir"))
	assert.ErrorIs(t, err, ErrUnsupportedFilter)

	assert.True(t, IsValid("fir"))
	assert.False(t, IsValid("iir"))
}

func TestDecimator_OutputLen(t *testing.T) {
	d, err := New(2, FilterFIR)
	require.NoError(t, err)

	assert.Equal(t, 65, d.OutputLen(129))
	assert.Equal(t, 64, d.OutputLen(128))
	assert.Equal(t, 0, d.OutputLen(0))
}

func TestDecimator_ConstantInterior(t *testing.T) {
	d, err := New(2, FilterFIR)
	require.NoError(t, err)

	x := make([]float64, 200)
	for i := range x {
		x[i] = 3
	}
	y := d.Apply(x)
	require.Len(t, y, 100)

	// Away from the zero-padded edges the unit-gain filter keeps the constant.
	for m := 10; m < 90; m++ {
		assert.InDelta(t, 3, y[m], 1e-12, "sample %d", m)
	}
	// At the edge half of the window falls outside the signal.
	assert.Less(t, y[0], 3.0)
}

func TestDecimator_FactorOneIsIdentity(t *testing.T) {
	d, err := New(1, FilterFIR)
	require.NoError(t, err)

	x := []float64{1, -2, 3.5, 4}
	assert.Equal(t, x, d.Apply(x))
}

func TestDecimator_RemovesNyquist(t *testing.T) {
	d, err := New(2, FilterFIR)
	require.NoError(t, err)

	// A signal alternating at the Nyquist frequency is in the stop band.
	x := make([]float64, 400)
	for i := range x {
		x[i] = math.Cos(math.Pi * float64(i))
	}
	y := d.Apply(x)
	for m := 20; m < 180; m++ {
		assert.InDelta(t, 0, y[m], 1e-2, "sample %d", m)
	}
}

func TestDecimator_Field(t *testing.T) {
	d, err := New(2, FilterFIR)
	require.NoError(t, err)

	const n = 129
	data := make([]float64, n*n)
	for i := range data {
		data[i] = 1
	}
	field := mat.NewDense(n, n, data)

	out := d.Field(field)
	r, c := out.Dims()
	assert.Equal(t, 65, r)
	assert.Equal(t, 65, c)
	assert.InDelta(t, 1, out.At(32, 32), 1e-12)

	// Rows then Cols equals Field.
	assert.True(t, mat.EqualApprox(out, d.Cols(d.Rows(field)), 1e-15))
}
