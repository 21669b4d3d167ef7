package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestGridSize(t *testing.T) {
	tests := []struct {
		n       int
		want    int
		wantErr bool
	}{
		{n: 129 * 129, want: 129},
		{n: 65 * 65, want: 65},
		{n: 1, want: 1},
		{n: 0, wantErr: true},
		{n: 10, wantErr: true},
	}
	for _, tt := range tests {
		got, err := GridSize(tt.n)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrNotSquare, "n=%d", tt.n)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestSquareFlatten(t *testing.T) {
	flat := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	m, err := Square(flat)
	require.NoError(t, err)

	assert.Equal(t, 2.0, m.At(0, 1))
	assert.Equal(t, 4.0, m.At(1, 0))
	assert.Equal(t, flat, Flatten(m))

	flat[0] = 100
	assert.Equal(t, 1.0, m.At(0, 0), "Square must copy")

	_, err = Square(make([]float64, 8))
	assert.ErrorIs(t, err, ErrNotSquare)
}

func TestLaplace(t *testing.T) {
	psi := mat.NewDense(3, 3, []float64{
		0, 0, 0,
		0, 1, 0,
		0, 0, 0,
	})
	want := mat.NewDense(3, 3, []float64{
		0, 1, 0,
		1, -4, 1,
		0, 1, 0,
	})
	assert.True(t, mat.Equal(want, Laplace(psi)))

	// Zero padding: a constant field has a non-zero Laplacian on its edge.
	ones := mat.NewDense(3, 3, []float64{1, 1, 1, 1, 1, 1, 1, 1, 1})
	lap := Laplace(ones)
	assert.Equal(t, 0.0, lap.At(1, 1))
	assert.Equal(t, -2.0, lap.At(0, 0))
	assert.Equal(t, -1.0, lap.At(0, 1))
}

func TestComputeQ(t *testing.T) {
	psi := mat.NewDense(3, 3, []float64{
		0, 0, 0,
		0, 1, 0,
		0, 0, 0,
	})
	q, err := ComputeQ(psi, DefaultF)
	require.NoError(t, err)

	// dx = 1/2, so lap/dx^2 = 4*lap.
	assert.Equal(t, -16.0-DefaultF, q.At(1, 1))
	assert.Equal(t, 4.0, q.At(0, 1))
	assert.Equal(t, 0.0, q.At(0, 0))

	_, err = ComputeQ(mat.NewDense(2, 3, nil), DefaultF)
	assert.ErrorIs(t, err, ErrNotSquare)
}
