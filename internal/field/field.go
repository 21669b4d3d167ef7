// Package field holds helpers for the square grids of the quasi-geostrophic
// model: reshaping flat state vectors and deriving potential vorticity from
// the streamfunction.
package field

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// HighResGrid is the side of the high-resolution grid, 2^7+1.
	HighResGrid = 129
	// DefaultF is the Rossby deformation coupling of the model.
	DefaultF = 1600.0
)

// ErrNotSquare is returned when a flat state does not fill a square grid.
var ErrNotSquare = errors.New("state length is not a perfect square")

// GridSize returns nx such that nx*nx == n.
func GridSize(n int) (int, error) {
	nx := int(math.Round(math.Sqrt(float64(n))))
	if n <= 0 || nx*nx != n {
		return 0, fmt.Errorf("%w: %d", ErrNotSquare, n)
	}
	return nx, nil
}

// Square reshapes a flat state vector into a row-major nx x nx field.
// The returned field owns a copy of the data.
func Square(flat []float64) (*mat.Dense, error) {
	nx, err := GridSize(len(flat))
	if err != nil {
		return nil, err
	}
	return mat.NewDense(nx, nx, append([]float64(nil), flat...)), nil
}

// Flatten returns the row-major contents of m.
func Flatten(m mat.Matrix) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		out = append(out, mat.Row(row, i, m)...)
	}
	return out
}

// Laplace applies the 5-point Laplacian stencil with unit spacing. Points
// outside the grid count as zero.
func Laplace(psi mat.Matrix) *mat.Dense {
	r, c := psi.Dims()
	at := func(i, j int) float64 {
		if i < 0 || i >= r || j < 0 || j >= c {
			return 0
		}
		return psi.At(i, j)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, at(i-1, j)+at(i+1, j)+at(i, j-1)+at(i, j+1)-4*at(i, j))
		}
	}
	return out
}

// ComputeQ derives the potential vorticity q = lap(psi)/dx^2 - f*psi for a
// streamfunction on the unit square, dx = 1/(nx-1).
func ComputeQ(psi mat.Matrix, f float64) (*mat.Dense, error) {
	r, c := psi.Dims()
	if r != c || r < 2 {
		return nil, fmt.Errorf("%w: %dx%d field", ErrNotSquare, r, c)
	}
	dx := 1 / float64(r-1)

	q := Laplace(psi)
	q.Scale(1/(dx*dx), q)
	var fpsi mat.Dense
	fpsi.Scale(f, psi)
	q.Sub(q, &fpsi)
	return q, nil
}
