package series

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	// MaxCorrLags caps the number of lags used by EstimateCorrLength.
	MaxCorrLags = 100

	// ar1SingleLag is the decay assigned when only lag 0 of the ACF is positive.
	ar1SingleLag = 0.01
)

// ACFOptions controls AutoCov.
type ACFOptions struct {
	// ZeroMean skips centering. The series is taken to have zero mean already.
	ZeroMean bool
	// Corr normalises the result by its lag-0 value, giving the autocorrelation.
	Corr bool
}

// Center returns a copy of xx with its mean removed, and the mean.
func Center(xx []float64) ([]float64, float64) {
	if len(xx) == 0 {
		return []float64{}, math.NaN()
	}
	mu := stat.Mean(xx, nil)
	centered := make([]float64, len(xx))
	copy(centered, xx)
	floats.AddConst(-mu, centered)
	return centered, mu
}

// AutoCov computes the sample autocovariance of xx for lags 0 to nlags by
// direct summation:
//
//	acov[i] = sum_t A[t]*A[t+i] / (N-i)
//
// where A is xx centered on its mean (unless opts.ZeroMean). With opts.Corr
// the result is divided by acov[0]. A negative nlags gives an empty result.
func AutoCov(xx []float64, nlags int, opts ACFOptions) ([]float64, error) {
	n := len(xx)
	if nlags >= n {
		return nil, fmt.Errorf("%w: nlags=%d, len=%d", ErrLagTooLarge, nlags, n)
	}
	if nlags < 0 {
		return []float64{}, nil
	}

	a := xx
	if !opts.ZeroMean {
		a, _ = Center(xx)
	}

	acov := make([]float64, nlags+1)
	for i := range acov {
		acov[i] = floats.Dot(a[:n-i], a[i:]) / float64(n-i)
	}

	if opts.Corr {
		c0 := acov[0]
		for i := range acov {
			acov[i] /= c0
		}
	}
	return acov, nil
}

// AutoCovColumns applies AutoCov along the rows of m (time x variables) for
// each column, returning an (nlags+1) x cols matrix.
func AutoCovColumns(m mat.Matrix, nlags int, opts ACFOptions) (*mat.Dense, error) {
	if nlags < 0 {
		return nil, fmt.Errorf("%w: nlags=%d", ErrNegativeLag, nlags)
	}
	rows, cols := m.Dims()
	if nlags >= rows {
		return nil, fmt.Errorf("%w: nlags=%d, len=%d", ErrLagTooLarge, nlags, rows)
	}

	out := mat.NewDense(nlags+1, cols, nil)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, m)
		acov, err := AutoCov(col, nlags, opts)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", j, err)
		}
		out.SetCol(j, acov)
	}
	return out, nil
}

// FitACFByAR1 fits an empirical autocovariance (or autocorrelation) function
// by that of an AR(1) process and returns the decay coefficient.
//
// The ACF is truncated at its first non-positive entry. An empty remainder
// gives 0, a single entry gives 0.01, and otherwise the result is the
// geometric mean of the ratios of consecutive entries.
func FitACFByAR1(acf []float64) float64 {
	end := len(acf)
	for i, v := range acf {
		if v <= 0 {
			end = i
			break
		}
	}
	acf = acf[:end]

	switch len(acf) {
	case 0:
		return 0
	case 1:
		return ar1SingleLag
	}

	ratios := make([]float64, len(acf)-1)
	for i := 1; i < len(acf); i++ {
		ratios[i-1] = acf[i] / acf[i-1]
	}
	return stat.GeometricMean(ratios, nil)
}

// EstimateCorrLength estimates the correlation length of xx: the lag at which
// an exponential autocorrelation with the fitted AR(1) decay falls to exp(-1).
func EstimateCorrLength(xx []float64) (float64, error) {
	length, _, err := EstimateCorrLengthAR1(xx)
	return length, err
}

// EstimateCorrLengthAR1 is EstimateCorrLength that also returns the fitted
// AR(1) decay coefficient.
func EstimateCorrLengthAR1(xx []float64) (length, ar1 float64, err error) {
	if len(xx) == 0 {
		return 0, 0, ErrEmptySeries
	}
	acov, err := AutoCov(xx, min(MaxCorrLags, len(xx)-2), ACFOptions{})
	if err != nil {
		return 0, 0, err
	}
	ar1 = FitACFByAR1(acov)
	return CorrLengthFromAR1(ar1), ar1, nil
}

// CorrLengthFromAR1 converts an AR(1) decay coefficient to a correlation length.
func CorrLengthFromAR1(a float64) float64 {
	if a == 0 {
		return 0
	}
	return 1 / math.Log(1/a)
}
