package series

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// minConfSamples is the series length at or below which no confidence is given.
	minConfSamples = 5

	// meanConfLags is the number of ACF lags used for the correlation correction.
	meanConfLags = 4

	// numpy.allclose defaults
	allCloseRTol = 1e-5
	allCloseATol = 1e-8
)

// MeanWithConf returns the mean of xx together with its confidence, the
// standard error of the mean corrected for serial correlation.
//
// The naive variance of the mean, acov[0]/N, is inflated by 1 + 2c/N where
//
//	c = sum_{k=1}^{N-1} (N-k) a^k = ((N-1)a - N a^2 + a^(N+1)) / (1-a)^2
//
// and a is the AR(1) decay fitted to the first lags of the autocovariance.
//
// The confidence is NaN when the mean is not finite or len(xx) <= 5, and
// exactly 0 when all values are numerically equal to the mean.
func MeanWithConf(xx []float64) UncertainQtty {
	n := len(xx)
	mu := math.NaN()
	if n > 0 {
		mu = stat.Mean(xx, nil)
	}

	if math.IsNaN(mu) || math.IsInf(mu, 0) || n <= minConfSamples {
		return UncertainQtty{Val: mu, Conf: math.NaN()}
	}
	if allClose(xx, mu) {
		return UncertainQtty{Val: mu, Conf: 0}
	}

	// n > minConfSamples > meanConfLags, so AutoCov cannot fail here.
	acov, _ := AutoCov(xx, meanConfLags, ACFOptions{})
	variance := acov[0] / float64(n)

	a := FitACFByAR1(acov)
	nf := float64(n)
	c := ((nf-1)*a - nf*a*a + math.Pow(a, nf+1)) / ((1 - a) * (1 - a))
	variance *= 1 + 2/nf*c

	return UncertainQtty{Val: mu, Conf: math.Sqrt(variance)}
}

func allClose(xx []float64, mu float64) bool {
	tol := allCloseATol + allCloseRTol*math.Abs(mu)
	for _, x := range xx {
		if !(math.Abs(x-mu) <= tol) {
			return false
		}
	}
	return true
}
