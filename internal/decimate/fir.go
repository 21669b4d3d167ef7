package decimate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

// FIRLowpass designs a linear-phase lowpass filter by the window method:
// a sinc truncated to numtaps coefficients, tapered by a Hamming window and
// scaled to unit gain at zero frequency. The cutoff is relative to the
// Nyquist frequency, 0 < cutoff < 1.
func FIRLowpass(numtaps int, cutoff float64) ([]float64, error) {
	if numtaps < 1 {
		return nil, fmt.Errorf("numtaps must be positive, got %d", numtaps)
	}
	if !(cutoff > 0 && cutoff < 1) {
		return nil, fmt.Errorf("cutoff must be in (0, 1), got %g", cutoff)
	}
	if numtaps == 1 {
		return []float64{1}, nil
	}

	alpha := 0.5 * float64(numtaps-1)
	h := make([]float64, numtaps)
	for i := range h {
		h[i] = cutoff * sinc(cutoff*(float64(i)-alpha))
	}
	window.Hamming(h)
	floats.Scale(1/floats.Sum(h), h)
	return h, nil
}

// sinc is the normalised sinc, sin(pi x)/(pi x).
func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}
