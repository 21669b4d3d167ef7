package series

import (
	"math"
	"strconv"
)

// Log10Int returns the decimal order of |x|, rounded down.
//
// To spare callers from special cases the result is always an integer:
// NaN and magnitudes below 1e-300 give -300, magnitudes above 1e300 give 300.
func Log10Int(x float64) int {
	ax := math.Abs(x)
	switch {
	case math.IsNaN(x), ax < 1e-300:
		return -300
	case ax > 1e300:
		return 300
	}

	e := int(math.Floor(math.Log10(ax)))
	// math.Log10 may land just off an exact power of ten.
	if math.Pow10(e+1) <= ax {
		e++
	} else if math.Pow10(e) > ax {
		e--
	}
	return e
}

// RoundDecimals rounds x to n decimals with numpy.round semantics: ties go to
// even on the scaled value, and negative n rounds to tens, hundreds, etc.
//
// A finite x is returned as is when scaling leaves the float64 range; n is
// then past float64 precision and rounding is the identity.
func RoundDecimals(x float64, n int) float64 {
	var r float64
	if n >= 0 {
		p := math.Pow10(n)
		r = math.RoundToEven(x*p) / p
	} else {
		p := math.Pow10(-n)
		r = math.RoundToEven(x/p) * p
	}
	if isFinite(x) && !isFinite(r) {
		return x
	}
	return r
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Round2 rounds x to the decimal order of prec. A NaN prec leaves x unchanged.
//
//	Round2(1.65, 0.543) == 1.6
//	Round2(1.66, 0.543) == 1.7
//	Round2(1.65, 1.234) == 2
func Round2(x, prec float64) float64 {
	if math.IsNaN(prec) {
		return x
	}
	return RoundDecimals(x, -Log10Int(prec))
}

// Round2SigFig rounds x to sigfig significant figures.
func Round2SigFig(x float64, sigfig int) float64 {
	return RoundDecimals(x, sigfig-Log10Int(x)-1)
}

// formatShortest prints x with the fewest digits that round-trip, switching
// to exponent notation for very small or large magnitudes.
func formatShortest(x float64) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	ax := math.Abs(x)
	if ax == 0 || (ax >= 1e-4 && ax < 1e16) {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return strconv.FormatFloat(x, 'e', -1, 64)
}
