package series

import (
	"math"
	"strconv"
	"strings"
)

// PrintOptions controls how an UncertainQtty is displayed.
type PrintOptions struct {
	// SigFig is the number of significant figures of the value when the
	// confidence is NaN.
	SigFig int
	// ZeroConfDecimals is the number of decimals of the value when the
	// confidence is exactly 0.
	ZeroConfDecimals int
}

// MaxDisplayDecimals bounds the decimals printed by Display; no float64 has
// more significant decimals.
const MaxDisplayDecimals = 340

// DefaultPrintOptions are used by UncertainQtty.String.
var DefaultPrintOptions = PrintOptions{
	SigFig:           4,
	ZeroConfDecimals: 10,
}

// UncertainQtty associates a confidence (uncertainty) with a quantity.
//
//	UncertainQtty{1.2345, 0.01}        1.23 ±0.01
//	UncertainQtty{1.2345, 0.1}         1.2 ±0.1
//	UncertainQtty{1.2345, 1}           1 ±1
//	UncertainQtty{1.2, 1e-10}          1.2000000000 ±1e-10
//	UncertainQtty{1.2, 0}              1.2000000000 ±0
//	UncertainQtty{1.234567, math.NaN}  1.235 ±nan
//	UncertainQtty{12, 20}              10 ±20
//	UncertainQtty{12, 100}             0 ±100
type UncertainQtty struct {
	Val  float64 `json:"val"`
	Conf float64 `json:"conf"`
}

// Round rounds the confidence to 1 significant figure and the value to the
// precision mult*Conf. With a NaN confidence the value is rounded to
// DefaultPrintOptions.SigFig significant figures instead.
func (u UncertainQtty) Round(mult float64) (val, conf float64) {
	return u.round(mult, DefaultPrintOptions.SigFig)
}

func (u UncertainQtty) round(mult float64, sigfig int) (float64, float64) {
	if math.IsNaN(u.Conf) {
		return Round2SigFig(u.Val, sigfig), u.Conf
	}
	return Round2(u.Val, mult*u.Conf), Round2SigFig(u.Conf, 1)
}

// String returns "val ±conf" using DefaultPrintOptions.
func (u UncertainQtty) String() string {
	return u.Display(DefaultPrintOptions)
}

// Display returns "val ±conf" where the value carries as many decimals as the
// rounded confidence requires, so 1.30 ±0.01 keeps its trailing zero.
func (u UncertainQtty) Display(opts PrintOptions) string {
	v, c := u.round(1, opts.SigFig)
	if math.IsNaN(c) {
		return formatShortest(v) + " ±" + formatShortest(c)
	}

	// A confidence of exactly 0 never arises from data; fall back to a fixed
	// number of decimals.
	n := -opts.ZeroConfDecimals
	if c != 0 {
		n = Log10Int(c)
	}

	decimals := 0
	if n < 0 {
		decimals = min(-n, MaxDisplayDecimals)
	}
	if !isFinite(v) {
		return formatShortest(v) + " ±" + formatShortest(c)
	}
	return strconv.FormatFloat(v, 'f', decimals, 64) + " ±" + formatShortest(c)
}

// GoString renders the quantity as UncertainQtty(val=..., conf=...) with the
// rounding of String.
func (u UncertainQtty) GoString() string {
	v, c, _ := strings.Cut(u.String(), " ±")
	return "UncertainQtty(val=" + v + ", conf=" + c + ")"
}
