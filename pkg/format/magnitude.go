// Package format renders numbers for display.
package format

import (
	"math"
	"strconv"

	"github.com/iwvelando/donation-impact/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Magnitude renders a count (nets, lives, percentages) for human reading.
// Values of 5 and above are rounded to an integer, values in [1, 5) to one
// decimal place with a trailing ".0" dropped, and values below 1 to a single
// significant digit written as a plain decimal. Rounding is half-up on the
// shortest decimal representation of n. It must not be used for money.
func Magnitude(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	if n < 0 {
		return "-" + Magnitude(-n)
	}

	d := decimal.NewFromFloat(n)
	switch {
	case n >= 5:
		return d.Round(0).String()
	case n >= 1:
		return d.Round(1).String()
	case d.IsZero():
		return "0"
	default:
		return d.Round(-leadingExponent(d)).String()
	}
}

// Percentage renders a probability in [0, 1] as a magnitude-formatted
// percentage without the percent sign.
func Percentage(probability float64) string {
	return Magnitude(mathutil.ToPercentage(probability))
}

// leadingExponent returns the power of ten of the first significant digit,
// e.g. -2 for 0.0243.
func leadingExponent(d decimal.Decimal) int32 {
	return d.Exponent() + int32(d.NumDigits()) - 1
}
