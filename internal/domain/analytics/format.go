package analytics

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// RoundTo rounds v to the given number of decimal places, halves away from
// zero. NaN and infinities collapse to 0.
func RoundTo(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 { return RoundTo(v, 1) }

// RoundInt rounds to the nearest integer.
func RoundInt(v float64) int { return int(RoundTo(v, 0)) }

// FormatSignedPercent renders a percentage with one decimal and an explicit
// sign, e.g. "+4.2%", "+0.0%", "-11.3%".
func FormatSignedPercent(v float64) string {
	v = Round1(v)
	if v == 0 {
		v = 0 // drop negative zero
	}
	if v >= 0 {
		return fmt.Sprintf("+%.1f%%", v)
	}
	return fmt.Sprintf("%.1f%%", v)
}

// FormatPercent renders the magnitude of a percentage with one decimal.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", math.Abs(Round1(v)))
}

// FormatWholePercent renders a ratio in [0,1] as a whole percentage.
func FormatWholePercent(ratio float64) string {
	return decimal.NewFromFloat(ratio*100).Round(0).String() + "%"
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatHours renders hours with one decimal.
func FormatHours(v float64) string {
	return fmt.Sprintf("%.1f", Round1(v))
}
