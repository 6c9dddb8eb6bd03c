// Package mathutil provides the numeric helpers shared by the calculators.
package mathutil

import (
	"math"

	"github.com/iwvelando/inflation-calculator/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// RoundTo rounds a value to the given number of decimal places.
func RoundTo(val float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(val*scale) / scale
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// AllFinite reports whether every value is finite.
func AllFinite(vals ...float64) bool {
	for _, v := range vals {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}

// Multiplier turns a percentage change into a growth factor, e.g. 35.4 -> 1.354.
func Multiplier(percent float64) float64 {
	return 1 + percent/constants.PercentageMultiplier
}

// FromMultiplier turns a growth factor back into a percentage change.
func FromMultiplier(factor float64) float64 {
	return (factor - 1) * constants.PercentageMultiplier
}

// PercentChange returns the relative change from base to value in percent.
// A zero base yields zero.
func PercentChange(base, value float64) float64 {
	if base == 0 {
		return 0
	}
	return (value - base) / base * constants.PercentageMultiplier
}

// Compound chains two percentage changes: (1+a)(1+b)-1.
func Compound(a, b float64) float64 {
	return FromMultiplier(Multiplier(a) * Multiplier(b))
}
