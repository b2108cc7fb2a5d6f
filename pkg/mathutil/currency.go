// Package mathutil provides the numeric primitives shared by every calculator:
// cent rounding, safe division and the percent/decimal rate boundary.
package mathutil

import (
	"math"

	"github.com/iwvelando/finance-engine/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round2 rounds a currency amount to cents, half away from zero (1.235 -> 1.24).
// The value is rounded in decimal so binary representation error (1.005 is
// stored as 1.00499...) does not flip the result.
func Round2(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return val
	}
	return Float(Cents(val))
}

// Cents converts a float amount into a decimal rounded to cents.
func Cents(val float64) decimal.Decimal {
	return decimal.NewFromFloat(val).Round(constants.DecimalPlaces)
}

// RoundCents rounds a decimal amount to cents.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(constants.DecimalPlaces)
}

// Float returns the float64 closest to d.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// SafeDivide returns numerator/denominator, or fallback when the denominator is
// zero or the quotient is not a finite number.
func SafeDivide(numerator, denominator, fallback float64) float64 {
	if denominator == 0 {
		return fallback
	}
	q := numerator / denominator
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return fallback
	}
	return q
}

// PercentToDecimal converts 6.5 (percent) into 0.065.
func PercentToDecimal(p float64) float64 {
	return p / constants.PercentageMultiplier
}

// DecimalToPercent converts 0.065 into 6.5 (percent).
func DecimalToPercent(d float64) float64 {
	return d * constants.PercentageMultiplier
}

// MonthlyRate converts an annual percentage into a monthly decimal rate.
func MonthlyRate(annualRatePercent float64) float64 {
	return PercentToDecimal(annualRatePercent) / constants.MonthsPerYear
}

// IsPositive checks if a value is positive (greater than tolerance)
func IsPositive(val float64) bool {
	return val > constants.CurrencyTolerance
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}
