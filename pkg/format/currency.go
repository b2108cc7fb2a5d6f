// Package format renders money and rates for people to read.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency returns a dollar amount with thousands separators and cents, with
// the sign ahead of the symbol (e.g., "-$1,234.56").
func Currency(amount float64) string {
	p := message.NewPrinter(language.English)
	if amount < 0 && math.Round(-amount*100) != 0 {
		return p.Sprintf("-$%.2f", -amount)
	}
	return p.Sprintf("$%.2f", math.Abs(amount))
}

// Percent returns a rate with two decimals and a percent sign (e.g., "6.25%").
func Percent(rate float64) string {
	return message.NewPrinter(language.English).Sprintf("%.2f%%", rate)
}
