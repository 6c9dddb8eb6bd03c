// Package format renders amounts and percentages the way Argentine users
// read them: "." groups thousands and "," separates decimals.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/inflation-calculator/pkg/series"
	"github.com/shopspring/decimal"
)

// Money returns an amount with its currency symbol, e.g. "US$ 1.234,56" or "$ -500,00".
func Money(amount float64, currency series.Currency) string {
	return currency.Symbol() + " " + Number(amount)
}

// Number returns an amount rounded half away from zero to cents with es-AR
// separators, e.g. "-1.234,56".
func Number(amount float64) string {
	fixed := Plain(amount)
	if !isFinite(amount) {
		return fixed
	}
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, decPart, _ := strings.Cut(fixed, ".")
	return sign + group(intPart) + "," + decPart
}

// Plain returns an amount rounded to cents with a "." decimal point and no
// grouping, suitable for CSV and JSON consumers, e.g. "189937.50". NaN and
// infinities are spelled out rather than rounded.
func Plain(amount float64) string {
	if !isFinite(amount) {
		return strconv.FormatFloat(amount, 'f', -1, 64)
	}
	d := decimal.NewFromFloat(amount).Round(2)
	if d.IsZero() {
		d = decimal.Zero
	}
	return d.StringFixed(2)
}

// Percent returns a percentage with two decimals, e.g. "40,28%".
func Percent(pct float64) string {
	return Number(pct) + "%"
}

// SignedPercent is Percent with an explicit "+" on positive values.
func SignedPercent(pct float64) string {
	s := Percent(pct)
	if isFinite(pct) && !strings.HasPrefix(s, "-") && decimal.NewFromFloat(pct).Round(2).IsPositive() {
		return "+" + s
	}
	return s
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func group(intPart string) string {
	if len(intPart) <= 3 {
		return intPart
	}
	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte('.')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
