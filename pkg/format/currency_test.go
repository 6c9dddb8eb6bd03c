package format

import (
	"math"
	"testing"

	"github.com/iwvelando/inflation-calculator/pkg/series"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		amount   float64
		currency series.Currency
		expected string
	}{
		{189937.5, series.ARS, "$ 189.937,50"},
		{1266.25, series.USD, "US$ 1.266,25"},
		{0, series.ARS, "$ 0,00"},
		{999.999, series.USD, "US$ 1.000,00"},
		{-1234567.891, series.ARS, "$ -1.234.567,89"},
	}

	for _, tt := range tests {
		if got := Money(tt.amount, tt.currency); got != tt.expected {
			t.Errorf("Money(%v, %s) = %q, expected %q", tt.amount, tt.currency, got, tt.expected)
		}
	}
}

func TestNumberRoundsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0.005, "0,01"},
		{-0.005, "-0,01"},
		{-0.001, "0,00"},
		{1000, "1.000,00"},
		{123, "123,00"},
	}

	for _, tt := range tests {
		if got := Number(tt.amount); got != tt.expected {
			t.Errorf("Number(%v) = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestPlain(t *testing.T) {
	if got := Plain(189937.5); got != "189937.50" {
		t.Errorf("Plain(189937.5) = %q", got)
	}
	if got := Plain(-0.001); got != "0.00" {
		t.Errorf("Plain(-0.001) = %q", got)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		pct      float64
		signed   string
		unsigned string
	}{
		{40.2788, "+40,28%", "40,28%"},
		{-7.5, "-7,50%", "-7,50%"},
		{0, "0,00%", "0,00%"},
		{0.001, "0,00%", "0,00%"},
	}

	for _, tt := range tests {
		if got := Percent(tt.pct); got != tt.unsigned {
			t.Errorf("Percent(%v) = %q, expected %q", tt.pct, got, tt.unsigned)
		}
		if got := SignedPercent(tt.pct); got != tt.signed {
			t.Errorf("SignedPercent(%v) = %q, expected %q", tt.pct, got, tt.signed)
		}
	}
}

func TestNonFiniteDoesNotPanic(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{math.Inf(1), "+Inf"},
		{math.Inf(-1), "-Inf"},
		{math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		if got := Plain(tt.amount); got != tt.expected {
			t.Errorf("Plain(%v) = %q, expected %q", tt.amount, got, tt.expected)
		}
		if got := Money(tt.amount, series.USD); got != "US$ "+tt.expected {
			t.Errorf("Money(%v) = %q", tt.amount, got)
		}
		if got := SignedPercent(tt.amount); got != tt.expected+"%" {
			t.Errorf("SignedPercent(%v) = %q", tt.amount, got)
		}
	}
}
