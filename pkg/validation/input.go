package validation

import (
	"fmt"

	"github.com/iwvelando/inflation-calculator/pkg/constants"
	"github.com/iwvelando/inflation-calculator/pkg/datetime"
	"github.com/iwvelando/inflation-calculator/pkg/inflation"
	"github.com/iwvelando/inflation-calculator/pkg/mathutil"
	"github.com/iwvelando/inflation-calculator/pkg/series"
)

// ValidateAmount rejects non-finite and non-positive amounts.
func ValidateAmount(name string, amount float64) error {
	if !mathutil.IsFinite(amount) || amount <= 0 {
		return fmt.Errorf("%w: %s must be a positive number, got %v", inflation.ErrInvalidAmount, name, amount)
	}
	return nil
}

// ValidateRate rejects non-finite and non-positive rates.
func ValidateRate(name string, rate float64) error {
	if !mathutil.IsFinite(rate) || rate <= 0 {
		return fmt.Errorf("%w: %s must be a positive percentage, got %v", inflation.ErrInvalidRate, name, rate)
	}
	return nil
}

// ValidateYears checks a projection horizon is in (0, MaxProjectionYears].
func ValidateYears(years float64) error {
	if !mathutil.IsFinite(years) || years <= 0 || years > constants.MaxProjectionYears {
		return fmt.Errorf("%w: years must be between 0 and %d, got %v",
			inflation.ErrInvalidPeriod, constants.MaxProjectionYears, years)
	}
	return nil
}

// ValidateDateRange checks both dates are well formed and fromDate is strictly
// before toDate.
func ValidateDateRange(fromDate, toDate string) error {
	before, err := datetime.DateBeforeDate(fromDate, toDate)
	if err != nil {
		return fmt.Errorf("%w: %v", inflation.ErrInvalidRange, err)
	}
	if !before {
		return fmt.Errorf("%w: from date %s must be before to date %s", inflation.ErrInvalidRange, fromDate, toDate)
	}
	return nil
}

// ValidateDatesCovered returns a warning for every date outside the span r.
// Dates are compared as "YYYY-MM" strings.
func ValidateDatesCovered(label string, r series.DateRange, dates ...string) []string {
	var warnings []string
	for _, date := range dates {
		if date == "" {
			continue
		}
		if date < r.Min || date > r.Max {
			warnings = append(warnings, fmt.Sprintf("%s: date %s is outside the available data (%s to %s)",
				label, date, r.Min, r.Max))
		}
	}
	return warnings
}
