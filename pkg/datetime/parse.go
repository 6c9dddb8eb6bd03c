// Package datetime provides helpers for the "YYYY-MM" month keys used by every series.
package datetime

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/inflation-calculator/pkg/constants"
)

const (
	// DateTimeLayout is the format of series keys and configured dates.
	DateTimeLayout = constants.DateTimeLayout
)

var spanishMonths = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ValidateDate checks that date is a well-formed YYYY-MM month key.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateTimeLayout, date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	return nil
}

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// OffsetYears offsets date by a possibly fractional number of years. The
// fraction is rounded to whole months.
func OffsetYears(date string, years float64) (string, error) {
	whole := math.Floor(years)
	months := int(whole)*constants.MonthsPerYear + int(math.Round((years-whole)*constants.MonthsPerYear))
	return OffsetDate(date, DateTimeLayout, months)
}

// DateBeforeDate returns true if firstDate is strictly before secondDate.
func DateBeforeDate(firstDate string, secondDate string) (bool, error) {
	firstDateT, err := time.Parse(DateTimeLayout, firstDate)
	if err != nil {
		return false, err
	}
	secondDateT, err := time.Parse(DateTimeLayout, secondDate)
	if err != nil {
		return false, err
	}
	return firstDateT.Before(secondDateT), nil
}

// MonthsBetween returns the number of months from fromDate to toDate. It is
// negative when toDate precedes fromDate.
func MonthsBetween(fromDate, toDate string) (int, error) {
	from, err := time.Parse(DateTimeLayout, fromDate)
	if err != nil {
		return 0, err
	}
	to, err := time.Parse(DateTimeLayout, toDate)
	if err != nil {
		return 0, err
	}
	return (to.Year()-from.Year())*constants.MonthsPerYear + int(to.Month()-from.Month()), nil
}

// CurrentMonth returns the month key for t.
func CurrentMonth(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// DisplayDate renders a month key the way the calculators label it,
// e.g. "2020-12" -> "Diciembre 2020". Malformed keys are returned unchanged.
func DisplayDate(date string) string {
	t, err := time.Parse(DateTimeLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s %d", spanishMonths[t.Month()-1], t.Year())
}
