package series

import (
	"errors"
	"fmt"

	"github.com/iwvelando/inflation-calculator/pkg/datetime"
	"github.com/iwvelando/inflation-calculator/pkg/mathutil"
)

// ErrEmptySeries is returned when a series has no points.
var ErrEmptySeries = errors.New("series has no points")

// Validate checks the structural invariants the engine relies on: dates are
// well formed, strictly increasing (hence unique) and values are finite.
func (s InflationSeries) Validate() error {
	if len(s.Points) == 0 {
		return fmt.Errorf("%s: %w", s.Name(), ErrEmptySeries)
	}
	prev := ""
	for i, p := range s.Points {
		if err := datetime.ValidateDate(p.Date); err != nil {
			return fmt.Errorf("%s point %d: %w", s.Name(), i, err)
		}
		if prev != "" && p.Date <= prev {
			return fmt.Errorf("%s point %d: date %s is not after %s", s.Name(), i, p.Date, prev)
		}
		if !mathutil.AllFinite(p.Rate, p.Accumulated) {
			return fmt.Errorf("%s point %s: non-finite value", s.Name(), p.Date)
		}
		if mathutil.Multiplier(p.Accumulated) <= 0 {
			return fmt.Errorf("%s point %s: accumulated %.2f%% implies a non-positive price level", s.Name(), p.Date, p.Accumulated)
		}
		prev = p.Date
	}
	return nil
}

// CheckAccumulation reports every point whose accumulated price level drifts
// from the level implied by the previous point and its own monthly rate by
// more than tolerance percent. The first point must be accumulated 0.
func (s InflationSeries) CheckAccumulation(tolerance float64) []string {
	var warnings []string
	for i, p := range s.Points {
		if i == 0 {
			if !mathutil.WithinTolerance(p.Accumulated, 0, tolerance) {
				warnings = append(warnings, fmt.Sprintf("%s: base point %s has accumulated %.2f%%, expected 0",
					s.Name(), p.Date, p.Accumulated))
			}
			continue
		}
		expected := mathutil.Compound(s.Points[i-1].Accumulated, p.Rate)
		drift := mathutil.PercentChange(mathutil.Multiplier(expected), mathutil.Multiplier(p.Accumulated))
		if !mathutil.WithinTolerance(drift, 0, tolerance) {
			warnings = append(warnings, fmt.Sprintf("%s: point %s has accumulated %.2f%%, monthly rate implies %.2f%%",
				s.Name(), p.Date, p.Accumulated, expected))
		}
	}
	return warnings
}

// Validate checks dates and that both rates are strictly positive.
func (s ExchangeSeries) Validate() error {
	if len(s.Points) == 0 {
		return fmt.Errorf("%s: %w", s.Name(), ErrEmptySeries)
	}
	prev := ""
	for i, p := range s.Points {
		if err := datetime.ValidateDate(p.Date); err != nil {
			return fmt.Errorf("%s point %d: %w", s.Name(), i, err)
		}
		if prev != "" && p.Date <= prev {
			return fmt.Errorf("%s point %d: date %s is not after %s", s.Name(), i, p.Date, prev)
		}
		if !mathutil.AllFinite(p.Official, p.Blue) || p.Official <= 0 || p.Blue <= 0 {
			return fmt.Errorf("%s point %s: rates must be positive, got official=%v blue=%v",
				s.Name(), p.Date, p.Official, p.Blue)
		}
		prev = p.Date
	}
	return nil
}

// MonthlyRate is a raw monthly percent change as published by a statistics office.
type MonthlyRate struct {
	Date string
	Rate float64
}

// Accumulate builds a series from raw monthly rates. The first month is the
// base (accumulated 0); each later month compounds on the previous one and
// both fields are stored rounded to two decimals.
func Accumulate(currency Currency, rates []MonthlyRate) InflationSeries {
	points := make([]InflationPoint, 0, len(rates))
	acc := 0.0
	for i, r := range rates {
		if i > 0 {
			acc = mathutil.Compound(acc, r.Rate)
		}
		points = append(points, InflationPoint{
			Date:        r.Date,
			Rate:        mathutil.Round(r.Rate),
			Accumulated: mathutil.Round(acc),
		})
	}
	return NewInflationSeries(currency, points)
}
