// Package series defines the monthly inflation and exchange-rate series the
// calculators read, together with lookup and consistency checks.
package series

import (
	"fmt"
	"strings"
)

// Currency identifies a series and labels amounts.
type Currency string

const (
	// ARS is the Argentine peso, the local currency.
	ARS Currency = "ARS"
	// USD is the US dollar.
	USD Currency = "USD"
)

// Currencies lists every supported currency.
var Currencies = []Currency{ARS, USD}

// ParseCurrency accepts a currency code in any case.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(strings.ToUpper(strings.TrimSpace(s))) {
	case ARS:
		return ARS, nil
	case USD:
		return USD, nil
	}
	return "", fmt.Errorf("unsupported currency %q: expected ARS or USD", s)
}

// Symbol returns the display prefix for amounts in c.
func (c Currency) Symbol() string {
	if c == USD {
		return "US$"
	}
	return "$"
}

// RateType selects one of the exchange-rate channels.
type RateType string

const (
	// Official is the government-set exchange rate.
	Official RateType = "official"
	// Blue is the informal parallel-market rate.
	Blue RateType = "blue"
)

// ParseRateType accepts "official" or "blue" in any case.
func ParseRateType(s string) (RateType, error) {
	switch RateType(strings.ToLower(strings.TrimSpace(s))) {
	case Official:
		return Official, nil
	case Blue:
		return Blue, nil
	}
	return "", fmt.Errorf("unsupported rate type %q: expected official or blue", s)
}

// InflationPoint is one monthly observation for a currency.
type InflationPoint struct {
	Date        string  `json:"date" yaml:"date" db:"date"`
	Rate        float64 `json:"rate" yaml:"rate" db:"rate"`
	Accumulated float64 `json:"accumulated" yaml:"accumulated" db:"accumulated"`
}

// ExchangeRatePoint is one monthly ARS-per-USD observation.
type ExchangeRatePoint struct {
	Date     string  `json:"date" yaml:"date" db:"date"`
	Official float64 `json:"official" yaml:"official" db:"official_rate"`
	Blue     float64 `json:"blue" yaml:"blue" db:"blue_rate"`
}

// Rate returns the rate for the requested channel.
func (p ExchangeRatePoint) Rate(rt RateType) (float64, error) {
	switch rt {
	case Official:
		return p.Official, nil
	case Blue:
		return p.Blue, nil
	}
	return 0, fmt.Errorf("unsupported rate type %q", rt)
}

// InflationSeries is the chronologically ordered inflation history of one
// currency. Build it with NewInflationSeries to get indexed lookups; a
// literal value still works through a linear scan.
type InflationSeries struct {
	Currency Currency
	Points   []InflationPoint
	index    map[string]int
}

// NewInflationSeries copies points and indexes them by date.
func NewInflationSeries(currency Currency, points []InflationPoint) InflationSeries {
	cp := make([]InflationPoint, len(points))
	copy(cp, points)
	index := make(map[string]int, len(cp))
	for i, p := range cp {
		index[p.Date] = i
	}
	return InflationSeries{Currency: currency, Points: cp, index: index}
}

// Name identifies the series in error messages, e.g. "inflation:ARS".
func (s InflationSeries) Name() string {
	return "inflation:" + string(s.Currency)
}

// Lookup returns the point at date.
func (s InflationSeries) Lookup(date string) (InflationPoint, bool) {
	i, ok := s.position(date)
	if !ok {
		return InflationPoint{}, false
	}
	return s.Points[i], true
}

func (s InflationSeries) position(date string) (int, bool) {
	if s.index != nil {
		i, ok := s.index[date]
		return i, ok
	}
	for i, p := range s.Points {
		if p.Date == date {
			return i, true
		}
	}
	return 0, false
}

// Len returns the number of points.
func (s InflationSeries) Len() int {
	return len(s.Points)
}

// Dates lists the month keys in order.
func (s InflationSeries) Dates() []string {
	dates := make([]string, len(s.Points))
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	return dates
}

// Range returns the first and last month keys. Both are empty for an empty series.
func (s InflationSeries) Range() DateRange {
	if len(s.Points) == 0 {
		return DateRange{}
	}
	return DateRange{Min: s.Points[0].Date, Max: s.Points[len(s.Points)-1].Date}
}

// Between returns the points from fromDate to toDate inclusive. It returns
// false when either date is missing or fromDate comes after toDate.
func (s InflationSeries) Between(fromDate, toDate string) ([]InflationPoint, bool) {
	from, ok := s.position(fromDate)
	if !ok {
		return nil, false
	}
	to, ok := s.position(toDate)
	if !ok || to < from {
		return nil, false
	}
	return s.Points[from : to+1], true
}

// ExchangeSeries is the chronologically ordered ARS/USD exchange-rate history.
type ExchangeSeries struct {
	Points []ExchangeRatePoint
	index  map[string]int
}

// NewExchangeSeries copies points and indexes them by date.
func NewExchangeSeries(points []ExchangeRatePoint) ExchangeSeries {
	cp := make([]ExchangeRatePoint, len(points))
	copy(cp, points)
	index := make(map[string]int, len(cp))
	for i, p := range cp {
		index[p.Date] = i
	}
	return ExchangeSeries{Points: cp, index: index}
}

// Name identifies the series in error messages.
func (s ExchangeSeries) Name() string {
	return "exchange"
}

// Lookup returns the point at date.
func (s ExchangeSeries) Lookup(date string) (ExchangeRatePoint, bool) {
	if s.index != nil {
		i, ok := s.index[date]
		if !ok {
			return ExchangeRatePoint{}, false
		}
		return s.Points[i], true
	}
	for _, p := range s.Points {
		if p.Date == date {
			return p, true
		}
	}
	return ExchangeRatePoint{}, false
}

// Len returns the number of points.
func (s ExchangeSeries) Len() int {
	return len(s.Points)
}

// Dates lists the month keys in order.
func (s ExchangeSeries) Dates() []string {
	dates := make([]string, len(s.Points))
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	return dates
}

// Range returns the first and last month keys.
func (s ExchangeSeries) Range() DateRange {
	if len(s.Points) == 0 {
		return DateRange{}
	}
	return DateRange{Min: s.Points[0].Date, Max: s.Points[len(s.Points)-1].Date}
}

// DateRange is the span covered by a series.
type DateRange struct {
	Min string `json:"minDate"`
	Max string `json:"maxDate"`
}
