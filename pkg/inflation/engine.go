// Package inflation implements the inflation and exchange-rate calculations:
// accumulated inflation between months, inflation adjustment, currency
// conversion and the dollarization comparison. The engine holds no series of
// its own; every call receives the series it reads.
package inflation

import (
	"fmt"
	"math"

	"github.com/iwvelando/inflation-calculator/pkg/constants"
	"github.com/iwvelando/inflation-calculator/pkg/mathutil"
	"github.com/iwvelando/inflation-calculator/pkg/series"
	"go.uber.org/zap"
)

// CalculationResult is an amount adjusted for inflation between two months.
type CalculationResult struct {
	OriginalAmount float64         `json:"originalAmount"`
	AdjustedAmount float64         `json:"adjustedAmount"`
	InflationRate  float64         `json:"inflationRate"`
	FromDate       string          `json:"fromDate"`
	ToDate         string          `json:"toDate"`
	Currency       series.Currency `json:"currency"`
}

// ConversionResult is an amount converted between currencies at one month.
type ConversionResult struct {
	OriginalAmount  float64         `json:"originalAmount"`
	ConvertedAmount float64         `json:"convertedAmount"`
	ExchangeRate    float64         `json:"exchangeRate"`
	FromCurrency    series.Currency `json:"fromCurrency"`
	ToCurrency      series.Currency `json:"toCurrency"`
	Date            string          `json:"date"`
	RateType        series.RateType `json:"rateType"`
}

// Outcome classifies a dollarization comparison.
type Outcome string

const (
	// OutcomeFavorable means converting to USD preserved more value.
	OutcomeFavorable Outcome = "favorable"
	// OutcomeUnfavorable means holding pesos preserved more value.
	OutcomeUnfavorable Outcome = "unfavorable"
	// OutcomeMixed means the difference is within the mixed threshold.
	OutcomeMixed Outcome = "mixed"
)

// DollarizationResult keeps the four intermediate values of the comparison
// along with the verdict.
type DollarizationResult struct {
	Amount            float64           `json:"amount"`
	FromDate          string            `json:"fromDate"`
	ToDate            string            `json:"toDate"`
	RateType          series.RateType   `json:"rateType"`
	InitialConversion ConversionResult  `json:"initialConversion"`
	USDAdjustment     CalculationResult `json:"usdAdjustment"`
	FinalConversion   ConversionResult  `json:"finalConversion"`
	LocalAdjustment   CalculationResult `json:"localAdjustment"`
	GainPercent       float64           `json:"gainPercent"`
	WasWorthIt        bool              `json:"wasWorthIt"`
	Outcome           Outcome           `json:"outcome"`
}

// CrossConversionResult compares converting at the start month and carrying
// the target currency's inflation forward against converting at the end month.
type CrossConversionResult struct {
	Amount            float64           `json:"amount"`
	FromCurrency      series.Currency   `json:"fromCurrency"`
	ToCurrency        series.Currency   `json:"toCurrency"`
	FromDate          string            `json:"fromDate"`
	ToDate            string            `json:"toDate"`
	RateType          series.RateType   `json:"rateType"`
	InitialConversion ConversionResult  `json:"initialConversion"`
	InflationAdjusted CalculationResult `json:"inflationAdjusted"`
	FutureConversion  ConversionResult  `json:"futureConversion"`
	// Difference is InflationAdjusted minus FutureConversion, in the target currency.
	Difference float64 `json:"difference"`
	// AdjustedAhead reports whether the inflation-adjusted amount is the larger one.
	AdjustedAhead bool `json:"adjustedAhead"`
}

// TimelinePoint is the value of an amount at one month of a range.
type TimelinePoint struct {
	Date           string  `json:"date"`
	InflationRate  float64 `json:"inflationRate"`
	AdjustedAmount float64 `json:"adjustedAmount"`
}

// Engine performs the calculations. It is stateless and safe for concurrent use.
type Engine struct {
	logger         *zap.Logger
	mixedThreshold float64
}

// NewEngine creates a new engine with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, mixedThreshold: constants.MixedThresholdPercent}
}

// WithMixedThreshold returns a copy of the engine that reports dollarization
// gains whose magnitude is below pct percent as mixed. Negative values are
// treated as zero.
func (e *Engine) WithMixedThreshold(pct float64) *Engine {
	if pct < 0 || !mathutil.IsFinite(pct) {
		pct = 0
	}
	cp := *e
	cp.mixedThreshold = pct
	return &cp
}

// MixedThreshold returns the dollarization mixed-outcome threshold in percent.
func (e *Engine) MixedThreshold() float64 {
	return e.mixedThreshold
}

// AccumulatedBetween returns the compounded inflation in percent from fromDate
// to toDate. Dates are not reordered: swapping them yields the inverse rate.
func (e *Engine) AccumulatedBetween(s series.InflationSeries, fromDate, toDate string) (float64, error) {
	from, ok := s.Lookup(fromDate)
	if !ok {
		return 0, dateNotFound(fromDate, s.Name())
	}
	to, ok := s.Lookup(toDate)
	if !ok {
		return 0, dateNotFound(toDate, s.Name())
	}

	rate := mathutil.FromMultiplier(mathutil.Multiplier(to.Accumulated) / mathutil.Multiplier(from.Accumulated))
	if !mathutil.IsFinite(rate) {
		return 0, fmt.Errorf("%w: accumulated inflation from %s to %s in %s is not finite",
			ErrInvalidRate, fromDate, toDate, s.Name())
	}
	e.logger.Debug("accumulated inflation",
		zap.String("op", "inflation.AccumulatedBetween"),
		zap.String("series", s.Name()),
		zap.String("from", fromDate),
		zap.String("to", toDate),
		zap.Float64("rate", rate),
	)
	return rate, nil
}

// Adjust carries amount from fromDate to toDate using the series' inflation.
func (e *Engine) Adjust(amount float64, s series.InflationSeries, fromDate, toDate string) (CalculationResult, error) {
	if !mathutil.IsFinite(amount) {
		return CalculationResult{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	rate, err := e.AccumulatedBetween(s, fromDate, toDate)
	if err != nil {
		return CalculationResult{}, err
	}
	adjusted := amount * mathutil.Multiplier(rate)
	if err := checkResult("adjusted amount", adjusted); err != nil {
		return CalculationResult{}, err
	}
	return CalculationResult{
		OriginalAmount: amount,
		AdjustedAmount: adjusted,
		InflationRate:  rate,
		FromDate:       fromDate,
		ToDate:         toDate,
		Currency:       s.Currency,
	}, nil
}

// Convert converts amount between currencies at date. Rates are pesos per
// dollar, so ARS to USD divides and USD to ARS multiplies. Converting a
// currency to itself returns the amount but still reports the rate.
func (e *Engine) Convert(amount float64, fromCurrency, toCurrency series.Currency, date string,
	rateType series.RateType, ex series.ExchangeSeries) (ConversionResult, error) {
	if !mathutil.IsFinite(amount) {
		return ConversionResult{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	if err := checkCurrency(fromCurrency); err != nil {
		return ConversionResult{}, err
	}
	if err := checkCurrency(toCurrency); err != nil {
		return ConversionResult{}, err
	}

	point, ok := ex.Lookup(date)
	if !ok {
		return ConversionResult{}, dateNotFound(date, ex.Name())
	}
	rate, err := point.Rate(rateType)
	if err != nil {
		return ConversionResult{}, fmt.Errorf("%w: %v", ErrInvalidRateType, err)
	}

	converted := amount
	switch {
	case fromCurrency == toCurrency:
	case fromCurrency == series.ARS:
		converted = amount / rate
	default:
		converted = amount * rate
	}
	if err := checkResult("converted amount", converted); err != nil {
		return ConversionResult{}, err
	}

	e.logger.Debug("converted amount",
		zap.String("op", "inflation.Convert"),
		zap.String("date", date),
		zap.String("from", string(fromCurrency)),
		zap.String("to", string(toCurrency)),
		zap.String("rateType", string(rateType)),
		zap.Float64("rate", rate),
	)

	return ConversionResult{
		OriginalAmount:  amount,
		ConvertedAmount: converted,
		ExchangeRate:    rate,
		FromCurrency:    fromCurrency,
		ToCurrency:      toCurrency,
		Date:            date,
		RateType:        rateType,
	}, nil
}

// Dollarization compares holding pesos from fromDate to toDate against buying
// dollars at fromDate, carrying them with USD inflation, and selling them at
// toDate. Any missing month aborts the whole comparison.
func (e *Engine) Dollarization(amount float64, fromDate, toDate string, rateType series.RateType,
	ars, usd series.InflationSeries, ex series.ExchangeSeries) (DollarizationResult, error) {
	initial, err := e.Convert(amount, series.ARS, series.USD, fromDate, rateType, ex)
	if err != nil {
		return DollarizationResult{}, fmt.Errorf("initial conversion: %w", err)
	}
	usdAdjusted, err := e.Adjust(initial.ConvertedAmount, usd, fromDate, toDate)
	if err != nil {
		return DollarizationResult{}, fmt.Errorf("USD adjustment: %w", err)
	}
	final, err := e.Convert(usdAdjusted.AdjustedAmount, series.USD, series.ARS, toDate, rateType, ex)
	if err != nil {
		return DollarizationResult{}, fmt.Errorf("final conversion: %w", err)
	}
	local, err := e.Adjust(amount, ars, fromDate, toDate)
	if err != nil {
		return DollarizationResult{}, fmt.Errorf("local adjustment: %w", err)
	}

	gain := mathutil.PercentChange(local.AdjustedAmount, final.ConvertedAmount)
	worth := final.ConvertedAmount > local.AdjustedAmount

	outcome := OutcomeUnfavorable
	switch {
	case math.Abs(gain) < e.mixedThreshold:
		outcome = OutcomeMixed
	case worth:
		outcome = OutcomeFavorable
	}

	e.logger.Debug("dollarization comparison",
		zap.String("op", "inflation.Dollarization"),
		zap.String("from", fromDate),
		zap.String("to", toDate),
		zap.String("rateType", string(rateType)),
		zap.Float64("finalLocal", final.ConvertedAmount),
		zap.Float64("adjustedLocal", local.AdjustedAmount),
		zap.Float64("gainPercent", gain),
		zap.String("outcome", string(outcome)),
	)

	return DollarizationResult{
		Amount:            amount,
		FromDate:          fromDate,
		ToDate:            toDate,
		RateType:          rateType,
		InitialConversion: initial,
		USDAdjustment:     usdAdjusted,
		FinalConversion:   final,
		LocalAdjustment:   local,
		GainPercent:       gain,
		WasWorthIt:        worth,
		Outcome:           outcome,
	}, nil
}

// CrossConversion converts amount at fromDate and adjusts the result with
// target's inflation, then compares it with converting the same amount at
// toDate. target must be the inflation series of toCurrency.
func (e *Engine) CrossConversion(amount float64, fromCurrency, toCurrency series.Currency, fromDate, toDate string,
	rateType series.RateType, target series.InflationSeries, ex series.ExchangeSeries) (CrossConversionResult, error) {
	if target.Currency != toCurrency {
		return CrossConversionResult{}, fmt.Errorf("%w: inflation series %s does not match target currency %s",
			ErrInvalidCurrency, target.Currency, toCurrency)
	}

	initial, err := e.Convert(amount, fromCurrency, toCurrency, fromDate, rateType, ex)
	if err != nil {
		return CrossConversionResult{}, fmt.Errorf("initial conversion: %w", err)
	}
	adjusted, err := e.Adjust(initial.ConvertedAmount, target, fromDate, toDate)
	if err != nil {
		return CrossConversionResult{}, fmt.Errorf("inflation adjustment: %w", err)
	}
	future, err := e.Convert(amount, fromCurrency, toCurrency, toDate, rateType, ex)
	if err != nil {
		return CrossConversionResult{}, fmt.Errorf("future conversion: %w", err)
	}

	return CrossConversionResult{
		Amount:            amount,
		FromCurrency:      fromCurrency,
		ToCurrency:        toCurrency,
		FromDate:          fromDate,
		ToDate:            toDate,
		RateType:          rateType,
		InitialConversion: initial,
		InflationAdjusted: adjusted,
		FutureConversion:  future,
		Difference:        adjusted.AdjustedAmount - future.ConvertedAmount,
		AdjustedAhead:     adjusted.AdjustedAmount > future.ConvertedAmount,
	}, nil
}

// Timeline returns amount adjusted to every month from fromDate to toDate
// inclusive, relative to fromDate.
func (e *Engine) Timeline(amount float64, s series.InflationSeries, fromDate, toDate string) ([]TimelinePoint, error) {
	if !mathutil.IsFinite(amount) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	if _, ok := s.Lookup(fromDate); !ok {
		return nil, dateNotFound(fromDate, s.Name())
	}
	if _, ok := s.Lookup(toDate); !ok {
		return nil, dateNotFound(toDate, s.Name())
	}
	points, ok := s.Between(fromDate, toDate)
	if !ok {
		return nil, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, fromDate, toDate)
	}

	base := mathutil.Multiplier(points[0].Accumulated)
	timeline := make([]TimelinePoint, 0, len(points))
	for _, p := range points {
		rate := mathutil.FromMultiplier(mathutil.Multiplier(p.Accumulated) / base)
		if !mathutil.IsFinite(rate) {
			return nil, fmt.Errorf("%w: inflation from %s to %s in %s is not finite", ErrInvalidRate, fromDate, p.Date, s.Name())
		}
		adjusted := amount * mathutil.Multiplier(rate)
		if err := checkResult("adjusted amount at "+p.Date, adjusted); err != nil {
			return nil, err
		}
		timeline = append(timeline, TimelinePoint{
			Date:           p.Date,
			InflationRate:  rate,
			AdjustedAmount: adjusted,
		})
	}
	return timeline, nil
}

// checkResult rejects results that overflowed float64 even though the inputs
// were finite.
func checkResult(name string, v float64) error {
	if !mathutil.IsFinite(v) {
		return fmt.Errorf("%w: %s overflows", ErrInvalidAmount, name)
	}
	return nil
}

func checkCurrency(c series.Currency) error {
	for _, known := range series.Currencies {
		if c == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidCurrency, c)
}
