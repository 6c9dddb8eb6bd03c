package inflation

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/inflation-calculator/pkg/series"
)

const tolerance = 1e-9

func arsSeries() series.InflationSeries {
	return series.NewInflationSeries(series.ARS, []series.InflationPoint{
		{Date: "2020-01", Rate: 2.3, Accumulated: 0},
		{Date: "2020-06", Rate: 2.2, Accumulated: 13.6},
		{Date: "2020-12", Rate: 4.0, Accumulated: 35.4},
	})
}

func usdSeries() series.InflationSeries {
	return series.NewInflationSeries(series.USD, []series.InflationPoint{
		{Date: "2020-01", Rate: 0.1, Accumulated: 0},
		{Date: "2020-06", Rate: 0.6, Accumulated: -0.5},
		{Date: "2020-12", Rate: 0.2, Accumulated: 1.3},
	})
}

func exchangeSeries() series.ExchangeSeries {
	return series.NewExchangeSeries([]series.ExchangeRatePoint{
		{Date: "2020-01", Official: 60.0, Blue: 80.0},
		{Date: "2020-06", Official: 70.0, Blue: 126.0},
		{Date: "2020-12", Official: 84.0, Blue: 150.0},
	})
}

func TestAccumulatedBetween(t *testing.T) {
	engine := NewEngine(nil)
	s := arsSeries()

	tests := []struct {
		name     string
		from     string
		to       string
		expected float64
	}{
		{"Base to end", "2020-01", "2020-12", 35.4},
		{"Rebased start", "2020-06", "2020-12", (1.354/1.136 - 1) * 100},
		{"Reversed gives inverse", "2020-12", "2020-01", (1/1.354 - 1) * 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.AccumulatedBetween(s, tt.from, tt.to)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.expected) > tolerance {
				t.Errorf("AccumulatedBetween(%s, %s) = %v, expected %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestAccumulatedBetweenSameDateIsZero(t *testing.T) {
	engine := NewEngine(nil)
	for _, s := range []series.InflationSeries{arsSeries(), usdSeries()} {
		for _, date := range s.Dates() {
			got, err := engine.AccumulatedBetween(s, date, date)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got) > tolerance {
				t.Errorf("%s %s: expected 0, got %v", s.Name(), date, got)
			}
		}
	}
}

func TestAccumulatedBetweenSymmetry(t *testing.T) {
	engine := NewEngine(nil)
	s := usdSeries()
	dates := s.Dates()
	for _, a := range dates {
		for _, b := range dates {
			x, err := engine.AccumulatedBetween(s, a, b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			y, err := engine.AccumulatedBetween(s, b, a)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if product := (1 + x/100) * (1 + y/100); math.Abs(product-1) > tolerance {
				t.Errorf("%s/%s: product of multipliers = %v, expected 1", a, b, product)
			}
		}
	}
}

func TestAccumulatedBetweenMissingDate(t *testing.T) {
	engine := NewEngine(nil)

	_, err := engine.AccumulatedBetween(arsSeries(), "1999-01", "2020-01")
	if !errors.Is(err, ErrDateNotFound) {
		t.Fatalf("expected ErrDateNotFound, got %v", err)
	}
	var notFound *DateNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *DateNotFoundError, got %T", err)
	}
	if notFound.Date != "1999-01" || notFound.Series != "inflation:ARS" {
		t.Errorf("unexpected error detail: %+v", notFound)
	}

	_, err = engine.AccumulatedBetween(arsSeries(), "2020-01", "2030-01")
	if !errors.As(err, &notFound) || notFound.Date != "2030-01" {
		t.Errorf("expected missing to date, got %v", err)
	}
}

func TestAdjust(t *testing.T) {
	engine := NewEngine(nil)
	s := arsSeries()

	result, err := engine.Adjust(100000, s, "2020-01", "2020-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rate, _ := engine.AccumulatedBetween(s, "2020-01", "2020-12")
	if result.AdjustedAmount != 100000*(1+rate/100) {
		t.Errorf("adjusted amount %v does not match formula", result.AdjustedAmount)
	}
	if math.Abs(result.AdjustedAmount-135400) > 1e-6 {
		t.Errorf("adjusted amount = %v, expected 135400", result.AdjustedAmount)
	}
	if result.OriginalAmount != 100000 || result.FromDate != "2020-01" || result.ToDate != "2020-12" || result.Currency != series.ARS {
		t.Errorf("result does not echo inputs: %+v", result)
	}
}

func TestAdjustRejectsNonFinite(t *testing.T) {
	engine := NewEngine(nil)
	for _, amount := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := engine.Adjust(amount, arsSeries(), "2020-01", "2020-12"); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Adjust(%v) expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestConvert(t *testing.T) {
	engine := NewEngine(nil)
	ex := exchangeSeries()

	tests := []struct {
		name     string
		amount   float64
		from     series.Currency
		to       series.Currency
		rateType series.RateType
		expected float64
		rate     float64
	}{
		{"ARS to USD blue", 100000, series.ARS, series.USD, series.Blue, 1250, 80},
		{"ARS to USD official", 60000, series.ARS, series.USD, series.Official, 1000, 60},
		{"USD to ARS blue", 1000, series.USD, series.ARS, series.Blue, 80000, 80},
		{"Same currency keeps amount", 500, series.USD, series.USD, series.Official, 500, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Convert(tt.amount, tt.from, tt.to, "2020-01", tt.rateType, ex)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got.ConvertedAmount-tt.expected) > tolerance {
				t.Errorf("converted = %v, expected %v", got.ConvertedAmount, tt.expected)
			}
			if got.ExchangeRate != tt.rate {
				t.Errorf("rate = %v, expected %v", got.ExchangeRate, tt.rate)
			}
		})
	}
}

func TestConvertRoundTrip(t *testing.T) {
	engine := NewEngine(nil)
	ex := exchangeSeries()
	for _, date := range ex.Dates() {
		for _, rt := range []series.RateType{series.Official, series.Blue} {
			toUSD, err := engine.Convert(123456.78, series.ARS, series.USD, date, rt, ex)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			back, err := engine.Convert(toUSD.ConvertedAmount, series.USD, series.ARS, date, rt, ex)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(back.ConvertedAmount-123456.78) > 1e-6 {
				t.Errorf("%s %s round trip = %v", date, rt, back.ConvertedAmount)
			}
		}
	}
}

func TestConvertErrors(t *testing.T) {
	engine := NewEngine(nil)
	ex := exchangeSeries()

	_, err := engine.Convert(100, series.ARS, series.USD, "1999-01", series.Blue, ex)
	var notFound *DateNotFoundError
	if !errors.As(err, &notFound) || notFound.Series != "exchange" {
		t.Errorf("expected DateNotFound in exchange series, got %v", err)
	}

	if _, err := engine.Convert(100, series.ARS, series.USD, "2020-01", "mep", ex); !errors.Is(err, ErrInvalidRateType) {
		t.Errorf("expected ErrInvalidRateType, got %v", err)
	}
	if _, err := engine.Convert(100, "EUR", series.USD, "2020-01", series.Blue, ex); !errors.Is(err, ErrInvalidCurrency) {
		t.Errorf("expected ErrInvalidCurrency, got %v", err)
	}
	if _, err := engine.Convert(math.NaN(), series.ARS, series.USD, "2020-01", series.Blue, ex); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestDollarizationExample(t *testing.T) {
	engine := NewEngine(nil)

	result, err := engine.Dollarization(100000, "2020-01", "2020-12", series.Blue, arsSeries(), usdSeries(), exchangeSeries())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"initial USD", result.InitialConversion.ConvertedAmount, 1250},
		{"initial rate", result.InitialConversion.ExchangeRate, 80},
		{"adjusted USD", result.USDAdjustment.AdjustedAmount, 1266.25},
		{"USD inflation", result.USDAdjustment.InflationRate, 1.3},
		{"final local", result.FinalConversion.ConvertedAmount, 189937.5},
		{"final rate", result.FinalConversion.ExchangeRate, 150},
		{"adjusted local", result.LocalAdjustment.AdjustedAmount, 135400},
		{"gain", result.GainPercent, (189937.5 - 135400) / 135400 * 100},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.expected) > 1e-6 {
			t.Errorf("%s = %v, expected %v", c.name, c.got, c.expected)
		}
	}
	if math.Abs(result.GainPercent-40.28) > 0.01 {
		t.Errorf("gain = %v, expected about 40.28", result.GainPercent)
	}
	if !result.WasWorthIt {
		t.Errorf("expected WasWorthIt to be true")
	}
	if result.Outcome != OutcomeFavorable {
		t.Errorf("outcome = %s, expected %s", result.Outcome, OutcomeFavorable)
	}
}

func TestDollarizationOutcome(t *testing.T) {
	usd := series.NewInflationSeries(series.USD, []series.InflationPoint{
		{Date: "2020-01", Accumulated: 0},
		{Date: "2020-12", Accumulated: 0},
	})

	tests := []struct {
		name      string
		arsEnd    float64
		blueEnd   float64
		threshold float64
		worth     bool
		outcome   Outcome
	}{
		// 1250 USD * rate vs 135400 ARS
		{"Favorable", 35.4, 120, 1, true, OutcomeFavorable},
		{"Unfavorable", 35.4, 100, 1, false, OutcomeUnfavorable},
		{"Mixed above", 35.4, 108.8, 1, true, OutcomeMixed},
		{"Mixed below", 35.4, 108, 1, false, OutcomeMixed},
		// 1250 USD * 80 vs 100000 ARS
		{"Exact tie is not worth it", 0, 80, 0, false, OutcomeUnfavorable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ars := series.NewInflationSeries(series.ARS, []series.InflationPoint{
				{Date: "2020-01", Accumulated: 0},
				{Date: "2020-12", Accumulated: tt.arsEnd},
			})
			ex := series.NewExchangeSeries([]series.ExchangeRatePoint{
				{Date: "2020-01", Official: 60, Blue: 80},
				{Date: "2020-12", Official: 84, Blue: tt.blueEnd},
			})
			engine := NewEngine(nil).WithMixedThreshold(tt.threshold)
			result, err := engine.Dollarization(100000, "2020-01", "2020-12", series.Blue, ars, usd, ex)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.WasWorthIt != tt.worth {
				t.Errorf("WasWorthIt = %v, expected %v (gain %v)", result.WasWorthIt, tt.worth, result.GainPercent)
			}
			if result.Outcome != tt.outcome {
				t.Errorf("Outcome = %s, expected %s (gain %v)", result.Outcome, tt.outcome, result.GainPercent)
			}
		})
	}
}

func TestDollarizationMissingDate(t *testing.T) {
	engine := NewEngine(nil)
	usd := series.NewInflationSeries(series.USD, []series.InflationPoint{
		{Date: "2020-01", Accumulated: 0},
	})

	result, err := engine.Dollarization(100000, "2020-01", "2020-12", series.Blue, arsSeries(), usd, exchangeSeries())
	if !errors.Is(err, ErrDateNotFound) {
		t.Fatalf("expected ErrDateNotFound, got %v", err)
	}
	if result != (DollarizationResult{}) {
		t.Errorf("expected no partial result, got %+v", result)
	}
}

func TestCrossConversion(t *testing.T) {
	engine := NewEngine(nil)

	result, err := engine.CrossConversion(100000, series.ARS, series.USD, "2020-01", "2020-12",
		series.Blue, usdSeries(), exchangeSeries())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(result.InitialConversion.ConvertedAmount-1250) > tolerance {
		t.Errorf("initial conversion = %v, expected 1250", result.InitialConversion.ConvertedAmount)
	}
	if math.Abs(result.InflationAdjusted.AdjustedAmount-1266.25) > 1e-6 {
		t.Errorf("adjusted = %v, expected 1266.25", result.InflationAdjusted.AdjustedAmount)
	}
	future := 100000.0 / 150
	if math.Abs(result.FutureConversion.ConvertedAmount-future) > tolerance {
		t.Errorf("future conversion = %v, expected %v", result.FutureConversion.ConvertedAmount, future)
	}
	if math.Abs(result.Difference-(1266.25-future)) > 1e-6 {
		t.Errorf("difference = %v", result.Difference)
	}
	if !result.AdjustedAhead {
		t.Errorf("expected the inflation-adjusted amount to be ahead")
	}

	if _, err := engine.CrossConversion(100, series.ARS, series.USD, "2020-01", "2020-12",
		series.Blue, arsSeries(), exchangeSeries()); !errors.Is(err, ErrInvalidCurrency) {
		t.Errorf("expected ErrInvalidCurrency for mismatched series, got %v", err)
	}
}

func TestTimeline(t *testing.T) {
	engine := NewEngine(nil)
	s := arsSeries()

	timeline, err := engine.Timeline(1000, s, "2020-06", "2020-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(timeline) != 2 {
		t.Fatalf("expected 2 points, got %d", len(timeline))
	}
	if timeline[0].InflationRate != 0 || timeline[0].AdjustedAmount != 1000 {
		t.Errorf("first point should be the unadjusted amount, got %+v", timeline[0])
	}
	last, _ := engine.Adjust(1000, s, "2020-06", "2020-12")
	if math.Abs(timeline[1].AdjustedAmount-last.AdjustedAmount) > tolerance {
		t.Errorf("last point = %v, expected %v", timeline[1].AdjustedAmount, last.AdjustedAmount)
	}

	if _, err := engine.Timeline(1000, s, "2020-12", "2020-01"); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := engine.Timeline(1000, s, "1999-01", "2020-01"); !errors.Is(err, ErrDateNotFound) {
		t.Errorf("expected ErrDateNotFound, got %v", err)
	}
}

func TestWithMixedThreshold(t *testing.T) {
	base := NewEngine(nil)
	custom := base.WithMixedThreshold(5)
	if base.MixedThreshold() != 1.0 {
		t.Errorf("base threshold changed to %v", base.MixedThreshold())
	}
	if custom.MixedThreshold() != 5 {
		t.Errorf("custom threshold = %v, expected 5", custom.MixedThreshold())
	}
	if NewEngine(nil).WithMixedThreshold(-1).MixedThreshold() != 0 {
		t.Errorf("negative threshold should clamp to zero")
	}
}

func TestResultOverflow(t *testing.T) {
	engine := NewEngine(nil)

	if _, err := engine.Adjust(math.MaxFloat64, arsSeries(), "2020-01", "2020-12"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Adjust(MaxFloat64) expected ErrInvalidAmount, got %v", err)
	}
	if _, err := engine.Convert(math.MaxFloat64, series.USD, series.ARS, "2020-01", series.Official, exchangeSeries()); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Convert(MaxFloat64) expected ErrInvalidAmount, got %v", err)
	}
	if _, err := engine.Timeline(math.MaxFloat64, arsSeries(), "2020-01", "2020-12"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Timeline(MaxFloat64) expected ErrInvalidAmount, got %v", err)
	}
	if _, err := engine.Dollarization(math.MaxFloat64, "2020-01", "2020-12", series.Official, arsSeries(), usdSeries(), exchangeSeries()); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Dollarization(MaxFloat64) expected ErrInvalidAmount, got %v", err)
	}

	// A large but representable result is still accepted.
	if _, err := engine.Adjust(1e300, arsSeries(), "2020-01", "2020-12"); err != nil {
		t.Errorf("Adjust(1e300) unexpected error: %v", err)
	}
}

func TestAccumulatedBetweenRejectsCollapsedSeries(t *testing.T) {
	s := series.NewInflationSeries(series.ARS, []series.InflationPoint{
		{Date: "2020-01", Accumulated: -100},
		{Date: "2020-02", Accumulated: 5},
	})
	if _, err := NewEngine(nil).AccumulatedBetween(s, "2020-01", "2020-02"); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("expected ErrInvalidRate, got %v", err)
	}
}
