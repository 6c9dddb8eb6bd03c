package compound

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/inflation-calculator/pkg/inflation"
	"github.com/iwvelando/inflation-calculator/pkg/series"
)

func TestProjectKnownCase(t *testing.T) {
	projector := NewProjector(nil)

	p, err := projector.Project(Input{
		Principal:         100000,
		AnnualRatePercent: 12,
		Years:             1,
		Frequency:         Monthly,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := 100000 * math.Pow(1.01, 12)
	if math.Abs(p.FinalAmount-expected) > 1e-6 {
		t.Errorf("final amount = %v, expected %v", p.FinalAmount, expected)
	}
	if math.Abs(p.FinalAmount-112682.50) > 0.01 {
		t.Errorf("final amount = %.2f, expected 112682.50", p.FinalAmount)
	}
	if p.Periods != 12 {
		t.Errorf("periods = %d, expected 12", p.Periods)
	}
	if p.TotalContributed != 100000 {
		t.Errorf("total contributed = %v, expected 100000", p.TotalContributed)
	}
	if math.Abs(p.TotalInterest-(expected-100000)) > 1e-6 {
		t.Errorf("total interest = %v", p.TotalInterest)
	}
	if len(p.Schedule) != 13 {
		t.Errorf("schedule length = %d, expected 13", len(p.Schedule))
	}
	if p.HasVariance || p.Schedule[0].Pessimistic != nil {
		t.Errorf("no variance was requested")
	}
}

func TestProjectFrequencies(t *testing.T) {
	projector := NewProjector(nil)

	tests := []struct {
		frequency    Frequency
		periods      int
		contribution float64
	}{
		{Daily, 730, 1000.0 / 30},
		{Weekly, 104, 250},
		{Monthly, 24, 1000},
		{Annual, 2, 12000},
	}

	for _, tt := range tests {
		t.Run(string(tt.frequency), func(t *testing.T) {
			p, err := projector.Project(Input{
				Principal:           5000,
				MonthlyContribution: 1000,
				AnnualRatePercent:   10,
				Years:               2,
				Frequency:           tt.frequency,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Periods != tt.periods {
				t.Errorf("periods = %d, expected %d", p.Periods, tt.periods)
			}
			wantContributed := 5000 + tt.contribution*float64(tt.periods)
			if math.Abs(p.TotalContributed-wantContributed) > 1e-6 {
				t.Errorf("contributed = %v, expected %v", p.TotalContributed, wantContributed)
			}

			balance := 5000.0
			r := 0.10 / float64(tt.frequency.PeriodsPerYear())
			for i := 0; i < tt.periods; i++ {
				balance = balance*(1+r) + tt.contribution
			}
			if math.Abs(p.FinalAmount-balance) > 1e-6 {
				t.Errorf("final = %v, expected %v", p.FinalAmount, balance)
			}
			last := p.Schedule[len(p.Schedule)-1]
			if last.Period != tt.periods || last.Total != p.FinalAmount {
				t.Errorf("last sample = %+v, expected the final period", last)
			}
			if math.Abs(last.Capital-p.TotalContributed) > 1e-6 {
				t.Errorf("last sample capital = %v, expected %v", last.Capital, p.TotalContributed)
			}
		})
	}
}

func TestProjectSamplingBound(t *testing.T) {
	projector := NewProjector(nil)

	for _, f := range []Frequency{Daily, Weekly, Monthly, Annual} {
		for _, years := range []float64{0.5, 1, 7.3, 10, 50} {
			for _, maxPoints := range []int{0, 7, 100} {
				p, err := projector.Project(Input{
					Principal:         1000,
					AnnualRatePercent: 5,
					Years:             years,
					Frequency:         f,
					MaxPoints:         maxPoints,
				})
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				limit := maxPoints
				if limit == 0 {
					limit = 100
				}
				if len(p.Schedule) > limit+1 {
					t.Errorf("%s %.1f years cap %d: %d points exceed bound", f, years, limit, len(p.Schedule))
				}
				if p.Schedule[0].Period != 0 {
					t.Errorf("%s %.1f years: first sample is period %d", f, years, p.Schedule[0].Period)
				}
				if last := p.Schedule[len(p.Schedule)-1]; last.Period != p.Periods {
					t.Errorf("%s %.1f years: last sample is period %d, expected %d", f, years, last.Period, p.Periods)
				}
			}
		}
	}
}

func TestSamplingStride(t *testing.T) {
	tests := []struct {
		total, cap, expected int
	}{
		{0, 100, 1},
		{12, 100, 1},
		{100, 100, 1},
		{150, 100, 2},
		{200, 100, 2},
		{18250, 100, 183},
		{10, 0, 1},
	}

	for _, tt := range tests {
		if got := SamplingStride(tt.total, tt.cap); got != tt.expected {
			t.Errorf("SamplingStride(%d, %d) = %d, expected %d", tt.total, tt.cap, got, tt.expected)
		}
	}
}

func TestProjectVariance(t *testing.T) {
	projector := NewProjector(nil)

	p, err := projector.Project(Input{
		Principal:           10000,
		MonthlyContribution: 100,
		AnnualRatePercent:   10,
		Years:               3,
		Frequency:           Monthly,
		RateVariancePercent: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.HasVariance {
		t.Fatalf("expected variance scenarios")
	}
	if !(p.PessimisticFinal < p.FinalAmount && p.FinalAmount < p.OptimisticFinal) {
		t.Errorf("scenarios out of order: %v, %v, %v", p.PessimisticFinal, p.FinalAmount, p.OptimisticFinal)
	}
	for _, point := range p.Schedule {
		if point.Pessimistic == nil || point.Optimistic == nil {
			t.Fatalf("period %d is missing scenarios", point.Period)
		}
		if *point.Pessimistic > point.Total || *point.Optimistic < point.Total {
			t.Errorf("period %d scenarios do not bracket the total", point.Period)
		}
	}
	first := p.Schedule[0]
	if *first.Pessimistic != 10000 || *first.Optimistic != 10000 {
		t.Errorf("period 0 scenarios should equal the principal")
	}
}

func TestProjectLabels(t *testing.T) {
	projector := NewProjector(nil)

	p, err := projector.Project(Input{Principal: 1000, AnnualRatePercent: 5, Years: 2, Frequency: Monthly})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := map[int]string{0: "0 meses", 6: "6 meses", 12: "Año 1", 18: "Año 2", 24: "Año 2"}
	for _, point := range p.Schedule {
		if want, ok := expected[point.Period]; ok && point.Label != want {
			t.Errorf("period %d label = %q, expected %q", point.Period, point.Label, want)
		}
	}
	if p.Schedule[18].Years != 1.5 {
		t.Errorf("period 18 years = %v, expected 1.5", p.Schedule[18].Years)
	}
}

func TestProjectZeroContributionInterestFloor(t *testing.T) {
	projector := NewProjector(nil)

	p, err := projector.Project(Input{Principal: 0, MonthlyContribution: 500, AnnualRatePercent: 1, Years: 1, Frequency: Annual})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One annual period: the contribution lands after compounding.
	if p.FinalAmount != 6000 || p.TotalInterest != 0 {
		t.Errorf("final = %v interest = %v", p.FinalAmount, p.TotalInterest)
	}
	for _, point := range p.Schedule {
		if point.Interest < 0 {
			t.Errorf("period %d interest %v is negative", point.Period, point.Interest)
		}
	}
}

func TestInputValidate(t *testing.T) {
	valid := Input{Principal: 1000, AnnualRatePercent: 5, Years: 1, Frequency: Monthly}

	tests := []struct {
		name   string
		mutate func(*Input)
		target error
	}{
		{"Negative principal", func(in *Input) { in.Principal = -1 }, inflation.ErrInvalidAmount},
		{"Negative contribution", func(in *Input) { in.MonthlyContribution = -1 }, inflation.ErrInvalidAmount},
		{"NaN principal", func(in *Input) { in.Principal = math.NaN() }, inflation.ErrInvalidAmount},
		{"Zero rate", func(in *Input) { in.AnnualRatePercent = 0 }, inflation.ErrInvalidRate},
		{"Infinite rate", func(in *Input) { in.AnnualRatePercent = math.Inf(1) }, inflation.ErrInvalidRate},
		{"Negative variance", func(in *Input) { in.RateVariancePercent = -1 }, inflation.ErrInvalidRate},
		{"Zero years", func(in *Input) { in.Years = 0 }, inflation.ErrInvalidPeriod},
		{"Over cap", func(in *Input) { in.Years = 50.5 }, inflation.ErrInvalidPeriod},
		{"Unknown frequency", func(in *Input) { in.Frequency = "hourly" }, inflation.ErrInvalidPeriod},
		{"Negative max points", func(in *Input) { in.MaxPoints = -1 }, inflation.ErrInvalidPeriod},
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	fifty := valid
	fifty.Years = 50
	if err := fifty.Validate(); err != nil {
		t.Errorf("50 years should be accepted: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			if err := in.Validate(); !errors.Is(err, tt.target) {
				t.Errorf("Validate() = %v, expected %v", err, tt.target)
			}
			if _, err := NewProjector(nil).Project(in); err == nil {
				t.Errorf("Project() accepted invalid input")
			}
		})
	}
}

func TestParseFrequency(t *testing.T) {
	if f, err := ParseFrequency("Weekly"); err != nil || f != Weekly {
		t.Errorf("ParseFrequency(Weekly) = %q, %v", f, err)
	}
	if _, err := ParseFrequency("fortnightly"); !errors.Is(err, inflation.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestCompareInflation(t *testing.T) {
	s := series.NewInflationSeries(series.ARS, []series.InflationPoint{
		{Date: "2022-01", Accumulated: 0},
		{Date: "2023-07", Accumulated: 50},
		{Date: "2024-01", Accumulated: 100},
	})
	engine := inflation.NewEngine(nil)

	tests := []struct {
		name    string
		years   float64
		rate    float64
		endDate string
		beats   bool
	}{
		{"Two years loses to inflation", 2, 20, "2024-01", false},
		{"Fractional years", 1.5, 40, "2023-07", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProjector(nil).Project(Input{Principal: 1000, AnnualRatePercent: tt.rate, Years: tt.years, Frequency: Monthly})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			cmp, err := CompareInflation(p, engine, s, "2022-01")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cmp.EndDate != tt.endDate {
				t.Errorf("end date = %s, expected %s", cmp.EndDate, tt.endDate)
			}
			adjusted := p.FinalAmount * (1 + cmp.InflationRate/100)
			if math.Abs(cmp.AdjustedAmount-adjusted) > 1e-6 {
				t.Errorf("adjusted = %v, expected %v", cmp.AdjustedAmount, adjusted)
			}
			realGain := (p.FinalAmount - adjusted) / adjusted * 100
			if math.Abs(cmp.RealGainPercent-realGain) > 1e-9 {
				t.Errorf("real gain = %v, expected %v", cmp.RealGainPercent, realGain)
			}
			if cmp.BeatsInflation != tt.beats {
				t.Errorf("beats inflation = %v, expected %v", cmp.BeatsInflation, tt.beats)
			}
		})
	}

	p, _ := NewProjector(nil).Project(Input{Principal: 1000, AnnualRatePercent: 5, Years: 10, Frequency: Monthly})
	if _, err := CompareInflation(p, engine, s, "2022-01"); !errors.Is(err, inflation.ErrDateNotFound) {
		t.Errorf("expected ErrDateNotFound beyond the series, got %v", err)
	}
}

func TestProjectOverflow(t *testing.T) {
	tests := []struct {
		name  string
		input Input
	}{
		{
			name:  "Huge principal",
			input: Input{Principal: 1e308, AnnualRatePercent: 100, Years: 50, Frequency: Monthly},
		},
		{
			name:  "Optimistic scenario only",
			input: Input{Principal: 1e300, AnnualRatePercent: 10, RateVariancePercent: 1000, Years: 50, Frequency: Annual},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProjector(nil).Project(tt.input); !errors.Is(err, inflation.ErrInvalidAmount) {
				t.Errorf("Project() error = %v, expected ErrInvalidAmount", err)
			}
		})
	}
}
