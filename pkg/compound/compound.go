// Package compound projects an investment under periodic compounding with
// optional contributions and pessimistic/optimistic rate scenarios.
package compound

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/inflation-calculator/pkg/constants"
	"github.com/iwvelando/inflation-calculator/pkg/datetime"
	"github.com/iwvelando/inflation-calculator/pkg/inflation"
	"github.com/iwvelando/inflation-calculator/pkg/mathutil"
	"github.com/iwvelando/inflation-calculator/pkg/series"
	"go.uber.org/zap"
)

// Frequency is how often interest is compounded.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Annual  Frequency = "annual"
)

// ParseFrequency accepts a frequency name in any case.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := periodsPerYear[f]; !ok {
		return "", fmt.Errorf("%w: unsupported compounding frequency %q", inflation.ErrInvalidPeriod, s)
	}
	return f, nil
}

var periodsPerYear = map[Frequency]int{
	Daily:   365,
	Weekly:  52,
	Monthly: constants.MonthsPerYear,
	Annual:  1,
}

// PeriodsPerYear returns the number of compounding periods in a year.
func (f Frequency) PeriodsPerYear() int {
	return periodsPerYear[f]
}

// ContributionPerPeriod rescales a monthly contribution to the frequency.
// Daily and weekly use a flat 30 days and 4 weeks per month.
func (f Frequency) ContributionPerPeriod(monthly float64) float64 {
	switch f {
	case Daily:
		return monthly / constants.DaysPerMonth
	case Weekly:
		return monthly / constants.WeeksPerMonth
	case Annual:
		return monthly * constants.MonthsPerYear
	}
	return monthly
}

// Input holds the projection parameters.
type Input struct {
	Principal           float64
	MonthlyContribution float64
	AnnualRatePercent   float64
	Years               float64
	Frequency           Frequency
	RateVariancePercent float64
	// MaxPoints caps the sampled schedule; zero means DefaultMaxChartPoints.
	MaxPoints int
}

// SchedulePoint is one sampled period of the projection.
type SchedulePoint struct {
	Period      int      `json:"period"`
	Years       float64  `json:"years"`
	Label       string   `json:"label"`
	Capital     float64  `json:"capital"`
	Interest    float64  `json:"interest"`
	Total       float64  `json:"total"`
	Pessimistic *float64 `json:"pessimistic,omitempty"`
	Optimistic  *float64 `json:"optimistic,omitempty"`
}

// Projection is the outcome of Project.
type Projection struct {
	Input            Input           `json:"-"`
	Periods          int             `json:"periods"`
	FinalAmount      float64         `json:"finalAmount"`
	TotalContributed float64         `json:"totalContributed"`
	TotalInterest    float64         `json:"totalInterest"`
	HasVariance      bool            `json:"hasVariance"`
	PessimisticFinal float64         `json:"pessimisticFinal,omitempty"`
	OptimisticFinal  float64         `json:"optimisticFinal,omitempty"`
	Schedule         []SchedulePoint `json:"schedule"`
}

// InflationComparison measures the projected final amount against inflation
// over the same horizon.
type InflationComparison struct {
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	InflationRate   float64 `json:"inflationRate"`
	AdjustedAmount  float64 `json:"adjustedAmount"`
	RealGainPercent float64 `json:"realGainPercent"`
	BeatsInflation  bool    `json:"beatsInflation"`
}

// Projector runs compound interest projections.
type Projector struct {
	logger *zap.Logger
}

// NewProjector creates a new projector with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewProjector(logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{logger: logger}
}

// Validate checks the projection bounds.
func (in Input) Validate() error {
	if !mathutil.AllFinite(in.Principal, in.MonthlyContribution) || in.Principal < 0 || in.MonthlyContribution < 0 {
		return fmt.Errorf("%w: principal %v and contribution %v must be non-negative",
			inflation.ErrInvalidAmount, in.Principal, in.MonthlyContribution)
	}
	if !mathutil.AllFinite(in.AnnualRatePercent, in.RateVariancePercent) || in.AnnualRatePercent <= 0 {
		return fmt.Errorf("%w: annual rate %v must be positive", inflation.ErrInvalidRate, in.AnnualRatePercent)
	}
	if in.RateVariancePercent < 0 {
		return fmt.Errorf("%w: rate variance %v must not be negative", inflation.ErrInvalidRate, in.RateVariancePercent)
	}
	if !mathutil.IsFinite(in.Years) || in.Years <= 0 || in.Years > constants.MaxProjectionYears {
		return fmt.Errorf("%w: years %v must be in (0, %d]", inflation.ErrInvalidPeriod, in.Years, constants.MaxProjectionYears)
	}
	if in.Frequency.PeriodsPerYear() == 0 {
		return fmt.Errorf("%w: unsupported compounding frequency %q", inflation.ErrInvalidPeriod, in.Frequency)
	}
	if in.MaxPoints < 0 {
		return fmt.Errorf("%w: max points %d must not be negative", inflation.ErrInvalidPeriod, in.MaxPoints)
	}
	return nil
}

// Project runs the recurrence balance = balance*(1+r/n) + contribution for
// floor(years*n) periods and samples the schedule for charting. Period 0 and
// the final period are always sampled.
func (p *Projector) Project(in Input) (Projection, error) {
	if err := in.Validate(); err != nil {
		return Projection{}, err
	}

	ppy := in.Frequency.PeriodsPerYear()
	totalPeriods := int(math.Floor(in.Years * float64(ppy)))
	contribution := in.Frequency.ContributionPerPeriod(in.MonthlyContribution)
	hasVariance := in.RateVariancePercent > 0

	ratePerPeriod := in.AnnualRatePercent / constants.PercentageMultiplier / float64(ppy)
	pessimisticRate := (in.AnnualRatePercent - in.RateVariancePercent) / constants.PercentageMultiplier / float64(ppy)
	optimisticRate := (in.AnnualRatePercent + in.RateVariancePercent) / constants.PercentageMultiplier / float64(ppy)

	maxPoints := in.MaxPoints
	if maxPoints == 0 {
		maxPoints = constants.DefaultMaxChartPoints
	}
	stride := SamplingStride(totalPeriods, maxPoints)

	balance, pessimistic, optimistic := in.Principal, in.Principal, in.Principal
	contributed := in.Principal
	schedule := make([]SchedulePoint, 0, totalPeriods/stride+2)

	for i := 0; i <= totalPeriods; i++ {
		if i%stride == 0 || i == totalPeriods {
			years := float64(i) / float64(ppy)
			point := SchedulePoint{
				Period:   i,
				Years:    mathutil.RoundTo(years, 1),
				Label:    periodLabel(years),
				Capital:  contributed,
				Interest: math.Max(0, balance-contributed),
				Total:    balance,
			}
			if hasVariance {
				pess, opt := pessimistic, optimistic
				point.Pessimistic = &pess
				point.Optimistic = &opt
			}
			schedule = append(schedule, point)
		}

		if i < totalPeriods {
			balance = balance*(1+ratePerPeriod) + contribution
			contributed += contribution
			if hasVariance {
				pessimistic = pessimistic*(1+pessimisticRate) + contribution
				optimistic = optimistic*(1+optimisticRate) + contribution
			}
		}
	}

	totalContributed := in.Principal + contribution*float64(totalPeriods)
	if !mathutil.AllFinite(balance, pessimistic, optimistic, totalContributed) {
		return Projection{}, fmt.Errorf("%w: projection of %v over %v years overflows",
			inflation.ErrInvalidAmount, in.Principal, in.Years)
	}
	projection := Projection{
		Input:            in,
		Periods:          totalPeriods,
		FinalAmount:      balance,
		TotalContributed: totalContributed,
		TotalInterest:    balance - totalContributed,
		HasVariance:      hasVariance,
		Schedule:         schedule,
	}
	if hasVariance {
		projection.PessimisticFinal = pessimistic
		projection.OptimisticFinal = optimistic
	}

	p.logger.Debug("compound interest projection",
		zap.String("op", "compound.Project"),
		zap.String("frequency", string(in.Frequency)),
		zap.Int("periods", totalPeriods),
		zap.Int("samples", len(schedule)),
		zap.Float64("finalAmount", balance),
	)
	return projection, nil
}

// SamplingStride returns the smallest stride that keeps the sampled schedule
// within maxPoints+1 points, i.e. max(1, ceil(totalPeriods/maxPoints)). It
// equals floor(totalPeriods/maxPoints) whenever maxPoints divides totalPeriods.
func SamplingStride(totalPeriods, maxPoints int) int {
	if maxPoints <= 0 {
		return 1
	}
	stride := (totalPeriods + maxPoints - 1) / maxPoints
	if stride < 1 {
		return 1
	}
	return stride
}

func periodLabel(years float64) string {
	if years >= 1 {
		return fmt.Sprintf("Año %d", int(math.Round(years)))
	}
	return fmt.Sprintf("%d meses", int(math.Round(years*constants.MonthsPerYear)))
}

// CompareInflation carries the final amount across the projection horizon
// starting at startDate, which is extended by whole years plus the rounded
// fractional months. A positive real gain beats inflation.
func CompareInflation(projection Projection, engine *inflation.Engine, s series.InflationSeries, startDate string) (InflationComparison, error) {
	endDate, err := datetime.OffsetYears(startDate, projection.Input.Years)
	if err != nil {
		return InflationComparison{}, fmt.Errorf("failed to compute end date from %s: %w", startDate, err)
	}
	adjusted, err := engine.Adjust(projection.FinalAmount, s, startDate, endDate)
	if err != nil {
		return InflationComparison{}, err
	}
	realGain := mathutil.PercentChange(adjusted.AdjustedAmount, projection.FinalAmount)
	return InflationComparison{
		StartDate:       startDate,
		EndDate:         endDate,
		InflationRate:   adjusted.InflationRate,
		AdjustedAmount:  adjusted.AdjustedAmount,
		RealGainPercent: realGain,
		BeatsInflation:  realGain > 0,
	}, nil
}
