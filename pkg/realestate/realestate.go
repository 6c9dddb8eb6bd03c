// Package realestate normalizes property prices per square meter and carries
// them across time with the inflation engine.
package realestate

import (
	"fmt"

	"github.com/iwvelando/inflation-calculator/pkg/inflation"
	"github.com/iwvelando/inflation-calculator/pkg/mathutil"
	"github.com/iwvelando/inflation-calculator/pkg/series"
	"github.com/iwvelando/inflation-calculator/pkg/validation"
)

// Valuation is a purchase price normalized by area and adjusted for inflation.
type Valuation struct {
	Price                float64         `json:"price"`
	Area                 float64         `json:"area"`
	Currency             series.Currency `json:"currency"`
	FromDate             string          `json:"fromDate"`
	ToDate               string          `json:"toDate"`
	InflationRate        float64         `json:"inflationRate"`
	PricePerArea         float64         `json:"pricePerArea"`
	AdjustedPrice        float64         `json:"adjustedPrice"`
	AdjustedPricePerArea float64         `json:"adjustedPricePerArea"`
}

// GainLoss compares a current sale price against a valuation.
type GainLoss struct {
	CurrentPrice        float64 `json:"currentPrice"`
	CurrentPricePerArea float64 `json:"currentPricePerArea"`
	RealChangePercent   float64 `json:"realChangePercent"`
	IsProfit            bool    `json:"isProfit"`
}

// TimelinePoint is the inflation-adjusted price per area at one month.
type TimelinePoint struct {
	Date                 string  `json:"date"`
	InflationRate        float64 `json:"inflationRate"`
	AdjustedPricePerArea float64 `json:"adjustedPricePerArea"`
}

// Valuator values properties with an inflation engine.
type Valuator struct {
	engine *inflation.Engine
}

// NewValuator creates a valuator. A nil engine gets a default one.
func NewValuator(engine *inflation.Engine) *Valuator {
	if engine == nil {
		engine = inflation.NewEngine(nil)
	}
	return &Valuator{engine: engine}
}

// Value adjusts price from fromDate to toDate and divides both prices by area.
func (v *Valuator) Value(price, area float64, s series.InflationSeries, fromDate, toDate string) (Valuation, error) {
	if err := validation.ValidateAmount("price", price); err != nil {
		return Valuation{}, err
	}
	if err := validation.ValidateAmount("area", area); err != nil {
		return Valuation{}, err
	}
	if err := validation.ValidateDateRange(fromDate, toDate); err != nil {
		return Valuation{}, err
	}

	adjusted, err := v.engine.Adjust(price, s, fromDate, toDate)
	if err != nil {
		return Valuation{}, fmt.Errorf("failed to adjust price: %w", err)
	}
	return Valuation{
		Price:                price,
		Area:                 area,
		Currency:             s.Currency,
		FromDate:             fromDate,
		ToDate:               toDate,
		InflationRate:        adjusted.InflationRate,
		PricePerArea:         price / area,
		AdjustedPrice:        adjusted.AdjustedAmount,
		AdjustedPricePerArea: adjusted.AdjustedAmount / area,
	}, nil
}

// GainLoss compares currentPrice per area with the adjusted price per area.
// It is a profit only when the current figure is strictly higher.
func (v *Valuator) GainLoss(val Valuation, currentPrice float64) (GainLoss, error) {
	if err := validation.ValidateAmount("current price", currentPrice); err != nil {
		return GainLoss{}, err
	}
	current := currentPrice / val.Area
	change := mathutil.PercentChange(val.AdjustedPricePerArea, current)
	return GainLoss{
		CurrentPrice:        currentPrice,
		CurrentPricePerArea: current,
		RealChangePercent:   change,
		IsProfit:            current > val.AdjustedPricePerArea,
	}, nil
}

// Timeline returns the adjusted price per area for every month of the valuation.
func (v *Valuator) Timeline(val Valuation, s series.InflationSeries) ([]TimelinePoint, error) {
	points, err := v.engine.Timeline(val.PricePerArea, s, val.FromDate, val.ToDate)
	if err != nil {
		return nil, err
	}
	timeline := make([]TimelinePoint, len(points))
	for i, p := range points {
		timeline[i] = TimelinePoint{
			Date:                 p.Date,
			InflationRate:        p.InflationRate,
			AdjustedPricePerArea: p.AdjustedAmount,
		}
	}
	return timeline, nil
}
