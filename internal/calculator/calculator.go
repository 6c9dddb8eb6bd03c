// Package calculator runs the calculations listed in a configuration file
// against a series store and collects displayable results.
package calculator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/iwvelando/inflation-calculator/internal/config"
	"github.com/iwvelando/inflation-calculator/internal/store"
	"github.com/iwvelando/inflation-calculator/pkg/compound"
	"github.com/iwvelando/inflation-calculator/pkg/datetime"
	"github.com/iwvelando/inflation-calculator/pkg/format"
	"github.com/iwvelando/inflation-calculator/pkg/inflation"
	"github.com/iwvelando/inflation-calculator/pkg/realestate"
	"github.com/iwvelando/inflation-calculator/pkg/series"
	"github.com/iwvelando/inflation-calculator/pkg/validation"
	"go.uber.org/zap"
)

// Result holds the output of one calculation.
type Result struct {
	Name string
	Type string
	Rows []Row
	// Notes are data coverage warnings raised while computing.
	Notes []string
}

// Row is one labelled figure. Value is machine readable; Display is for people.
type Row struct {
	Label   string
	Value   string
	Display string
}

type runner struct {
	ctx       context.Context
	logger    *zap.Logger
	store     store.SeriesStore
	engine    *inflation.Engine
	projector *compound.Projector
	valuator  *realestate.Valuator
}

// Run processes every active calculation in conf in order. The first failing
// calculation aborts the run and its error names the calculation.
func Run(ctx context.Context, logger *zap.Logger, conf config.Configuration, s store.SeriesStore) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := inflation.NewEngine(logger).WithMixedThreshold(conf.MixedThreshold())
	r := &runner{
		ctx:       ctx,
		logger:    logger,
		store:     s,
		engine:    engine,
		projector: compound.NewProjector(logger),
		valuator:  realestate.NewValuator(engine),
	}

	var results []Result
	for _, calc := range conf.Calculations {
		if !calc.Active {
			logger.Debug(fmt.Sprintf("skipping calculation %s because it is inactive", calc.Name),
				zap.String("op", "calculator.Run"),
			)
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := r.run(calc)
		if err != nil {
			return results, fmt.Errorf("calculation %s: %w", calc.Name, err)
		}
		results = append(results, result)

		logger.Debug("completed calculation",
			zap.String("op", "calculator.Run"),
			zap.String("name", calc.Name),
			zap.String("type", calc.Type),
			zap.Int("rows", len(result.Rows)),
		)
	}
	return results, nil
}

func (r *runner) run(calc config.Calculation) (Result, error) {
	result := Result{Name: calc.Name, Type: calc.Type}
	var err error
	switch calc.Type {
	case config.TypeAdjust:
		err = r.adjust(calc, &result)
	case config.TypeConvert:
		err = r.convert(calc, &result)
	case config.TypeDollarization:
		err = r.dollarization(calc, &result)
	case config.TypeCross:
		err = r.cross(calc, &result)
	case config.TypeCompound:
		err = r.compound(calc, &result)
	case config.TypeRealEstate:
		err = r.realEstate(calc, &result)
	default:
		err = fmt.Errorf("unsupported calculation type %q", calc.Type)
	}
	return result, err
}

func (r *runner) adjust(calc config.Calculation, result *Result) error {
	cur, err := currencyOrDefault(calc.Currency, series.ARS)
	if err != nil {
		return err
	}
	if err := validation.ValidateAmount("amount", calc.Amount); err != nil {
		return err
	}
	if err := validation.ValidateDateRange(calc.FromDate, calc.ToDate); err != nil {
		return err
	}
	s, err := r.store.InflationSeries(r.ctx, cur)
	if err != nil {
		return err
	}
	result.Notes = validation.ValidateDatesCovered(calc.Name, s.Range(), calc.FromDate, calc.ToDate)

	adjusted, err := r.engine.Adjust(calc.Amount, s, calc.FromDate, calc.ToDate)
	if err != nil {
		return err
	}
	result.add("Amount at "+datetime.DisplayDate(calc.FromDate), money(calc.Amount, cur))
	result.add("Accumulated inflation", percent(adjusted.InflationRate))
	result.add("Amount at "+datetime.DisplayDate(calc.ToDate), money(adjusted.AdjustedAmount, cur))

	if calc.Timeline {
		timeline, err := r.engine.Timeline(calc.Amount, s, calc.FromDate, calc.ToDate)
		if err != nil {
			return err
		}
		for _, p := range timeline {
			result.add(p.Date, money(p.AdjustedAmount, cur))
		}
	}
	return nil
}

func (r *runner) convert(calc config.Calculation, result *Result) error {
	from, err := currencyOrDefault(calc.FromCurrency, series.ARS)
	if err != nil {
		return err
	}
	to, err := currencyOrDefault(calc.ToCurrency, series.USD)
	if err != nil {
		return err
	}
	rateType, err := rateTypeOrDefault(calc.RateType)
	if err != nil {
		return err
	}
	if err := validation.ValidateAmount("amount", calc.Amount); err != nil {
		return err
	}
	ex, err := r.store.ExchangeSeries(r.ctx)
	if err != nil {
		return err
	}
	result.Notes = validation.ValidateDatesCovered(calc.Name, ex.Range(), calc.Date)

	conv, err := r.engine.Convert(calc.Amount, from, to, calc.Date, rateType, ex)
	if err != nil {
		return err
	}
	result.add("Amount", money(conv.OriginalAmount, from))
	result.add(fmt.Sprintf("Rate (%s, %s)", rateType, datetime.DisplayDate(calc.Date)), number(conv.ExchangeRate))
	result.add("Converted", money(conv.ConvertedAmount, to))
	return nil
}

func (r *runner) dollarization(calc config.Calculation, result *Result) error {
	rateType, err := rateTypeOrDefault(calc.RateType)
	if err != nil {
		return err
	}
	if err := validation.ValidateAmount("amount", calc.Amount); err != nil {
		return err
	}
	if err := validation.ValidateDateRange(calc.FromDate, calc.ToDate); err != nil {
		return err
	}
	ars, err := r.store.InflationSeries(r.ctx, series.ARS)
	if err != nil {
		return err
	}
	usd, err := r.store.InflationSeries(r.ctx, series.USD)
	if err != nil {
		return err
	}
	ex, err := r.store.ExchangeSeries(r.ctx)
	if err != nil {
		return err
	}
	result.Notes = validation.ValidateDatesCovered(calc.Name, ex.Range(), calc.FromDate, calc.ToDate)

	d, err := r.engine.Dollarization(calc.Amount, calc.FromDate, calc.ToDate, rateType, ars, usd, ex)
	if err != nil {
		return err
	}
	result.add("Pesos at "+datetime.DisplayDate(calc.FromDate), money(d.Amount, series.ARS))
	result.add("Dollars bought", money(d.InitialConversion.ConvertedAmount, series.USD))
	result.add("Dollars after USD inflation", money(d.USDAdjustment.AdjustedAmount, series.USD))
	result.add("Pesos from selling dollars", money(d.FinalConversion.ConvertedAmount, series.ARS))
	result.add("Pesos adjusted for inflation", money(d.LocalAdjustment.AdjustedAmount, series.ARS))
	result.add("Gain versus holding pesos", signedPercent(d.GainPercent))
	result.add("Outcome", text(string(d.Outcome)))
	return nil
}

func (r *runner) cross(calc config.Calculation, result *Result) error {
	from, err := currencyOrDefault(calc.FromCurrency, series.ARS)
	if err != nil {
		return err
	}
	to, err := currencyOrDefault(calc.ToCurrency, series.USD)
	if err != nil {
		return err
	}
	rateType, err := rateTypeOrDefault(calc.RateType)
	if err != nil {
		return err
	}
	if err := validation.ValidateAmount("amount", calc.Amount); err != nil {
		return err
	}
	if err := validation.ValidateDateRange(calc.FromDate, calc.ToDate); err != nil {
		return err
	}
	target, err := r.store.InflationSeries(r.ctx, to)
	if err != nil {
		return err
	}
	ex, err := r.store.ExchangeSeries(r.ctx)
	if err != nil {
		return err
	}
	result.Notes = validation.ValidateDatesCovered(calc.Name, ex.Range(), calc.FromDate, calc.ToDate)

	c, err := r.engine.CrossConversion(calc.Amount, from, to, calc.FromDate, calc.ToDate, rateType, target, ex)
	if err != nil {
		return err
	}
	result.add("Amount", money(c.Amount, from))
	result.add("Converted at "+datetime.DisplayDate(calc.FromDate), money(c.InitialConversion.ConvertedAmount, to))
	result.add(fmt.Sprintf("Adjusted by %s inflation", to), money(c.InflationAdjusted.AdjustedAmount, to))
	result.add("Converted at "+datetime.DisplayDate(calc.ToDate), money(c.FutureConversion.ConvertedAmount, to))
	result.add("Difference", money(c.Difference, to))
	return nil
}

func (r *runner) compound(calc config.Calculation, result *Result) error {
	freq, err := compound.ParseFrequency(calc.Frequency)
	if err != nil {
		return err
	}
	p, err := r.projector.Project(compound.Input{
		Principal:           calc.Principal,
		MonthlyContribution: calc.MonthlyContribution,
		AnnualRatePercent:   calc.AnnualRate,
		Years:               calc.Years,
		Frequency:           freq,
		RateVariancePercent: calc.RateVariance,
	})
	if err != nil {
		return err
	}
	cur, err := currencyOrDefault(calc.Currency, series.ARS)
	if err != nil {
		return err
	}

	result.add("Final amount", money(p.FinalAmount, cur))
	result.add("Total contributed", money(p.TotalContributed, cur))
	result.add("Total interest", money(p.TotalInterest, cur))
	if p.HasVariance {
		result.add("Pessimistic final", money(p.PessimisticFinal, cur))
		result.add("Optimistic final", money(p.OptimisticFinal, cur))
	}

	if calc.StartDate != "" {
		s, err := r.store.InflationSeries(r.ctx, cur)
		if err != nil {
			return err
		}
		cmp, err := compound.CompareInflation(p, r.engine, s, calc.StartDate)
		if err != nil {
			return err
		}
		result.add(fmt.Sprintf("Inflation %s to %s", datetime.DisplayDate(cmp.StartDate), datetime.DisplayDate(cmp.EndDate)),
			percent(cmp.InflationRate))
		result.add("Final amount in "+datetime.DisplayDate(cmp.StartDate)+" money",
			money(p.FinalAmount/(1+cmp.InflationRate/100), cur))
		result.add("Real gain", signedPercent(cmp.RealGainPercent))
	}

	if calc.Timeline {
		for _, point := range p.Schedule {
			result.add(point.Label, money(point.Total, cur))
		}
	}
	return nil
}

func (r *runner) realEstate(calc config.Calculation, result *Result) error {
	cur, err := currencyOrDefault(calc.Currency, series.USD)
	if err != nil {
		return err
	}
	s, err := r.store.InflationSeries(r.ctx, cur)
	if err != nil {
		return err
	}
	result.Notes = validation.ValidateDatesCovered(calc.Name, s.Range(), calc.FromDate, calc.ToDate)

	val, err := r.valuator.Value(calc.Price, calc.Area, s, calc.FromDate, calc.ToDate)
	if err != nil {
		return err
	}
	result.add("Price per m² at "+datetime.DisplayDate(calc.FromDate), money(val.PricePerArea, cur))
	result.add("Accumulated inflation", percent(val.InflationRate))
	result.add("Adjusted price", money(val.AdjustedPrice, cur))
	result.add("Adjusted price per m²", money(val.AdjustedPricePerArea, cur))

	if calc.CurrentPrice > 0 {
		gl, err := r.valuator.GainLoss(val, calc.CurrentPrice)
		if err != nil {
			return err
		}
		result.add("Current price per m²", money(gl.CurrentPricePerArea, cur))
		result.add("Real change", signedPercent(gl.RealChangePercent))
		result.add("Profit", text(strconv.FormatBool(gl.IsProfit)))
	}

	if calc.Timeline {
		timeline, err := r.valuator.Timeline(val, s)
		if err != nil {
			return err
		}
		for _, p := range timeline {
			result.add(p.Date, money(p.AdjustedPricePerArea, cur))
		}
	}
	return nil
}

func currencyOrDefault(code string, def series.Currency) (series.Currency, error) {
	if code == "" {
		return def, nil
	}
	cur, err := series.ParseCurrency(code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", inflation.ErrInvalidCurrency, err)
	}
	return cur, nil
}

func rateTypeOrDefault(name string) (series.RateType, error) {
	if name == "" {
		return series.Official, nil
	}
	rt, err := series.ParseRateType(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", inflation.ErrInvalidRateType, err)
	}
	return rt, nil
}

type cell struct {
	value   string
	display string
}

func (r *Result) add(label string, c cell) {
	r.Rows = append(r.Rows, Row{Label: label, Value: c.value, Display: c.display})
}

func money(amount float64, cur series.Currency) cell {
	return cell{value: format.Plain(amount), display: format.Money(amount, cur)}
}

func number(x float64) cell {
	return cell{value: format.Plain(x), display: format.Number(x)}
}

func percent(pct float64) cell {
	return cell{value: format.Plain(pct), display: format.Percent(pct)}
}

func signedPercent(pct float64) cell {
	return cell{value: format.Plain(pct), display: format.SignedPercent(pct)}
}

func text(s string) cell {
	return cell{value: s, display: s}
}
