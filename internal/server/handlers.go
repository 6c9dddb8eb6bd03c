package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/iwvelando/inflation-calculator/pkg/compound"
	"github.com/iwvelando/inflation-calculator/pkg/inflation"
	"github.com/iwvelando/inflation-calculator/pkg/realestate"
	"github.com/iwvelando/inflation-calculator/pkg/series"
	"github.com/iwvelando/inflation-calculator/pkg/validation"
)

type inflationSeriesResponse struct {
	Currency series.Currency         `json:"currency"`
	Range    series.DateRange        `json:"range"`
	Points   []series.InflationPoint `json:"points"`
}

type exchangeSeriesResponse struct {
	Range  series.DateRange           `json:"range"`
	Points []series.ExchangeRatePoint `json:"points"`
}

// handleInflationSeries serves a currency's series, optionally restricted
// with ?from=YYYY-MM&to=YYYY-MM.
func (h *handler) handleInflationSeries(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleInflationSeries"
	cur, err := series.ParseCurrency(chi.URLParam(r, "currency"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	s, err := h.store.InflationSeries(r.Context(), cur)
	if err != nil {
		h.fail(w, err, op)
		return
	}

	points := s.Points
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from != "" || to != "" {
		rng := s.Range()
		if from == "" {
			from = rng.Min
		}
		if to == "" {
			to = rng.Max
		}
		var ok bool
		if points, ok = s.Between(from, to); !ok {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid range %s to %s", from, to), op)
			return
		}
	}

	h.writeJSON(w, http.StatusOK, inflationSeriesResponse{Currency: cur, Range: s.Range(), Points: points})
}

func (h *handler) handleExchangeRates(w http.ResponseWriter, r *http.Request) {
	ex, err := h.store.ExchangeSeries(r.Context())
	if err != nil {
		h.fail(w, err, "server.handleExchangeRates")
		return
	}
	h.writeJSON(w, http.StatusOK, exchangeSeriesResponse{Range: ex.Range(), Points: ex.Points})
}

type adjustRequest struct {
	Amount   float64 `json:"amount" validate:"gt=0"`
	Currency string  `json:"currency" validate:"required,oneof=ARS USD ars usd"`
	FromDate string  `json:"fromDate" validate:"required,datetime=2006-01"`
	ToDate   string  `json:"toDate" validate:"required,datetime=2006-01"`
	Timeline bool    `json:"timeline"`
}

type adjustResponse struct {
	Result   inflation.CalculationResult `json:"result"`
	Timeline []inflation.TimelinePoint   `json:"timeline,omitempty"`
}

func (h *handler) handleAdjust(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAdjust"
	var req adjustRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	if err := validation.ValidateDateRange(req.FromDate, req.ToDate); err != nil {
		h.fail(w, err, op)
		return
	}
	cur, _ := series.ParseCurrency(req.Currency)
	s, err := h.store.InflationSeries(r.Context(), cur)
	if err != nil {
		h.fail(w, err, op)
		return
	}

	var resp adjustResponse
	if resp.Result, err = h.engine.Adjust(req.Amount, s, req.FromDate, req.ToDate); err != nil {
		h.fail(w, err, op)
		return
	}
	if req.Timeline {
		if resp.Timeline, err = h.engine.Timeline(req.Amount, s, req.FromDate, req.ToDate); err != nil {
			h.fail(w, err, op)
			return
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

type convertRequest struct {
	Amount       float64 `json:"amount" validate:"gt=0"`
	FromCurrency string  `json:"fromCurrency" validate:"required,oneof=ARS USD ars usd"`
	ToCurrency   string  `json:"toCurrency" validate:"required,oneof=ARS USD ars usd"`
	Date         string  `json:"date" validate:"required,datetime=2006-01"`
	RateType     string  `json:"rateType" validate:"omitempty,oneof=official blue"`
}

func (h *handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConvert"
	var req convertRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	from, _ := series.ParseCurrency(req.FromCurrency)
	to, _ := series.ParseCurrency(req.ToCurrency)
	ex, err := h.store.ExchangeSeries(r.Context())
	if err != nil {
		h.fail(w, err, op)
		return
	}

	result, err := h.engine.Convert(req.Amount, from, to, req.Date, rateTypeOrOfficial(req.RateType), ex)
	if err != nil {
		h.fail(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

type dollarizationRequest struct {
	Amount   float64 `json:"amount" validate:"gt=0"`
	FromDate string  `json:"fromDate" validate:"required,datetime=2006-01"`
	ToDate   string  `json:"toDate" validate:"required,datetime=2006-01"`
	RateType string  `json:"rateType" validate:"omitempty,oneof=official blue"`
}

func (h *handler) handleDollarization(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDollarization"
	var req dollarizationRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	if err := validation.ValidateDateRange(req.FromDate, req.ToDate); err != nil {
		h.fail(w, err, op)
		return
	}
	ars, err := h.store.InflationSeries(r.Context(), series.ARS)
	if err != nil {
		h.fail(w, err, op)
		return
	}
	usd, err := h.store.InflationSeries(r.Context(), series.USD)
	if err != nil {
		h.fail(w, err, op)
		return
	}
	ex, err := h.store.ExchangeSeries(r.Context())
	if err != nil {
		h.fail(w, err, op)
		return
	}

	result, err := h.engine.Dollarization(req.Amount, req.FromDate, req.ToDate, rateTypeOrOfficial(req.RateType), ars, usd, ex)
	if err != nil {
		h.fail(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

type crossConversionRequest struct {
	Amount       float64 `json:"amount" validate:"gt=0"`
	FromCurrency string  `json:"fromCurrency" validate:"required,oneof=ARS USD ars usd"`
	ToCurrency   string  `json:"toCurrency" validate:"required,oneof=ARS USD ars usd"`
	FromDate     string  `json:"fromDate" validate:"required,datetime=2006-01"`
	ToDate       string  `json:"toDate" validate:"required,datetime=2006-01"`
	RateType     string  `json:"rateType" validate:"omitempty,oneof=official blue"`
}

func (h *handler) handleCrossConversion(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCrossConversion"
	var req crossConversionRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	if err := validation.ValidateDateRange(req.FromDate, req.ToDate); err != nil {
		h.fail(w, err, op)
		return
	}
	from, _ := series.ParseCurrency(req.FromCurrency)
	to, _ := series.ParseCurrency(req.ToCurrency)
	target, err := h.store.InflationSeries(r.Context(), to)
	if err != nil {
		h.fail(w, err, op)
		return
	}
	ex, err := h.store.ExchangeSeries(r.Context())
	if err != nil {
		h.fail(w, err, op)
		return
	}

	result, err := h.engine.CrossConversion(req.Amount, from, to, req.FromDate, req.ToDate, rateTypeOrOfficial(req.RateType), target, ex)
	if err != nil {
		h.fail(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

type compoundRequest struct {
	Principal           float64 `json:"principal" validate:"gte=0"`
	MonthlyContribution float64 `json:"monthlyContribution" validate:"gte=0"`
	AnnualRate          float64 `json:"annualRate" validate:"gt=0"`
	Years               float64 `json:"years" validate:"gt=0,lte=50"`
	Frequency           string  `json:"frequency" validate:"required,oneof=daily weekly monthly annual"`
	RateVariance        float64 `json:"rateVariance" validate:"gte=0"`
	MaxPoints           int     `json:"maxPoints" validate:"gte=0"`
	StartDate           string  `json:"startDate" validate:"omitempty,datetime=2006-01"`
	Currency            string  `json:"currency" validate:"omitempty,oneof=ARS USD ars usd"`
}

type compoundResponse struct {
	Projection compound.Projection           `json:"projection"`
	Inflation  *compound.InflationComparison `json:"inflation,omitempty"`
}

func (h *handler) handleCompound(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompound"
	var req compoundRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	freq, err := compound.ParseFrequency(req.Frequency)
	if err != nil {
		h.fail(w, err, op)
		return
	}

	var resp compoundResponse
	resp.Projection, err = h.projector.Project(compound.Input{
		Principal:           req.Principal,
		MonthlyContribution: req.MonthlyContribution,
		AnnualRatePercent:   req.AnnualRate,
		Years:               req.Years,
		Frequency:           freq,
		RateVariancePercent: req.RateVariance,
		MaxPoints:           req.MaxPoints,
	})
	if err != nil {
		h.fail(w, err, op)
		return
	}

	if req.StartDate != "" {
		cur := series.ARS
		if req.Currency != "" {
			cur, _ = series.ParseCurrency(req.Currency)
		}
		s, err := h.store.InflationSeries(r.Context(), cur)
		if err != nil {
			h.fail(w, err, op)
			return
		}
		cmp, err := compound.CompareInflation(resp.Projection, h.engine, s, req.StartDate)
		if err != nil {
			h.fail(w, err, op)
			return
		}
		resp.Inflation = &cmp
	}
	h.writeJSON(w, http.StatusOK, resp)
}

type realEstateRequest struct {
	Price        float64 `json:"price" validate:"gt=0"`
	Area         float64 `json:"area" validate:"gt=0"`
	Currency     string  `json:"currency" validate:"required,oneof=ARS USD ars usd"`
	FromDate     string  `json:"fromDate" validate:"required,datetime=2006-01"`
	ToDate       string  `json:"toDate" validate:"required,datetime=2006-01"`
	CurrentPrice float64 `json:"currentPrice" validate:"gte=0"`
	Timeline     bool    `json:"timeline"`
}

type realEstateResponse struct {
	Valuation realestate.Valuation       `json:"valuation"`
	GainLoss  *realestate.GainLoss       `json:"gainLoss,omitempty"`
	Timeline  []realestate.TimelinePoint `json:"timeline,omitempty"`
}

func (h *handler) handleRealEstate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRealEstate"
	var req realEstateRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	cur, _ := series.ParseCurrency(req.Currency)
	s, err := h.store.InflationSeries(r.Context(), cur)
	if err != nil {
		h.fail(w, err, op)
		return
	}

	var resp realEstateResponse
	if resp.Valuation, err = h.valuator.Value(req.Price, req.Area, s, req.FromDate, req.ToDate); err != nil {
		h.fail(w, err, op)
		return
	}
	if req.CurrentPrice > 0 {
		gl, err := h.valuator.GainLoss(resp.Valuation, req.CurrentPrice)
		if err != nil {
			h.fail(w, err, op)
			return
		}
		resp.GainLoss = &gl
	}
	if req.Timeline {
		if resp.Timeline, err = h.valuator.Timeline(resp.Valuation, s); err != nil {
			h.fail(w, err, op)
			return
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func rateTypeOrOfficial(name string) series.RateType {
	if name == "" {
		return series.Official
	}
	rt, err := series.ParseRateType(name)
	if err != nil {
		return series.Official
	}
	return rt
}
