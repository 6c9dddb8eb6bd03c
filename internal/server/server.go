package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/inflation-calculator/internal/store"
	"github.com/iwvelando/inflation-calculator/pkg/compound"
	"github.com/iwvelando/inflation-calculator/pkg/inflation"
	"github.com/iwvelando/inflation-calculator/pkg/realestate"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// invalidator is implemented by stores that cache series.
type invalidator interface {
	Invalidate(ctx context.Context) error
}

type handler struct {
	logger      *zap.Logger
	store       store.SeriesStore
	engine      *inflation.Engine
	projector   *compound.Projector
	valuator    *realestate.Valuator
	validate    *validator.Validate
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the calculation API.
func NewHandler(logger *zap.Logger, s store.SeriesStore, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	engine := inflation.NewEngine(logger).WithMixedThreshold(cfg.Calculation().MixedThreshold())
	h := &handler{
		logger:      logger,
		store:       s,
		engine:      engine,
		projector:   compound.NewProjector(logger),
		valuator:    realestate.NewValuator(engine),
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		maxBodySize: cfg.BodySizeBytes(),
		version:     trimmedVersion,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	if cfg.RateLimit.RequestsPerSecond > 0 {
		r.Use(rateLimiter(rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst), logger))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)
		r.Get("/series/{currency}", h.handleInflationSeries)
		r.Get("/exchange-rates", h.handleExchangeRates)
		r.Post("/inflation/adjust", h.handleAdjust)
		r.Post("/convert", h.handleConvert)
		r.Post("/dollarization", h.handleDollarization)
		r.Post("/cross-conversion", h.handleCrossConversion)
		r.Post("/compound-interest", h.handleCompound)
		r.Post("/real-estate", h.handleRealEstate)
		r.Post("/cache/invalidate", h.handleInvalidate)
	})
	return r
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.store.(invalidator)
	if !ok {
		h.writeJSON(w, http.StatusOK, map[string]bool{"invalidated": false})
		return
	}
	if err := inv.Invalidate(r.Context()); err != nil {
		h.respondError(w, http.StatusBadGateway, fmt.Sprintf("failed to invalidate cache: %v", err), "server.handleInvalidate")
		return
	}
	h.logger.Info("series cache invalidated", zap.String("op", "server.handleInvalidate"))
	h.writeJSON(w, http.StatusOK, map[string]bool{"invalidated": true})
}

// decode reads a JSON body into dst and runs the struct validations. It
// writes the error response itself and returns false on failure.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst any, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, validationMessage(err), op)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return "invalid request: " + strings.Join(msgs, "; ")
}

// statusFor maps calculation and store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, inflation.ErrDateNotFound):
		return http.StatusNotFound
	case errors.Is(err, inflation.ErrInvalidAmount),
		errors.Is(err, inflation.ErrInvalidRate),
		errors.Is(err, inflation.ErrInvalidPeriod),
		errors.Is(err, inflation.ErrInvalidRange),
		errors.Is(err, inflation.ErrInvalidRateType),
		errors.Is(err, inflation.ErrInvalidCurrency),
		errors.Is(err, store.ErrUnknownCurrency):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNoData), errors.Is(err, store.ErrInvalidData):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *handler) fail(w http.ResponseWriter, err error, op string) {
	h.respondError(w, statusFor(err), err.Error(), op)
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	level := h.logger.Warn
	if status >= http.StatusInternalServerError {
		level = h.logger.Error
	}
	level("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes payload before writing the status so an encoding failure
// still reaches the client as a 500.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Int("status", status),
			zap.Error(err),
		)
		buf.Reset()
		buf.WriteString(`{"error":"failed to encode response"}` + "\n")
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}
