package store

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"

	"github.com/iwvelando/inflation-calculator/pkg/series"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed data/reference.yaml
var referenceData []byte

type referenceFile struct {
	Inflation map[series.Currency][]series.InflationPoint `yaml:"inflation"`
	Exchange  []series.ExchangeRatePoint                  `yaml:"exchange"`
}

// StaticStore serves series decoded once from YAML. It is read-only and safe
// for concurrent use.
type StaticStore struct {
	inflation map[series.Currency]series.InflationSeries
	exchange  series.ExchangeSeries
}

// NewStaticStore loads the embedded reference data.
func NewStaticStore(tolerance float64, logger *zap.Logger) (*StaticStore, error) {
	return NewStaticStoreFromReader(bytes.NewReader(referenceData), tolerance, logger)
}

// NewStaticStoreFromReader decodes and validates series from r. Accumulation
// drift beyond tolerance percent is logged, not rejected.
func NewStaticStoreFromReader(r io.Reader, tolerance float64, logger *zap.Logger) (*StaticStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var ref referenceFile
	if err := yaml.NewDecoder(r).Decode(&ref); err != nil {
		return nil, fmt.Errorf("failed to decode reference data: %w", err)
	}

	s := &StaticStore{inflation: make(map[series.Currency]series.InflationSeries, len(ref.Inflation))}
	for cur, points := range ref.Inflation {
		if _, err := series.ParseCurrency(string(cur)); err != nil {
			return nil, fmt.Errorf("reference data: %w", err)
		}
		is := series.NewInflationSeries(cur, points)
		if err := is.Validate(); err != nil {
			return nil, fmt.Errorf("invalid reference data: %w", err)
		}
		for _, w := range is.CheckAccumulation(tolerance) {
			logger.Warn(w,
				zap.String("op", "store.NewStaticStore"),
				zap.Float64("tolerance", tolerance),
			)
		}
		s.inflation[cur] = is
	}

	s.exchange = series.NewExchangeSeries(ref.Exchange)
	if err := s.exchange.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reference data: %w", err)
	}

	logger.Debug("loaded reference series",
		zap.String("op", "store.NewStaticStore"),
		zap.Int("currencies", len(s.inflation)),
		zap.Int("exchangePoints", s.exchange.Len()),
	)
	return s, nil
}

func (s *StaticStore) InflationSeries(_ context.Context, currency series.Currency) (series.InflationSeries, error) {
	is, ok := s.inflation[currency]
	if !ok {
		return series.InflationSeries{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	return is, nil
}

func (s *StaticStore) ExchangeSeries(context.Context) (series.ExchangeSeries, error) {
	return s.exchange, nil
}
