// Package store loads the inflation and exchange-rate series from the
// embedded reference data or from Postgres, optionally behind a cache.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwvelando/inflation-calculator/internal/cache"
	"github.com/iwvelando/inflation-calculator/internal/config"
	"github.com/iwvelando/inflation-calculator/pkg/constants"
	"github.com/iwvelando/inflation-calculator/pkg/series"
	"go.uber.org/zap"
)

var (
	// ErrNoData is returned when the source holds no points for a series.
	ErrNoData = errors.New("no data for series")
	// ErrUnknownCurrency is returned for a currency with no inflation series.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrInvalidData is returned when stored points break the series invariants.
	ErrInvalidData = errors.New("invalid series data")
)

// SeriesStore provides the series the calculators read.
type SeriesStore interface {
	InflationSeries(ctx context.Context, currency series.Currency) (series.InflationSeries, error)
	ExchangeSeries(ctx context.Context) (series.ExchangeSeries, error)
}

// Open builds the store selected by conf.Data and wraps it with the
// configured cache. The returned close function releases both.
func Open(ctx context.Context, conf *config.Configuration, logger *zap.Logger) (SeriesStore, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		base    SeriesStore
		closeDB = func() error { return nil }
	)
	switch conf.Data.Source {
	case constants.DataSourceStatic, "":
		static, err := NewStaticStore(conf.AccumulationTolerance(), logger)
		if err != nil {
			return nil, nil, err
		}
		base = static
	case constants.DataSourcePostgres:
		pg, err := OpenPostgres(ctx, conf.Data, logger)
		if err != nil {
			return nil, nil, err
		}
		base = pg
		closeDB = pg.Close
	default:
		return nil, nil, fmt.Errorf("unsupported data source %q", conf.Data.Source)
	}

	if conf.Cache.Type == constants.CacheNone {
		return base, closeDB, nil
	}
	c, err := cache.New(conf.Cache, logger)
	if err != nil {
		_ = closeDB()
		return nil, nil, err
	}
	cached := NewCachedStore(base, c, logger)
	closeAll := func() error {
		return errors.Join(c.Close(), closeDB())
	}
	return cached, closeAll, nil
}
