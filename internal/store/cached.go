package store

import (
	"context"
	"encoding/json"

	"github.com/iwvelando/inflation-calculator/internal/cache"
	"github.com/iwvelando/inflation-calculator/pkg/series"
	"go.uber.org/zap"
)

const exchangeKey = "exchange"

func inflationKey(currency series.Currency) string {
	return "inflation:" + string(currency)
}

// CachedStore reads through a cache in front of another store. Cache
// failures are logged and the underlying store is used instead.
type CachedStore struct {
	next   SeriesStore
	cache  cache.Cache
	logger *zap.Logger
}

// NewCachedStore creates a new CachedStore with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewCachedStore(next SeriesStore, c cache.Cache, logger *zap.Logger) *CachedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedStore{next: next, cache: c, logger: logger}
}

func (s *CachedStore) InflationSeries(ctx context.Context, currency series.Currency) (series.InflationSeries, error) {
	key := inflationKey(currency)
	var points []series.InflationPoint
	if s.load(ctx, key, &points) {
		return series.NewInflationSeries(currency, points), nil
	}

	is, err := s.next.InflationSeries(ctx, currency)
	if err != nil {
		return series.InflationSeries{}, err
	}
	s.store(ctx, key, is.Points)
	return is, nil
}

func (s *CachedStore) ExchangeSeries(ctx context.Context) (series.ExchangeSeries, error) {
	var points []series.ExchangeRatePoint
	if s.load(ctx, exchangeKey, &points) {
		return series.NewExchangeSeries(points), nil
	}

	es, err := s.next.ExchangeSeries(ctx)
	if err != nil {
		return series.ExchangeSeries{}, err
	}
	s.store(ctx, exchangeKey, es.Points)
	return es, nil
}

// Invalidate drops every cached series so the next read hits the store.
func (s *CachedStore) Invalidate(ctx context.Context) error {
	keys := []string{exchangeKey}
	for _, cur := range series.Currencies {
		keys = append(keys, inflationKey(cur))
	}
	return s.cache.Delete(ctx, keys...)
}

func (s *CachedStore) load(ctx context.Context, key string, dst any) bool {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed",
			zap.String("op", "store.CachedStore.load"),
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn("discarding undecodable cache entry",
			zap.String("op", "store.CachedStore.load"),
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	s.logger.Debug("cache hit", zap.String("op", "store.CachedStore.load"), zap.String("key", key))
	return true
}

func (s *CachedStore) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, raw); err != nil {
		s.logger.Warn("cache write failed",
			zap.String("op", "store.CachedStore.store"),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
