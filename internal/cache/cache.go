// Package cache provides the key/value caches that sit in front of the
// series store: an in-process TTL cache and a Redis-backed one.
package cache

import (
	"context"
	"fmt"

	"github.com/iwvelando/inflation-calculator/internal/config"
	"github.com/iwvelando/inflation-calculator/pkg/constants"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores opaque values under string keys until they expire.
type Cache interface {
	// Get returns the value and true on a hit, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// New builds the cache selected by cfg.Type.
func New(cfg config.CacheConfig, logger *zap.Logger) (Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = constants.DefaultCacheTTL
	}

	switch cfg.Type {
	case constants.CacheMemory, "":
		cleanup := cfg.CleanupInterval
		if cleanup == 0 {
			cleanup = constants.DefaultCacheCleanupInterval
		}
		logger.Debug("using in-memory cache",
			zap.String("op", "cache.New"),
			zap.Duration("ttl", ttl),
		)
		return NewMemory(ttl, cleanup), nil
	case constants.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		logger.Debug("using redis cache",
			zap.String("op", "cache.New"),
			zap.String("addr", cfg.RedisAddr),
			zap.Duration("ttl", ttl),
		)
		return NewRedis(client, ttl), nil
	case constants.CacheNone:
		return Nop{}, nil
	}
	return nil, fmt.Errorf("unsupported cache type %q", cfg.Type)
}

// Nop never stores anything; every Get is a miss.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte) error         { return nil }
func (Nop) Delete(context.Context, ...string) error           { return nil }
func (Nop) Close() error                                      { return nil }
