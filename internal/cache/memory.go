package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process cache with a fixed TTL.
type Memory struct {
	items *gocache.Cache
}

// NewMemory creates a cache whose entries live for ttl; expired entries are
// purged every cleanupInterval.
func NewMemory(ttl, cleanupInterval time.Duration) *Memory {
	return &Memory{items: gocache.New(ttl, cleanupInterval)}
}

// Get returns a copy of the cached value.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

// Set stores a copy of value with the default TTL.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.items.Set(key, append([]byte(nil), value...), gocache.DefaultExpiration)
	return nil
}

// Delete removes keys; missing keys are ignored.
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.items.Delete(key)
	}
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

// Len returns the number of cached entries, including expired ones not yet purged.
func (m *Memory) Len() int {
	return m.items.ItemCount()
}
