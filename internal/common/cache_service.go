package common

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryCache keeps values in process. Used when Redis is not configured, so
// each replica logs in to the provider on its own.
type MemoryCache struct {
	items *cache.Cache
}

var _ CacheInterface = (*MemoryCache)(nil)

// NewMemoryCache expires entries after defaultTTL unless Set says otherwise
// and sweeps expired entries every sweep.
func NewMemoryCache(defaultTTL, sweep time.Duration) *MemoryCache {
	return &MemoryCache{items: cache.New(defaultTTL, sweep)}
}

func (m *MemoryCache) Set(key string, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	m.items.Set(key, value, ttl)
}

func (m *MemoryCache) Get(key string) (string, bool) {
	v, ok := m.items.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (m *MemoryCache) Delete(key string) {
	m.items.Delete(key)
}

func (m *MemoryCache) Close() error {
	m.items.Flush()
	return nil
}
