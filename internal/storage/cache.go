package storage

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lead_console_storage_cache_hits_total",
		Help: "Storage reads answered from the in-process cache.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lead_console_storage_cache_misses_total",
		Help: "Storage reads that went to the backend.",
	})
)

// CachedAdapter is a write-through LRU in front of another Adapter. Writes by
// other processes sharing the backend are not observed until eviction.
//
// mu spans the backend call and the cache update, so a miss cannot cache a
// value older than a write that finished while it was reading.
type CachedAdapter struct {
	mu    sync.Mutex
	next  Adapter
	cache *lru.Cache[string, []byte]
}

func NewCached(next Adapter, size int) (*CachedAdapter, error) {
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create storage cache: %w", err)
	}
	return &CachedAdapter{next: next, cache: cache}, nil
}

func (c *CachedAdapter) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok := c.cache.Get(key); ok {
		cacheHitsTotal.Inc()
		return v, true, nil
	}
	cacheMissesTotal.Inc()

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.cache.Get(key); ok {
		return v, true, nil
	}
	v, found, err := c.next.Get(ctx, key)
	if err != nil || !found {
		return v, found, err
	}
	c.cache.Add(key, v)
	return v, true, nil
}

func (c *CachedAdapter) Put(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.next.Put(ctx, key, value); err != nil {
		c.cache.Remove(key)
		return err
	}
	c.cache.Add(key, value)
	return nil
}

func (c *CachedAdapter) Remove(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Remove(key)
	return c.next.Remove(ctx, key)
}
