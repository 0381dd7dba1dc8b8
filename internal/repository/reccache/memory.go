package reccache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/bookrec/internal/domain"
)

// memEntry is one cached recommendation list with its insertion time.
type memEntry struct {
	key      string
	results  []domain.EnhancedResult
	storedAt time.Time
}

// MemoryCache is an in-process cache with TTL expiry and a hard entry
// bound. When full, the oldest-inserted entry is evicted regardless of
// access pattern. All operations take a single mutex; entries are small
// and the critical sections are short.
type MemoryCache struct {
	ttl        time.Duration
	maxEntries int
	cacheTotal *prometheus.CounterVec
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = oldest inserted
	hits    uint64
	misses  uint64
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) { c.now = now }
}

// WithCacheCounter wires a counter vec with label "result" ("hit"/"miss").
func WithCacheCounter(vec *prometheus.CounterVec) MemoryOption {
	return func(c *MemoryCache) { c.cacheTotal = vec }
}

// NewMemoryCache creates a bounded TTL cache. Non-positive ttl or
// maxEntries fall back to the defaults.
func NewMemoryCache(ttl time.Duration, maxEntries int, opts ...MemoryOption) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	c := &MemoryCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached results for key, or false on miss. Entries at or
// past their TTL are treated as absent and removed lazily.
func (c *MemoryCache) Get(_ context.Context, key string) ([]domain.EnhancedResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.missLocked()
		return nil, false
	}

	entry := el.Value.(*memEntry)
	if c.now().Sub(entry.storedAt) >= c.ttl {
		c.removeLocked(el)
		c.missLocked()
		return nil, false
	}

	c.hits++
	c.incCache("hit")
	return entry.results, true
}

// Put stores results under key, evicting the oldest-inserted entry when
// the cache is full. Re-putting an existing key refreshes its timestamp
// and moves it to the back of the eviction order.
func (c *MemoryCache) Put(_ context.Context, key string, results []domain.EnhancedResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*memEntry)
		entry.results = results
		entry.storedAt = c.now()
		c.order.MoveToBack(el)
		return
	}

	if c.order.Len() >= c.maxEntries {
		if oldest := c.order.Front(); oldest != nil {
			c.removeLocked(oldest)
		}
	}

	el := c.order.PushBack(&memEntry{key: key, results: results, storedAt: c.now()})
	c.entries[key] = el
}

// Len reports the current entry count.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats reports hit/miss counts and the current entry count.
func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: c.order.Len()}
}

func (c *MemoryCache) missLocked() {
	c.misses++
	c.incCache("miss")
}

func (c *MemoryCache) removeLocked(el *list.Element) {
	entry := c.order.Remove(el).(*memEntry)
	delete(c.entries, entry.key)
}

func (c *MemoryCache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
