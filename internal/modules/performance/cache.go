package performance

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// ResultCache memoizes merged series for a fixed (portfolio set, months,
// currency) input. Aggregation is read-heavy and idempotent, so results are
// served from cache inside the TTL window instead of refetching.
//
// The cache is an explicit injected object, not process-wide state, so
// tests can construct their own with a controlled clock.
type ResultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	points  []DataPoint
	expires time.Time
}

// DefaultResultTTL is the minimum dedupe window for aggregation results
const DefaultResultTTL = 60 * time.Second

// NewResultCache creates a result cache with the given TTL
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached result for the key if it has not expired. The
// returned slice is a copy, so callers cannot mutate the stored entry.
func (c *ResultCache) Get(key string) ([]DataPoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expires) {
		return nil, false
	}

	points := make([]DataPoint, len(entry.points))
	copy(points, entry.points)
	return points, true
}

// Put stores a result under the key with expiry = now + ttl. The entry
// keeps its own copy of the slice, detached from the caller's.
func (c *ResultCache) Put(key string, points []DataPoint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]DataPoint, len(points))
	copy(stored, points)

	c.entries[key] = cacheEntry{
		points:  stored,
		expires: c.now().Add(c.ttl),
	}
}

// CacheKey derives the cache key for an aggregation input. Portfolio codes
// are sorted so [A,B] and [B,A] share an entry.
func CacheKey(codes []string, months int, displayCurrency string) string {
	sorted := make([]string, len(codes))
	copy(sorted, codes)
	sort.Strings(sorted)
	return fmt.Sprintf("%s|%d|%s", strings.Join(sorted, ","), months, displayCurrency)
}
