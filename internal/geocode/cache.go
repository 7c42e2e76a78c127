package geocode

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Cache stores provider autocomplete responses keyed by normalized lookup
// parameters. Entries are immutable once written: a fresh fetch for the same
// key overwrites the entry wholesale.
type Cache interface {
	Get(ctx context.Context, key string) ([]Place, bool)
	Set(ctx context.Context, key string, places []Place)
}

// CacheKey builds the canonical cache key for a lookup. The query must
// already be diacritic-folded; country codes are sorted so parameter order
// never splits the key space.
func CacheKey(foldedQuery string, limit int, countryCodes []string) string {
	codes := make([]string, len(countryCodes))
	for i, code := range countryCodes {
		codes[i] = strings.ToLower(strings.TrimSpace(code))
	}
	sort.Strings(codes)
	return fmt.Sprintf("%s|%d|%s", strings.ToLower(foldedQuery), limit, strings.Join(codes, ","))
}

type memoryEntry struct {
	places    []Place
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache for provider responses. There is no
// eviction beyond TTL expiry: queries are human-typed and low-cardinality,
// so the working set stays small.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   clockwork.Clock
	entries map[string]memoryEntry
}

// NewMemoryCache creates a memory cache. The clock is injected so tests can
// freeze time; pass clockwork.NewRealClock() in production.
func NewMemoryCache(ttl time.Duration, clock clockwork.Clock) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]memoryEntry),
	}
}

// Get returns the cached response for key if present and fresh.
func (c *MemoryCache) Get(_ context.Context, key string) ([]Place, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.clock.Now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.places, true
}

// Set stores places under key with the configured TTL.
func (c *MemoryCache) Set(_ context.Context, key string, places []Place) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		places:    places,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}
