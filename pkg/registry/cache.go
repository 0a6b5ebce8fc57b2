package registry

import (
	"context"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultCacheSize = 1024
	defaultCacheTTL  = 5 * time.Minute
)

// Cached wraps a Source with an in-memory expirable LRU so repeated
// lookups for the same package hit the index only once. Keys are
// lowercased, matching the index's case-insensitive name handling.
// Only successful fetches are cached; failures always retry.
type Cached struct {
	source Source
	cache  *lru.LRU[string, []string]
}

// NewCached wraps source with a cache of the given size and TTL.
// Non-positive values select defaults.
func NewCached(source Source, size int, ttl time.Duration) *Cached {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cached{
		source: source,
		cache:  lru.NewLRU[string, []string](size, nil, ttl),
	}
}

// DirectDependencies returns the cached dependency list for pkg, fetching
// from the underlying source on a miss.
func (c *Cached) DirectDependencies(ctx context.Context, pkg string) ([]string, error) {
	key := strings.ToLower(pkg)

	if deps, ok := c.cache.Get(key); ok {
		out := make([]string, len(deps))
		copy(out, deps)
		return out, nil
	}

	deps, err := c.source.DirectDependencies(ctx, pkg)
	if err != nil {
		return nil, err
	}

	stored := make([]string, len(deps))
	copy(stored, deps)
	c.cache.Add(key, stored)

	return deps, nil
}
