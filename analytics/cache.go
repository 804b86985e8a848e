package analytics

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	bundleCacheTTL   = 5 * time.Minute
	insightsCacheTTL = 30 * time.Minute
	cacheMaxEntries  = 512
)

// resultCache is a TTL-bounded cache injected into the pipeline components.
// Entries expire purely by TTL; reports are advisory, so a stale read inside
// the window is acceptable and there is no write-path invalidation.
type resultCache[V any] struct {
	lru *lru.LRU[string, V]
}

func newResultCache[V any](ttl time.Duration) *resultCache[V] {
	return &resultCache[V]{
		lru: lru.NewLRU[string, V](cacheMaxEntries, nil, ttl),
	}
}

func (c *resultCache[V]) Get(key string) (V, bool) {
	return c.lru.Get(key)
}

func (c *resultCache[V]) Set(key string, value V) {
	c.lru.Add(key, value)
}

func cacheKey(userID string, days int) string {
	return fmt.Sprintf("%s:%d", userID, days)
}
