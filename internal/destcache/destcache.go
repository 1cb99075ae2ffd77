// Package destcache memoizes destinations whose first bytes were classified
// as non-HTTP, so later connections to the same host:port skip sniffing.
//
// This is a heuristic, not a correctness guarantee: a destination that
// starts serving plaintext HTTP within the TTL window will be relayed
// without rewriting until its entry expires. Relaying itself never depends
// on the verdict.
package destcache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a process-wide, bounded, time-limited set of destination keys.
// Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	store    *gocache.Cache
	capacity int
}

// New creates a cache whose entries expire after ttl and which holds at
// most capacity entries, evicting the oldest insertion when full.
func New(ttl time.Duration, capacity int) *Cache {
	return &Cache{
		store:    gocache.New(ttl, ttl),
		capacity: capacity,
	}
}

// Has reports whether hostPort was marked non-HTTP within the TTL window.
func (c *Cache) Has(hostPort string) bool {
	_, found := c.store.Get(hostPort)
	return found
}

// Put marks hostPort as confirmed non-HTTP. When the cache is full the
// entry closest to expiry (the oldest, since all TTLs are uniform) is
// evicted first.
func (c *Cache) Put(hostPort string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, found := c.store.Get(hostPort); !found && c.store.ItemCount() >= c.capacity {
		c.evictOldest()
	}
	c.store.SetDefault(hostPort, struct{}{})
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}

// evictOldest removes the entry with the earliest expiration. Caller holds mu.
func (c *Cache) evictOldest() {
	var (
		oldestKey string
		oldestExp int64
	)
	for k, item := range c.store.Items() {
		if item.Expiration == 0 {
			continue
		}
		if oldestKey == "" || item.Expiration < oldestExp {
			oldestKey = k
			oldestExp = item.Expiration
		}
	}
	if oldestKey != "" {
		c.store.Delete(oldestKey)
	}
}
