package resolve

import "sync"

// FetchCache memoizes successful remote fetches. It is an explicit,
// injectable object rather than hidden static state so tests control
// freshness deterministically. There is no automatic invalidation; callers
// use Evict or Clear for explicit refresh.
type FetchCache interface {
	Get(key string) (*ResolvedModule, bool)
	Put(key string, mod *ResolvedModule)
	Evict(key string)
	Clear()
}

// MemoryCache is the default FetchCache, safe for concurrent readers.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*ResolvedModule
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*ResolvedModule)}
}

func (c *MemoryCache) Get(key string) (*ResolvedModule, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	mod, ok := c.entries[key]
	return mod, ok
}

func (c *MemoryCache) Put(key string, mod *ResolvedModule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = mod
}

func (c *MemoryCache) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*ResolvedModule)
}

// Len returns the number of cached fetches. Useful for test assertions.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
