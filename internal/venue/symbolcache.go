package venue

import (
	"sync"
	"time"
)

// symbolCache is a small TTL-bounded cache of SymbolInfo. A venue carries
// at most a few dozen symbols and metadata changes rarely, so a plain
// mutex-guarded map covers it; see DESIGN.md for why this doesn't reach
// for a general-purpose eviction-aware cache.
type symbolCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]SymbolInfo
}

func newSymbolCache(ttl time.Duration) *symbolCache {
	return &symbolCache{
		ttl: ttl,
		m:   make(map[string]SymbolInfo),
	}
}

func (c *symbolCache) get(symbol string) (SymbolInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info, ok := c.m[symbol]
	if !ok {
		return SymbolInfo{}, false
	}
	if time.Since(info.FetchedAt) > c.ttl {
		return SymbolInfo{}, false
	}
	return info, true
}

func (c *symbolCache) set(info SymbolInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[info.Symbol] = info
}
