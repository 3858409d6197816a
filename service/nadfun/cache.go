package nadfun

import (
	"strings"
	"sync"
	"time"
)

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// ttlCache memoizes decoded responses by request key until their expiry.
type ttlCache struct {
	mux     sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func newTTLCache() *ttlCache {
	return &ttlCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *ttlCache) get(key string) (interface{}, bool) {
	c.mux.Lock()
	defer c.mux.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *ttlCache) set(key string, v interface{}, ttl time.Duration) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.entries[key] = cacheEntry{value: v, expiresAt: c.now().Add(ttl)}
}

// invalidate removes the entries whose key starts with prefix, or every entry
// when prefix is empty. It returns the number of removed entries.
func (c *ttlCache) invalidate(prefix string) int {
	c.mux.Lock()
	defer c.mux.Unlock()
	if prefix == "" {
		n := len(c.entries)
		c.entries = make(map[string]cacheEntry)
		return n
	}
	n := 0
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

func (c *ttlCache) len() int {
	c.mux.Lock()
	defer c.mux.Unlock()
	return len(c.entries)
}
