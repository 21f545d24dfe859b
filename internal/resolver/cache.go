package resolver

import "sync"

// MemoryCache is an in-process Cache safe for concurrent use.
type MemoryCache struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewMemoryCache returns an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{names: make(map[string]string)}
}

func (c *MemoryCache) Get(ip string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.names[ip]
	return name, ok
}

func (c *MemoryCache) Put(ip, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[ip] = name
}

func (c *MemoryCache) IPs(name string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var ips []string
	for ip, n := range c.names {
		if n == name {
			ips = append(ips, ip)
		}
	}
	return ips
}
