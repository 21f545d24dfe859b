package retention

import (
	"context"
	"log"
	"time"

	"github.com/open-wander/tracks/internal/db"
)

// Cleaner periodically prunes stale reverse DNS entries so the cache
// tracks current PTR records instead of growing without bound.
type Cleaner struct {
	cache    *db.DNSCache
	maxAge   time.Duration
	interval time.Duration
}

// New creates a new retention cleaner with a default interval of 1 hour.
func New(cache *db.DNSCache, maxDays int) *Cleaner {
	return &Cleaner{
		cache:    cache,
		maxAge:   time.Duration(maxDays) * 24 * time.Hour,
		interval: time.Hour,
	}
}

// Run starts the retention cleanup job. It runs cleanup immediately on start,
// then repeats every interval. It respects context cancellation.
func (c *Cleaner) Run(ctx context.Context) error {
	// Run immediately on start
	c.cleanup()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *Cleaner) cleanup() {
	removed, err := c.cache.Prune(c.maxAge)
	if err != nil {
		log.Printf("retention: cleanup failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("retention: pruned %d dns cache entries older than %s", removed, c.maxAge)
	}
}
