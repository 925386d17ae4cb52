package siteconf

import (
	"sync"
	"time"
)

// RevisionCache is an in-memory cache of the latest revision with TTL.
type RevisionCache struct {
	mu      sync.RWMutex
	latest  *Revision
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewRevisionCache creates a RevisionCache backed by the given Store.
func NewRevisionCache(s *Store, ttl time.Duration) *RevisionCache {
	return &RevisionCache{store: s, ttl: ttl}
}

func (c *RevisionCache) valid() bool {
	return c.latest != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *RevisionCache) Invalidate() {
	c.mu.Lock()
	c.latest = nil
	c.mu.Unlock()
}

// Latest returns the newest revision, loading it from the store when the
// cached copy is missing or stale. ErrNotFound means the history is empty.
func (c *RevisionCache) Latest() (Revision, error) {
	c.mu.RLock()
	if c.valid() {
		rev := *c.latest
		c.mu.RUnlock()
		return rev, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return *c.latest, nil
	}
	rev, err := c.store.Latest()
	if err != nil {
		return Revision{}, err
	}
	c.latest = &rev
	c.fetched = time.Now()
	return rev, nil
}
