package forecast

import (
	"sync"
	"time"
)

// Cache holds the most recently built daily forecast as an immutable snapshot.
// A newer date replaces an older one; concurrent requests triggering refetches
// for the same date are serialised by the callers, the cache itself only
// guards reads against writes.
type Cache struct {
	mu sync.RWMutex
	// requested is the date the snapshot was built for; it differs from the
	// snapshot's own date when the backward search fell back. Both dates hit.
	requested time.Time
	last      *Forecast
}

// NewCache creates an empty cache.
func NewCache() *Cache { return &Cache{} }

// Put stores the forecast if it is at least as recent as the current snapshot,
// remembering the date it was requested for.
func (c *Cache) Put(requested time.Time, f *Forecast) {
	if f == nil {
		return
	}
	c.mu.Lock()
	if c.last == nil || !f.Date.Before(c.last.Date) {
		c.requested = requested.UTC().Truncate(24 * time.Hour)
		c.last = f
	}
	c.mu.Unlock()
}

// Get returns the snapshot for the given date. A date matches when it equals
// either the snapshot's own date or the date it was requested for, so a
// fallback result keeps serving requests for the original date.
func (c *Cache) Get(date time.Time) (*Forecast, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return nil, false
	}
	d := date.UTC().Truncate(24 * time.Hour)
	if !c.last.Date.Equal(d) && !c.requested.Equal(d) {
		return nil, false
	}
	return c.last, true
}

// Latest returns the cached snapshot regardless of its date.
func (c *Cache) Latest() (*Forecast, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last, c.last != nil
}
