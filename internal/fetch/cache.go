package fetch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultSharedTimeout bounds a fetch shared by concurrent callers.
const DefaultSharedTimeout = 30 * time.Second

// Cached keeps fetched text for a TTL and collapses concurrent fetches of the
// same source into one call to the inner fetcher. Failures are not cached.
//
// The shared call is detached from any one caller's cancellation: a caller
// whose context ends stops waiting, while the fetch carries on for the rest.
type Cached struct {
	inner   Fetcher
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	text      string
	fetchedAt time.Time
}

// NewCached wraps inner. A ttl of zero disables retention but still
// de-duplicates concurrent calls.
func NewCached(inner Fetcher, ttl time.Duration) *Cached {
	return &Cached{
		inner:   inner,
		ttl:     ttl,
		timeout: DefaultSharedTimeout,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Fetch implements Fetcher.
func (c *Cached) Fetch(ctx context.Context, source string) (string, error) {
	if text, ok := c.lookup(source); ok {
		return text, nil
	}

	ch := c.group.DoChan(source, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		text, err := c.inner.Fetch(shared, source)
		if err != nil {
			return "", err
		}
		if c.ttl > 0 {
			c.mu.Lock()
			c.entries[source] = cacheEntry{text: text, fetchedAt: c.now()}
			c.mu.Unlock()
		}
		return text, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Cached) lookup(source string) (string, bool) {
	if c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[source]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return "", false
	}
	return e.text, true
}

// Invalidate drops the cached text for source.
func (c *Cached) Invalidate(source string) {
	c.mu.Lock()
	delete(c.entries, source)
	c.mu.Unlock()
	c.group.Forget(source)
}

// Len returns the number of cached sources, fresh or stale.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
