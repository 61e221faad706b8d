// Package cache stores rendered dashboard pages until they are invalidated or expire.
package cache

import (
	"context"
	"sync"
	"time"
)

// PageCache keeps rendered pages per logical view. A view may have several variants
// (for instance one per UI language); invalidating the view drops all of them.
//
// Every invalidation bumps the view's generation. A reader takes the generation
// before loading its data and hands it back to Set, which discards the page if the
// view was invalidated in between.
type PageCache interface {
	Get(ctx context.Context, view, variant string) ([]byte, bool, error)
	Generation(ctx context.Context, view string) (uint64, error)
	Set(ctx context.Context, view, variant string, gen uint64, page []byte) error
	// Invalidate marks the view stale so the next read recomputes it.
	Invalidate(ctx context.Context, view string) error
}

// MemoryCache is a process-local PageCache with TTL expiry.
type MemoryCache struct {
	mu    sync.RWMutex
	views map[string]map[string]*entry
	gens  map[string]uint64
	ttl   time.Duration
	now   func() time.Time
}

type entry struct {
	page      []byte
	expiresAt time.Time
}

// NewMemoryCache creates a cache whose entries live for ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		views: make(map[string]map[string]*entry),
		gens:  make(map[string]uint64),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, view, variant string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.views[view][variant]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return e.page, true, nil
}

func (c *MemoryCache) Generation(_ context.Context, view string) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[view], nil
}

// Set stores page unless view was invalidated after gen was read.
func (c *MemoryCache) Set(_ context.Context, view, variant string, gen uint64, page []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[view] != gen {
		return nil
	}
	variants, ok := c.views[view]
	if !ok {
		variants = make(map[string]*entry)
		c.views[view] = variants
	}
	variants[variant] = &entry{page: page, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, view string) error {
	c.mu.Lock()
	delete(c.views, view)
	c.gens[view]++
	c.mu.Unlock()
	return nil
}
