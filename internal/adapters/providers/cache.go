package providers

import (
	"context"
	"sync"
	"time"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/usage"
)

// Cached wraps a Provider with a freshness window so repeated allocation
// requests do not re-read the ledger. The snapshot is immutable; staleness
// only triggers a refetch on the next call, never in the background.
type Cached struct {
	inner Provider
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	snapshot  []usage.UsageRecord
	fetchedAt time.Time
}

// NewCached wraps inner with a TTL cache. A non-positive ttl disables
// caching and every call goes through.
func NewCached(inner Provider, ttl time.Duration) *Cached {
	return &Cached{inner: inner, ttl: ttl, now: time.Now}
}

// Name implements Provider.
func (c *Cached) Name() string { return c.inner.Name() }

// Records implements Provider.
func (c *Cached) Records(ctx context.Context) ([]usage.UsageRecord, error) {
	if c.ttl <= 0 {
		return c.inner.Records(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.snapshot, nil
	}

	records, err := c.inner.Records(ctx)
	if err != nil {
		// Serve the stale snapshot if we have one rather than failing an
		// allocation over a transient source error.
		if c.snapshot != nil {
			return c.snapshot, nil
		}
		return nil, err
	}

	c.snapshot = records
	c.fetchedAt = c.now()
	return c.snapshot, nil
}

// Invalidate drops the cached snapshot; the next call refetches.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
}
