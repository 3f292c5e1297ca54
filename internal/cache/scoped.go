// internal/cache/scoped.go

package cache

import (
	"context"
	"fmt"
	"time"

	"tenant-otp-service/internal/domain"
)

// ScopedCache is a cache facade bound to one tenant namespace. Every
// operation translates its logical key through the Namespace before touching
// the backing store, so entries, counters and flushes can never cross a
// tenant boundary. A facade bound to a nil tenant operates on the reserved
// global partition, which is isolated like any other.
type ScopedCache struct {
	store        Store
	ns           Namespace
	tenant       *domain.Tenant
	degradeReads bool
}

type Options struct {
	// Prefix is the leading token of every key this cache produces.
	Prefix string

	// DegradeReads turns backing-store failures on the read path (Get, Has,
	// Many) into misses. Writes and flushes always surface failures.
	DegradeReads bool
}

// New returns a facade bound to the global partition. Call Rebind to scope it
// to a tenant.
func New(store Store, opts Options) *ScopedCache {
	if opts.Prefix == "" {
		opts.Prefix = "tenant"
	}
	return &ScopedCache{
		store:        store,
		ns:           Namespace{Prefix: opts.Prefix},
		degradeReads: opts.DegradeReads,
	}
}

// Rebind returns a facade bound to t sharing the same backing store. The
// receiver is left untouched, so keys already issued through it are
// unaffected and concurrent holders stay safe.
func (c *ScopedCache) Rebind(t *domain.Tenant) *ScopedCache {
	clone := *c
	clone.tenant = t
	return &clone
}

// Tenant returns the currently bound tenant, nil for the global partition.
func (c *ScopedCache) Tenant() *domain.Tenant {
	return c.tenant
}

// Tag returns the invalidation tag for the bound tenant.
func (c *ScopedCache) Tag() string {
	return c.ns.Tag(c.tenant)
}

// Get returns the cached value for key, or def on miss. A miss is never an
// error; store failures surface unless DegradeReads is set.
func (c *ScopedCache) Get(ctx context.Context, key string, def []byte) ([]byte, error) {
	value, ok, err := c.store.Get(ctx, c.ns.Key(c.tenant, key))
	if err != nil {
		if c.degradeReads {
			return def, nil
		}
		return nil, unavailable(err)
	}
	if !ok {
		return def, nil
	}
	return value, nil
}

func (c *ScopedCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.store.Put(ctx, c.ns.Key(c.tenant, key), value, ttl, c.Tag()); err != nil {
		return unavailable(err)
	}
	return nil
}

// Forget reports whether something was actually removed.
func (c *ScopedCache) Forget(ctx context.Context, key string) (bool, error) {
	removed, err := c.store.Forget(ctx, c.ns.Key(c.tenant, key), c.Tag())
	if err != nil {
		return false, unavailable(err)
	}
	return removed, nil
}

func (c *ScopedCache) Has(ctx context.Context, key string) (bool, error) {
	ok, err := c.store.Has(ctx, c.ns.Key(c.tenant, key))
	if err != nil {
		if c.degradeReads {
			return false, nil
		}
		return false, unavailable(err)
	}
	return ok, nil
}

// Increment atomically adds delta to the counter at key, creating it at zero
// when absent, and returns the new value.
func (c *ScopedCache) Increment(ctx context.Context, key string, delta int64) (int64, error) {
	n, err := c.store.IncrBy(ctx, c.ns.Key(c.tenant, key), delta, c.Tag())
	if err != nil {
		return 0, unavailable(err)
	}
	return n, nil
}

func (c *ScopedCache) Decrement(ctx context.Context, key string, delta int64) (int64, error) {
	return c.Increment(ctx, key, -delta)
}

// Many returns the cached values for the given logical keys. Misses are
// absent from the result.
func (c *ScopedCache) Many(ctx context.Context, keys []string) (map[string][]byte, error) {
	namespaced := make([]string, len(keys))
	for i, key := range keys {
		namespaced[i] = c.ns.Key(c.tenant, key)
	}

	found, err := c.store.Many(ctx, namespaced)
	if err != nil {
		if c.degradeReads {
			return map[string][]byte{}, nil
		}
		return nil, unavailable(err)
	}

	out := make(map[string][]byte, len(found))
	for i, key := range keys {
		if v, ok := found[namespaced[i]]; ok {
			out[key] = v
		}
	}
	return out, nil
}

// PutMany writes every entry or none of them.
func (c *ScopedCache) PutMany(ctx context.Context, entries map[string][]byte, ttl time.Duration) error {
	namespaced := make(map[string][]byte, len(entries))
	for key, value := range entries {
		namespaced[c.ns.Key(c.tenant, key)] = value
	}
	if err := c.store.PutMany(ctx, namespaced, ttl, c.Tag()); err != nil {
		return unavailable(err)
	}
	return nil
}

// Flush removes every entry written under the bound tenant's tag and only
// those. Entries of other tenants, including the global partition, survive.
func (c *ScopedCache) Flush(ctx context.Context) error {
	if _, err := c.store.FlushTag(ctx, c.Tag()); err != nil {
		return unavailable(err)
	}
	return nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
}
