package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tenant-otp-service/internal/domain"
)

// brokenStore fails every operation, standing in for an unreachable backend.
type brokenStore struct{}

var errStoreDown = errors.New("connection refused")

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errStoreDown
}
func (brokenStore) Put(context.Context, string, []byte, time.Duration, string) error {
	return errStoreDown
}
func (brokenStore) Forget(context.Context, string, string) (bool, error) {
	return false, errStoreDown
}
func (brokenStore) Has(context.Context, string) (bool, error) {
	return false, errStoreDown
}
func (brokenStore) IncrBy(context.Context, string, int64, string) (int64, error) {
	return 0, errStoreDown
}
func (brokenStore) Many(context.Context, []string) (map[string][]byte, error) {
	return nil, errStoreDown
}
func (brokenStore) PutMany(context.Context, map[string][]byte, time.Duration, string) error {
	return errStoreDown
}
func (brokenStore) FlushTag(context.Context, string) (int64, error) {
	return 0, errStoreDown
}

func scopedForTenant(t *testing.T, id string) (*ScopedCache, *MemoryStore) {
	t.Helper()
	store := newTestStore(t)
	c := New(store, Options{Prefix: "tenant"})
	if id != "" {
		c = c.Rebind(&domain.Tenant{ID: id, Active: true})
	}
	return c, store
}

func TestScopedCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := scopedForTenant(t, "acme")

	assert.NoError(t, c.Put(ctx, "settings", []byte(`{"theme":"dark"}`), 0))

	got, err := c.Get(ctx, "settings", nil)
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"theme":"dark"}`), got)

	ok, err := c.Has(ctx, "settings")
	assert.NoError(t, err)
	assert.True(t, ok)

	removed, err := c.Forget(ctx, "settings")
	assert.NoError(t, err)
	assert.True(t, removed)

	ok, err = c.Has(ctx, "settings")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestScopedCacheDefaultOnMiss(t *testing.T) {
	ctx := context.Background()
	c, _ := scopedForTenant(t, "acme")

	got, err := c.Get(ctx, "absent", []byte("fallback"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("fallback"), got)

	got, err = c.Get(ctx, "absent", nil)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestScopedCacheTenantIsolation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	base := New(store, Options{Prefix: "tenant"})

	acme := base.Rebind(&domain.Tenant{ID: "acme", Active: true})
	globex := base.Rebind(&domain.Tenant{ID: "globex", Active: true})

	assert.NoError(t, acme.Put(ctx, "settings", []byte("acme-value"), 0))
	assert.NoError(t, globex.Put(ctx, "settings", []byte("globex-value"), 0))
	assert.NoError(t, base.Put(ctx, "settings", []byte("global-value"), 0))

	got, err := acme.Get(ctx, "settings", nil)
	assert.NoError(t, err)
	assert.Equal(t, []byte("acme-value"), got)

	got, err = globex.Get(ctx, "settings", nil)
	assert.NoError(t, err)
	assert.Equal(t, []byte("globex-value"), got)

	got, err = base.Get(ctx, "settings", nil)
	assert.NoError(t, err)
	assert.Equal(t, []byte("global-value"), got)
}

func TestScopedCacheFlushOnlyOwnTenant(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	base := New(store, Options{Prefix: "tenant"})

	acme := base.Rebind(&domain.Tenant{ID: "acme", Active: true})
	globex := base.Rebind(&domain.Tenant{ID: "globex", Active: true})

	assert.NoError(t, acme.Put(ctx, "a", []byte("1"), 0))
	assert.NoError(t, acme.Put(ctx, "b", []byte("2"), 0))
	assert.NoError(t, globex.Put(ctx, "a", []byte("3"), 0))
	assert.NoError(t, base.Put(ctx, "a", []byte("4"), 0))

	assert.NoError(t, acme.Flush(ctx))

	ok, _ := acme.Has(ctx, "a")
	assert.False(t, ok)
	ok, _ = acme.Has(ctx, "b")
	assert.False(t, ok)

	ok, _ = globex.Has(ctx, "a")
	assert.True(t, ok, "another tenant's entry survives")
	ok, _ = base.Has(ctx, "a")
	assert.True(t, ok, "the global partition survives a tenant flush")
}

func TestScopedCacheCounters(t *testing.T) {
	ctx := context.Background()
	c, _ := scopedForTenant(t, "acme")

	n, err := c.Increment(ctx, "visits", 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.Increment(ctx, "visits", 9)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), n)

	n, err = c.Decrement(ctx, "visits", 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestScopedCacheManyAndPutMany(t *testing.T) {
	ctx := context.Background()
	c, _ := scopedForTenant(t, "acme")

	assert.NoError(t, c.PutMany(ctx, map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	}, 0))

	got, err := c.Many(ctx, []string{"a", "b", "missing"})
	assert.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	}, got, "results are keyed by the logical key, misses absent")
}

func TestScopedCacheRebindLeavesReceiver(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	base := New(store, Options{Prefix: "tenant"})

	bound := base.Rebind(&domain.Tenant{ID: "acme", Active: true})

	assert.Nil(t, base.Tenant(), "rebinding returns a clone, the receiver keeps its scope")
	assert.Equal(t, "acme", bound.Tenant().ID)

	assert.NoError(t, base.Put(ctx, "k", []byte("global"), 0))
	got, err := bound.Get(ctx, "k", nil)
	assert.NoError(t, err)
	assert.Nil(t, got, "the clone cannot see the receiver's partition")
}

func TestScopedCacheDegradeReads(t *testing.T) {
	ctx := context.Background()

	degraded := New(brokenStore{}, Options{Prefix: "tenant", DegradeReads: true})

	got, err := degraded.Get(ctx, "k", []byte("fallback"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("fallback"), got)

	ok, err := degraded.Has(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)

	many, err := degraded.Many(ctx, []string{"a", "b"})
	assert.NoError(t, err)
	assert.Empty(t, many)

	// Writes and flushes still surface failures.
	err = degraded.Put(ctx, "k", []byte("v"), 0)
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
	err = degraded.Flush(ctx)
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
	_, err = degraded.Increment(ctx, "n", 1)
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}

func TestScopedCacheStrictReadsSurfaceFailures(t *testing.T) {
	ctx := context.Background()

	strict := New(brokenStore{}, Options{Prefix: "tenant"})

	_, err := strict.Get(ctx, "k", nil)
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

	_, err = strict.Has(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

	_, err = strict.Many(ctx, []string{"a"})
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}
