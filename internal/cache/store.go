// internal/cache/store.go

package cache

import (
	"context"
	"time"
)

// Store is the backing byte store a ScopedCache delegates to. Keys arriving
// here are already namespaced; the tag argument names the per-tenant index
// entry the key belongs to.
//
// Implementations must keep the tag index in step with the value write: a Put
// that succeeds must be visible to a later FlushTag of the same tag. Writes
// that commit strictly after a flush has read its snapshot of the index may
// survive that flush (snapshot-at-start semantics).
//
// IncrBy must be atomic per key under concurrent callers, either via the
// store's native counter primitive or by serializing the read-modify-write.
type Store interface {
	// Get returns (value, true, nil) on hit and (nil, false, nil) on miss.
	// Errors are transport or store failures, never misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	Put(ctx context.Context, key string, value []byte, ttl time.Duration, tag string) error

	// Forget reports whether a value was actually removed.
	Forget(ctx context.Context, key, tag string) (bool, error)

	Has(ctx context.Context, key string) (bool, error)

	IncrBy(ctx context.Context, key string, delta int64, tag string) (int64, error)

	// Many returns hits only; absent keys are simply not in the result.
	Many(ctx context.Context, keys []string) (map[string][]byte, error)

	// PutMany writes all entries or none.
	PutMany(ctx context.Context, entries map[string][]byte, ttl time.Duration, tag string) error

	// FlushTag removes every key recorded under tag plus the index itself,
	// returning the number of values removed.
	FlushTag(ctx context.Context, tag string) (int64, error)
}
