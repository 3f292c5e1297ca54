// internal/cache/memory.go

package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
	tag       string
}

func (it *memoryItem) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && now.After(it.expiresAt)
}

// MemoryStore is an in-process Store used in test mode and as the reference
// implementation of the tag-index contract. One mutex covers both the value
// map and the tag index, so every write updates the index in the same
// critical section and Flush is linearizable with respect to Put and Forget.
type MemoryStore struct {
	mu      sync.Mutex
	items   map[string]*memoryItem
	tags    map[string]map[string]struct{}
	janitor *time.Ticker
	done    chan struct{}
}

type MemoryOptions struct {
	CleanupInterval time.Duration
}

func NewMemoryStore(opts MemoryOptions) *MemoryStore {
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = 5 * time.Minute
	}

	s := &MemoryStore{
		items:   make(map[string]*memoryItem),
		tags:    make(map[string]map[string]struct{}),
		janitor: time.NewTicker(opts.CleanupInterval),
		done:    make(chan struct{}),
	}

	go s.runJanitor()
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	if item.expired(time.Now()) {
		s.removeLocked(key, item)
		return nil, false, nil
	}

	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte, ttl time.Duration, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.putLocked(key, value, ttl, tag)
	return nil
}

func (s *MemoryStore) Forget(_ context.Context, key, tag string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key]
	if !ok {
		return false, nil
	}
	expired := item.expired(time.Now())
	s.removeLocked(key, item)
	_ = tag
	return !expired, nil
}

func (s *MemoryStore) Has(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key]
	if !ok {
		return false, nil
	}
	if item.expired(time.Now()) {
		s.removeLocked(key, item)
		return false, nil
	}
	return true, nil
}

// IncrBy treats the stored value as a decimal integer, missing keys as zero.
// Atomicity comes from running the whole read-modify-write under the mutex.
func (s *MemoryStore) IncrBy(_ context.Context, key string, delta int64, tag string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	if item, ok := s.items[key]; ok && !item.expired(time.Now()) {
		n, err := strconv.ParseInt(string(item.value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("value at %q is not a counter: %w", key, err)
		}
		current = n
	}

	current += delta
	s.putLocked(key, []byte(strconv.FormatInt(current, 10)), 0, tag)
	return current, nil
}

func (s *MemoryStore) Many(_ context.Context, keys []string) (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		item, ok := s.items[key]
		if !ok {
			continue
		}
		if item.expired(now) {
			s.removeLocked(key, item)
			continue
		}
		v := make([]byte, len(item.value))
		copy(v, item.value)
		out[key] = v
	}
	return out, nil
}

func (s *MemoryStore) PutMany(_ context.Context, entries map[string][]byte, ttl time.Duration, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range entries {
		s.putLocked(key, value, ttl, tag)
	}
	return nil
}

func (s *MemoryStore) FlushTag(_ context.Context, tag string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members, ok := s.tags[tag]
	if !ok {
		return 0, nil
	}

	var removed int64
	for key := range members {
		if item, ok := s.items[key]; ok {
			if !item.expired(time.Now()) {
				removed++
			}
			delete(s.items, key)
		}
	}
	delete(s.tags, tag)
	return removed, nil
}

// Stop halts the janitor goroutine.
func (s *MemoryStore) Stop() {
	s.janitor.Stop()
	close(s.done)
}

// putLocked stores the value and records the key under its tag. Caller holds
// the mutex.
func (s *MemoryStore) putLocked(key string, value []byte, ttl time.Duration, tag string) {
	v := make([]byte, len(value))
	copy(v, value)

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	// A key migrating between tags must leave its old index entry.
	if prev, ok := s.items[key]; ok && prev.tag != tag {
		s.dropFromTagLocked(key, prev.tag)
	}

	s.items[key] = &memoryItem{value: v, expiresAt: expiresAt, tag: tag}

	members, ok := s.tags[tag]
	if !ok {
		members = make(map[string]struct{})
		s.tags[tag] = members
	}
	members[key] = struct{}{}
}

func (s *MemoryStore) removeLocked(key string, item *memoryItem) {
	delete(s.items, key)
	s.dropFromTagLocked(key, item.tag)
}

func (s *MemoryStore) dropFromTagLocked(key, tag string) {
	if members, ok := s.tags[tag]; ok {
		delete(members, key)
		if len(members) == 0 {
			delete(s.tags, tag)
		}
	}
}

func (s *MemoryStore) runJanitor() {
	for {
		select {
		case <-s.done:
			return
		case <-s.janitor.C:
			s.cleanup()
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, item := range s.items {
		if item.expired(now) {
			s.removeLocked(key, item)
		}
	}
}
