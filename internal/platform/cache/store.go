// Package cache is a process-local TTL cache for hot read paths. Loads for
// the same key are collapsed through a singleflight so a cold or just
// invalidated key hits the backing store once.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/umatomo/predict-api/internal/platform/resilience"
)

type cacheEntry struct {
	value    any
	deadline int64
}

func (e cacheEntry) expired(now int64) bool {
	return e.deadline > 0 && now >= e.deadline
}

type Store struct {
	ttl    time.Duration
	flight resilience.SingleFlight

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewStore builds a store whose entries live for ttl. A non-positive ttl
// means entries never expire and only Delete removes them.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if e.expired(time.Now().UnixNano()) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	var deadline int64
	if s.ttl > 0 {
		deadline = time.Now().Add(s.ttl).UnixNano()
	}

	s.mu.Lock()
	s.entries[key] = cacheEntry{value: value, deadline: deadline}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key, or runs loader once across
// all concurrent callers and caches its result. An empty key bypasses the
// cache entirely.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if v, ok := s.Get(ctx, key); ok {
		return v, nil
	}

	v, err, _ := s.flight.Do(key, func() (any, error) {
		// A concurrent leader may have filled the key while this caller
		// waited on the flight lock.
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	return v, err
}
