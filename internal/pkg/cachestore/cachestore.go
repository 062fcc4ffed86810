// Package cachestore provides a small bounded TTL cache. Unlike
// patrickmn/go-cache it enforces a maximum entry count, evicting the
// oldest-written entries first, which keeps per-resolver caches from growing
// without bound on long-lived wallets.
package cachestore

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	writtenAt time.Time
	ttl       time.Duration
}

// Store is a mutex-guarded TTL cache keyed by string.
type Store[T any] struct {
	mu         sync.Mutex
	entries    map[string]entry[T]
	maxEntries int
	now        func() time.Time
}

// New creates a Store holding at most maxEntries values. A non-positive bound
// means unbounded.
func New[T any](maxEntries int) *Store[T] {
	return &Store[T]{
		entries:    make(map[string]entry[T]),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the value written under key if it has not expired.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || s.now().Sub(e.writtenAt) > e.ttl {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set writes value under key with the given ttl, replacing any previous entry.
// When the store exceeds its bound, oldest-by-write-time entries are dropped
// until it fits.
func (s *Store[T]) Set(key string, value T, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry[T]{value: value, writtenAt: s.now(), ttl: ttl}

	for s.maxEntries > 0 && len(s.entries) > s.maxEntries {
		var oldestKey string
		var oldestAt time.Time
		first := true
		for k, e := range s.entries {
			if first || e.writtenAt.Before(oldestAt) {
				oldestKey = k
				oldestAt = e.writtenAt
				first = false
			}
		}
		delete(s.entries, oldestKey)
	}
}

// Len returns the current number of entries, expired ones included until they
// are replaced or evicted.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
