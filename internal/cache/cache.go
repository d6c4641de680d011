// Package cache provides the TTL read-through cache over the record
// store, plus the game-listing views built on it.
package cache

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrUnavailable is returned when a view cannot be served: the source
// failed and no stale entry exists to fall back on.
var ErrUnavailable = errors.New("cache: data unavailable")

type entry struct {
	value    any
	storedAt time.Time
}

// Store is a keyed TTL cache. Freshness is decided per lookup so the
// same entry can serve views with different TTLs.
type Store struct {
	mu      sync.RWMutex
	now     func() time.Time
	entries map[string]entry
}

// NewStore constructs an empty cache. A nil clock defaults to time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{now: now, entries: make(map[string]entry)}
}

// Get returns the entry under key when it is younger than ttl.
func (s *Store) Get(key string, ttl time.Duration) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || s.now().Sub(e.storedAt) >= ttl {
		return nil, false
	}
	return e.value, true
}

// GetStale returns the entry under key regardless of age.
func (s *Store) GetStale(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Put stores value under key with the current time as its birth.
func (s *Store) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, storedAt: s.now()}
}

// Invalidate drops the entry under key.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// InvalidateAll drops every entry whose key starts with prefix.
func (s *Store) InvalidateAll(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
}

// Mutate patches an existing entry in place without refreshing its age,
// so a patched entry still expires on its original schedule. Missing
// entries are left missing.
func (s *Store) Mutate(key string, fn func(value any) any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return
	}
	e.value = fn(e.value)
	s.entries[key] = e
}

// Keys returns the cached keys matching prefix, for patch fan-out.
func (s *Store) Keys(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys
}
