package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/fitbit-discord-bot/storage"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Store is a thread-safe in-memory implementation of storage.Store. Expired
// entries are dropped lazily when read.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

var _ storage.Store = (*Store)(nil)

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		entries: make(map[string]entry),
	}
}

// Put stores a copy of value under key
func (s *Store) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return storage.ErrEmptyKey
	}

	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = NowTimeFunc().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = e
	return nil
}

// Get returns a copy of the value stored under key
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, storage.ErrEmptyKey
	}

	s.mu.RLock()
	e, exists := s.entries[key]
	s.mu.RUnlock()
	if !exists {
		return nil, false, nil
	}

	if e.expired(NowTimeFunc()) {
		s.mu.Lock()
		// A Put may have replaced the entry since the read lock was released.
		if current, ok := s.entries[key]; ok && current.expired(NowTimeFunc()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}

	return append([]byte(nil), e.value...), true, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	if key == "" {
		return storage.ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Keys returns the keys currently held, expired or not.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}
