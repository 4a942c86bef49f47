// Package cache implements the shared response cache used by the catalog client.
// Entries are raw response bodies keyed by request URL and are served for a
// revalidate window, then served stale while a background refresh runs.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Entry is a cached response body and the moment it was fetched.
type Entry struct {
	Body     []byte    `json:"body"`
	StoredAt time.Time `json:"stored_at"`
}

// ErrNotFound is returned by stores when a key has no entry.
var ErrNotFound = errors.New("cache entry not found")

// Store persists entries. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key string, e Entry) error
}

// DefaultMaxEntries caps a MemoryStore created without an explicit size.
const DefaultMaxEntries = 10000

// MemoryStore is an in-process Store. It keeps at most maxEntries keys, dropping the
// least recently used, and forgets entries older than retention.
type MemoryStore struct {
	lru *expirable.LRU[string, Entry]
}

// NewMemoryStore creates an empty MemoryStore. A non-positive retention keeps entries
// until they are evicted by size.
func NewMemoryStore(maxEntries int, retention time.Duration) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{lru: expirable.NewLRU[string, Entry](maxEntries, nil, retention)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, error) {
	e, ok := s.lru.Get(key)
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, e Entry) error {
	s.lru.Add(key, e)
	return nil
}

// Len reports the number of cached keys.
func (s *MemoryStore) Len() int {
	return s.lru.Len()
}

func (s *MemoryStore) Clear() {
	s.lru.Purge()
}
