package store

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// memoryDedupStore is bounded by capacity and TTL, whichever is hit first.
// When full, the least recently inserted id is evicted even if it has not expired.
type memoryDedupStore struct {
	mu      sync.Mutex
	entries *expirable.LRU[string, time.Time]
}

func NewMemoryDedupStore(capacity int, ttl time.Duration) DedupStore {
	return &memoryDedupStore{
		entries: expirable.NewLRU[string, time.Time](capacity, nil, ttl),
	}
}

func (s *memoryDedupStore) SeenOrRecord(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Peek skips expired entries and does not touch recency, so eviction order stays insertion order.
	if _, ok := s.entries.Peek(eventID); ok {
		return true, nil
	}
	s.entries.Add(eventID, time.Now())
	return false, nil
}

func (s *memoryDedupStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Len()
}

func (s *memoryDedupStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Purge()
	return nil
}
