package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	val     []byte
	expires time.Time
}

// MemoryStore keeps cached blobs in process memory. It is the store used in
// tests and in single-instance deployments that run without Redis. Expired
// entries are dropped lazily on read.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().After(e.expires) {
		delete(s.entries, key)
		return nil, false
	}
	return e.val, true
}

func (s *MemoryStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{val: val, expires: s.now().Add(ttl)}
}

func (s *MemoryStore) Clear(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}
