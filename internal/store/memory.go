package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Meant for tests and throwaway
// deployments; state is lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	data      map[string]any
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, key string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}

	// Copy so callers cannot mutate stored state behind the lock.
	data := make(map[string]any, len(entry.data))
	for k, v := range entry.data {
		data[k] = v
	}
	return data, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, data map[string]any, ttl time.Duration) error {
	copied := make(map[string]any, len(data))
	for k, v := range data {
		copied[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{data: copied, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
