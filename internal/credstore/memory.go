package credstore

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store. Every Set and Remove notifies all
// watchers.
type MemoryStore struct {
	mu       sync.RWMutex
	values   map[string]string
	watchers map[chan struct{}]struct{}
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:   make(map[string]string),
		watchers: make(map[chan struct{}]struct{}),
	}
}

// Get implements Store.
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set implements Store.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.broadcastLocked()
	s.mu.Unlock()
	return nil
}

// Remove implements Store. Removing an absent key still notifies.
func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.broadcastLocked()
	s.mu.Unlock()
	return nil
}

// Watch implements Store.
func (s *MemoryStore) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, ch)
		close(ch)
		s.mu.Unlock()
	}()

	return ch, nil
}

func (s *MemoryStore) broadcastLocked() {
	for ch := range s.watchers {
		notify(ch)
	}
}
