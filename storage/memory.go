package storage

import "sync"

// NewMemory returns a store backed by a process-local map. It cannot fail
// and is the default token store, mirroring storage that lasts for the
// lifetime of a browser tab.
func NewMemory() Store {
	return &memoryStore{data: map[string]string{}}
}

type memoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func (s *memoryStore) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key]
}

func (s *memoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *memoryStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

func (s *memoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string]string{}
}

func (s *memoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}
