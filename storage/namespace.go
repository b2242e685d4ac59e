package storage

import (
	"strings"
	"sync"
)

// keyLister is implemented by backends that can enumerate their keys,
// allowing a namespaced view to clear only its own entries.
type keyLister interface {
	Keys() []string
}

// Namespaced wraps a backend so that all keys carry the given prefix. Use
// this when several library instances share one backend; each instance sees
// only its own keys and Clear removes only prefixed entries.
//
// If the backend cannot enumerate keys, Clear falls back to removing the
// keys this instance has written since construction.
func Namespaced(backend Store, prefix string) Store {
	if prefix != "" && !strings.HasSuffix(prefix, ".") {
		prefix += "."
	}
	return &namespacedStore{
		backend: backend,
		prefix:  prefix,
		written: map[string]bool{},
	}
}

type namespacedStore struct {
	backend Store
	prefix  string

	mu      sync.Mutex
	written map[string]bool
}

func (s *namespacedStore) Get(key string) string {
	return s.backend.Get(s.prefix + key)
}

func (s *namespacedStore) Set(key, value string) {
	s.mu.Lock()
	s.written[key] = true
	s.mu.Unlock()
	s.backend.Set(s.prefix+key, value)
}

func (s *namespacedStore) Remove(key string) {
	s.backend.Remove(s.prefix + key)
}

func (s *namespacedStore) Clear() {
	if lister, ok := s.backend.(keyLister); ok {
		for _, k := range lister.Keys() {
			if strings.HasPrefix(k, s.prefix) {
				s.backend.Remove(k)
			}
		}
		return
	}
	s.mu.Lock()
	keys := make([]string, 0, len(s.written))
	for k := range s.written {
		keys = append(keys, k)
	}
	s.mu.Unlock()
	for _, k := range keys {
		s.backend.Remove(s.prefix + k)
	}
}
