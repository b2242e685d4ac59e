package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// NewFile returns a store persisted as a single JSON file. Reads and writes
// are best-effort: IO errors leave the in-memory view intact and the store
// keeps operating, matching the degrade-to-no-op contract. The file is the
// namespace, so Clear removes only its own contents.
func NewFile(path string) Store {
	s := &fileStore{path: path}
	s.load()
	return s
}

func defaultFlowStore(appName string) Store {
	if appName == "" {
		appName = "authkit"
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return NewMemory()
	}
	return NewFile(filepath.Join(dir, appName, "flow.json"))
}

type fileStore struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

func (s *fileStore) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}

func (s *fileStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.flush()
}

func (s *fileStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	s.flush()
}

func (s *fileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string]string{}
	// Best effort; a stale file is re-read as empty on the next load.
	os.Remove(s.path)
}

func (s *fileStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// load populates the in-memory view from disk. A missing or corrupt file
// reads as an empty store.
func (s *fileStore) load() {
	s.data = map[string]string{}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var data map[string]string
	if err := json.Unmarshal(b, &data); err != nil {
		return
	}
	s.data = data
}

// flush writes the current view to disk, swallowing failures.
func (s *fileStore) flush() {
	b, err := json.Marshal(s.data)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return
	}
	os.Rename(tmp, s.path)
}
