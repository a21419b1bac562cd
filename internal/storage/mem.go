package storage

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/quicklist/quicklist/internal/logger"
)

// MemStore is an in-memory Store. It backs tests and the ephemeral mode;
// production wires FileStore or SQLiteStore instead.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: map[string][]byte{}}
}

// Save implements Store.
func (s *MemStore) Save(key string, v interface{}) bool {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("Failed to serialize value", logger.F("key", key), logger.F("error", err))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
	if key != KeyLastSave {
		stamp, _ := json.Marshal(nowStamp())
		s.data[KeyLastSave] = stamp
	}
	return true
}

// Load implements Store.
func (s *MemStore) Load(key string, out interface{}) bool {
	s.mu.RLock()
	data, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.Warn("Corrupt stored value, falling back to default", logger.F("key", key), logger.F("error", err))
		return false
	}
	return true
}

// Remove implements Store.
func (s *MemStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Keys implements Store.
func (s *MemStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetRaw stores a raw value under a key, bypassing serialization. Tests
// use it to simulate corrupt or legacy storage contents.
func (s *MemStore) SetRaw(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), data...)
}
