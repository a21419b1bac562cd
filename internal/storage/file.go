package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/quicklist/quicklist/internal/logger"
)

// FileStore persists each key as a JSON file in a data directory. A file
// lock guards the directory against concurrent processes sharing the
// same data dir.
type FileStore struct {
	dir      string
	fileLock *flock.Flock
	mu       sync.RWMutex
}

// DefaultDataDir returns the default data directory (~/.quicklist/data).
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".quicklist", "data"), nil
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{
		dir:      dir,
		fileLock: flock.New(filepath.Join(dir, ".lock")),
	}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) withLock(fn func() bool) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	locked, err := s.fileLock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil || !locked {
		logger.Error("Failed to acquire storage lock", logger.F("dir", s.dir), logger.F("error", err))
		return false
	}
	defer func() { _ = s.fileLock.Unlock() }()

	return fn()
}

// Save implements Store.
func (s *FileStore) Save(key string, v interface{}) bool {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("Failed to serialize value", logger.F("key", key), logger.F("error", err))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withLock(func() bool {
		if err := os.WriteFile(s.path(key), data, 0600); err != nil {
			logger.Error("Failed to write value", logger.F("key", key), logger.F("error", err))
			return false
		}
		if key != KeyLastSave {
			stamp, _ := json.Marshal(nowStamp())
			if err := os.WriteFile(s.path(KeyLastSave), stamp, 0600); err != nil {
				logger.Warn("Failed to stamp last save", logger.F("error", err))
			}
		}
		return true
	})
}

// Load implements Store.
func (s *FileStore) Load(key string, out interface{}) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.Warn("Corrupt stored value, falling back to default", logger.F("key", key), logger.F("error", err))
		return false
	}
	return true
}

// Remove implements Store.
func (s *FileStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.withLock(func() bool {
		_ = os.Remove(s.path(key))
		return true
	})
}

// Keys implements Store.
func (s *FileStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".json") {
			keys = append(keys, strings.TrimSuffix(name, ".json"))
		}
	}
	return keys
}
