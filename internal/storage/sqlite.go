package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/quicklist/quicklist/internal/logger"
)

// SQLiteStore persists keys in a single-table SQLite database. It is the
// durable backend of choice when many small writes are expected, since a
// row update is cheaper than rewriting a JSON file.
type SQLiteStore struct {
	db *sql.DB
}

// DefaultDBPath returns the default database path (~/.quicklist/quicklist.db).
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".quicklist", "quicklist.db"), nil
}

// OpenSQLiteStore opens or creates the SQLite-backed store at dbPath.
func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
		    key TEXT PRIMARY KEY,
		    value TEXT NOT NULL,
		    updated_at TEXT NOT NULL
		)`); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) put(key string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), nowStamp())
	return err
}

// Save implements Store.
func (s *SQLiteStore) Save(key string, v interface{}) bool {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("Failed to serialize value", logger.F("key", key), logger.F("error", err))
		return false
	}
	if err := s.put(key, data); err != nil {
		logger.Error("Failed to write value", logger.F("key", key), logger.F("error", err))
		return false
	}
	if key != KeyLastSave {
		stamp, _ := json.Marshal(nowStamp())
		if err := s.put(KeyLastSave, stamp); err != nil {
			logger.Warn("Failed to stamp last save", logger.F("error", err))
		}
	}
	return true
}

// Load implements Store.
func (s *SQLiteStore) Load(key string, out interface{}) bool {
	var data string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&data)
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		logger.Warn("Corrupt stored value, falling back to default", logger.F("key", key), logger.F("error", err))
		return false
	}
	return true
}

// Remove implements Store.
func (s *SQLiteStore) Remove(key string) {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		logger.Warn("Failed to remove key", logger.F("key", key), logger.F("error", err))
	}
}

// Keys implements Store.
func (s *SQLiteStore) Keys() []string {
	rows, err := s.db.Query(`SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err == nil {
			keys = append(keys, k)
		}
	}
	return keys
}
