// Package storage provides the durable key-value port backing all local
// persistence: entity collections, the pending-mutation queue, and sync
// metadata. Implementations never surface errors for reads or writes;
// writes report success as a boolean and reads fall back to the caller's
// default, so corrupt or missing data degrades instead of crashing.
package storage

import "time"

// Namespaced keys. Version suffixes mark breaking storage-shape changes;
// unsuffixed variants are legacy keys handled by the repository migration.
const (
	KeyLists            = "quicklist-lists"
	KeyNotes            = "quicklist-sticky-notes-v2"
	KeyCategories       = "quicklist-sticky-categories-v2"
	KeyLegacyNotes      = "quicklist-sticky-notes"
	KeyLegacyCategories = "quicklist-sticky-categories"
	KeyAchievements     = "quicklist-achievements"
	KeyPending          = "quicklist-pending-actions"
	KeyLastSync         = "quicklist-last-sync"
	KeyLanguage         = "quicklist-language"
	KeyTheme            = "quicklist-theme"
	KeyLastSave         = "quicklist-last-save-timestamp"
)

// BackupKey returns the shadow-backup key for a primary key.
func BackupKey(key string) string {
	return key + "-backup"
}

// Store is the durable key-value port. Save marshals v to JSON and
// persists it, returning false (never panicking or erroring out) on any
// marshal, quota, or I/O failure; the cause is logged. A successful Save
// also stamps the last-save diagnostic key. Load unmarshals into out and
// returns false when the key is absent or the stored value is corrupt,
// leaving out untouched so the caller's default survives.
type Store interface {
	Save(key string, v interface{}) bool
	Load(key string, out interface{}) bool
	Remove(key string)
	Keys() []string
}

func nowStamp() string {
	return time.Now().Format(time.RFC3339)
}
