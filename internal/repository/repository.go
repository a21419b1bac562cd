// Package repository provides typed load/save access to every entity
// family over the durable store, including the shadow-backup safety net
// and the legacy-key migration.
package repository

import (
	"errors"

	"github.com/quicklist/quicklist/internal/logger"
	"github.com/quicklist/quicklist/internal/model"
	"github.com/quicklist/quicklist/internal/storage"
)

var (
	// ErrStorageWrite signals that the local write was rejected (quota or
	// serialization). The in-memory change stands; only persistence failed.
	ErrStorageWrite = errors.New("local storage write failed")

	// ErrNotFound signals that the target entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateCategory signals a case-normalized name collision
	// within one category scope.
	ErrDuplicateCategory = errors.New("category name already exists")

	// ErrQueueWrite signals that the entity change was persisted but the
	// pending-mutation record was not. The mutation is held in memory and
	// will sync in this session; it will not survive a restart.
	ErrQueueWrite = errors.New("pending queue write failed")
)

// Recorder receives the intent of every remote-bound local mutation.
// The pending-mutation queue implements it; a nil recorder puts the
// repository in local-only mode.
type Recorder interface {
	Record(mutationType, entity string, payload model.MutationPayload) bool
	PurgeList(listID string, descendantIDs []string) int
}

// Repository owns all entity families persisted in the durable store.
type Repository struct {
	store    storage.Store
	recorder Recorder
}

// New creates a repository over the given store. rec may be nil for
// local-only deployments.
func New(store storage.Store, rec Recorder) *Repository {
	return &Repository{store: store, recorder: rec}
}

func (r *Repository) record(mutationType, entity string, payload model.MutationPayload) error {
	if r.recorder == nil {
		return nil
	}
	if !r.recorder.Record(mutationType, entity, payload) {
		return ErrQueueWrite
	}
	return nil
}

// loadWithBackup loads records from the primary key and, when the
// primary yields nothing, falls back to the shadow backup. A restored
// backup is immediately re-persisted to the primary key (self-healing).
func loadWithBackup[T any](store storage.Store, key string) []T {
	var records []T
	if store.Load(key, &records) && len(records) > 0 {
		return records
	}

	var backup []T
	if store.Load(storage.BackupKey(key), &backup) && len(backup) > 0 {
		logger.Warn("Primary storage empty, restoring from backup",
			logger.F("key", key),
			logger.F("records", len(backup)))
		if !store.Save(key, backup) {
			logger.Error("Failed to re-persist restored backup", logger.F("key", key))
		}
		return backup
	}
	return records
}

// saveWithBackup persists records under the primary key and shadows
// every non-empty collection under the backup key.
func saveWithBackup[T any](store storage.Store, key string, records []T) bool {
	if records == nil {
		records = []T{}
	}
	if !store.Save(key, records) {
		return false
	}
	if len(records) > 0 {
		if !store.Save(storage.BackupKey(key), records) {
			logger.Warn("Failed to write shadow backup", logger.F("key", key))
		}
	}
	return true
}

// LoadLists returns all task lists, restoring from backup when needed.
func (r *Repository) LoadLists() []model.TaskList {
	return listsFromRecords(loadWithBackup[storedList](r.store, storage.KeyLists))
}

// SaveLists persists the full list collection.
func (r *Repository) SaveLists(lists []model.TaskList) bool {
	return saveWithBackup(r.store, storage.KeyLists, listsToRecords(lists))
}

// LoadNotes returns all sticky notes, running the legacy migration on
// first load and restoring from backup when needed.
func (r *Repository) LoadNotes() []model.StickyNote {
	r.migrateLegacyNotes()
	return notesFromRecords(loadWithBackup[storedNote](r.store, storage.KeyNotes))
}

// SaveNotes persists the full sticky-note collection.
func (r *Repository) SaveNotes(notes []model.StickyNote) bool {
	return saveWithBackup(r.store, storage.KeyNotes, notesToRecords(notes))
}

// LoadCategories returns the global category set used by the sticky
// board in local-only mode.
func (r *Repository) LoadCategories() []model.Category {
	r.migrateLegacyCategories()
	return loadWithBackup[model.Category](r.store, storage.KeyCategories)
}

// SaveCategories persists the global category set.
func (r *Repository) SaveCategories(categories []model.Category) bool {
	return saveWithBackup(r.store, storage.KeyCategories, categories)
}

// LoadAchievements returns the achievement set, seeding built-in
// achievements that are not yet present in storage.
func (r *Repository) LoadAchievements() []model.Achievement {
	var records []storedAchievement
	r.store.Load(storage.KeyAchievements, &records)

	byID := make(map[string]model.Achievement, len(records))
	for _, rec := range records {
		byID[rec.ID] = achievementFromRecord(rec)
	}

	defaults := model.DefaultAchievements()
	out := make([]model.Achievement, 0, len(defaults))
	for _, d := range defaults {
		if stored, ok := byID[d.ID]; ok {
			out = append(out, stored)
			continue
		}
		out = append(out, d)
	}
	return out
}

// SaveAchievements persists the achievement set.
func (r *Repository) SaveAchievements(achievements []model.Achievement) bool {
	records := make([]storedAchievement, len(achievements))
	for i, a := range achievements {
		records[i] = achievementToRecord(a)
	}
	return r.store.Save(storage.KeyAchievements, records)
}

// migrateLegacyNotes transforms the pre-v2 single-collection note key
// into the current shape, exactly once. The v2 key's presence gates the
// migration, so running it twice cannot duplicate data.
func (r *Repository) migrateLegacyNotes() {
	var current []storedNote
	if r.store.Load(storage.KeyNotes, &current) {
		return
	}

	var legacy []legacyNote
	if !r.store.Load(storage.KeyLegacyNotes, &legacy) || len(legacy) == 0 {
		return
	}

	migrated := make([]storedNote, len(legacy))
	for i, n := range legacy {
		migrated[i] = storedNote{
			ID:        n.ID,
			Type:      model.NoteTypeContent,
			Content:   n.Text,
			Color:     n.Color,
			Position:  model.Position{X: n.X, Y: n.Y},
			CreatedAt: n.CreatedAt,
		}
	}

	if r.store.Save(storage.KeyNotes, migrated) {
		logger.Info("Migrated legacy sticky notes", logger.F("count", len(migrated)))
	} else {
		logger.Error("Failed to persist migrated sticky notes")
	}
}

// migrateLegacyCategories lifts the pre-v2 name-only category list into
// full category records. Idempotent for the same reason as the notes
// migration.
func (r *Repository) migrateLegacyCategories() {
	var current []model.Category
	if r.store.Load(storage.KeyCategories, &current) {
		return
	}

	var legacy []string
	if !r.store.Load(storage.KeyLegacyCategories, &legacy) || len(legacy) == 0 {
		return
	}

	migrated := make([]model.Category, 0, len(legacy))
	seen := map[string]bool{}
	for _, name := range legacy {
		norm := model.NormalizeName(name)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		migrated = append(migrated, model.Category{ID: newID(), Name: name, Color: "#A5B4FC"})
	}

	if r.store.Save(storage.KeyCategories, migrated) {
		logger.Info("Migrated legacy categories", logger.F("count", len(migrated)))
	} else {
		logger.Error("Failed to persist migrated categories")
	}
}

// Theme returns the stored UI theme preference, or the default.
func (r *Repository) Theme() string {
	var theme string
	if !r.store.Load(storage.KeyTheme, &theme) || theme == "" {
		return "light"
	}
	return theme
}

// SetTheme persists the UI theme preference.
func (r *Repository) SetTheme(theme string) bool {
	return r.store.Save(storage.KeyTheme, theme)
}

// Language returns the stored language preference, or the default.
func (r *Repository) Language() string {
	var lang string
	if !r.store.Load(storage.KeyLanguage, &lang) || lang == "" {
		return "en"
	}
	return lang
}

// SetLanguage persists the language preference.
func (r *Repository) SetLanguage(lang string) bool {
	return r.store.Save(storage.KeyLanguage, lang)
}
