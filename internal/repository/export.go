package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/quicklist/quicklist/internal/logger"
	"github.com/quicklist/quicklist/internal/model"
	"github.com/quicklist/quicklist/internal/storage"
)

// SnapshotVersion is the export file format version.
const SnapshotVersion = 2

type snapshot struct {
	Lists        []storedList        `json:"lists"`
	StickyNotes  []storedNote        `json:"stickyNotes"`
	Achievements []storedAchievement `json:"achievements"`
	Categories   []model.Category    `json:"categories,omitempty"`
	ExportDate   string              `json:"exportDate"`
	Version      int                 `json:"version"`
}

// ImportResult reports the outcome of an import.
type ImportResult struct {
	Success bool
	Message string
}

// ExportAll bundles every entity family into a versioned JSON snapshot.
func (r *Repository) ExportAll() ([]byte, error) {
	snap := snapshot{
		Lists:        listsToRecords(r.LoadLists()),
		StickyNotes:  notesToRecords(r.LoadNotes()),
		Achievements: achievementsToRecords(r.LoadAchievements()),
		Categories:   r.LoadCategories(),
		ExportDate:   time.Now().UTC().Format(time.RFC3339),
		Version:      SnapshotVersion,
	}
	if snap.Lists == nil {
		snap.Lists = []storedList{}
	}
	if snap.StickyNotes == nil {
		snap.StickyNotes = []storedNote{}
	}

	return json.MarshalIndent(snap, "", "  ")
}

func achievementsToRecords(achievements []model.Achievement) []storedAchievement {
	out := make([]storedAchievement, len(achievements))
	for i, a := range achievements {
		out[i] = achievementToRecord(a)
	}
	return out
}

// ImportAll validates and applies a snapshot. Validation runs in full
// before any state is touched: on failure nothing is imported and a
// descriptive message is returned. Notes may arrive under either
// "stickyNotes" or the older "notes" field; optional families default to
// empty collections.
func (r *Repository) ImportAll(data []byte) ImportResult {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return ImportResult{Message: "import file is not a valid JSON document"}
	}

	listsRaw, ok := raw["lists"]
	if !ok {
		return ImportResult{Message: "import file is missing the required \"lists\" field"}
	}
	var lists []storedList
	if err := json.Unmarshal(listsRaw, &lists); err != nil {
		return ImportResult{Message: "\"lists\" must be an array of task lists"}
	}

	notesRaw, ok := raw["stickyNotes"]
	if !ok {
		notesRaw, ok = raw["notes"]
	}
	if !ok {
		return ImportResult{Message: "import file is missing the required \"stickyNotes\" field"}
	}
	var notes []storedNote
	if err := json.Unmarshal(notesRaw, &notes); err != nil {
		return ImportResult{Message: "\"stickyNotes\" must be an array of notes"}
	}

	var achievements []storedAchievement
	if achRaw, ok := raw["achievements"]; ok {
		if err := json.Unmarshal(achRaw, &achievements); err != nil {
			return ImportResult{Message: "\"achievements\" must be an array"}
		}
	}

	var categories []model.Category
	if catRaw, ok := raw["categories"]; ok {
		if err := json.Unmarshal(catRaw, &categories); err != nil {
			return ImportResult{Message: "\"categories\" must be an array"}
		}
	}

	if lists == nil {
		lists = []storedList{}
	}
	if notes == nil {
		notes = []storedNote{}
	}
	if achievements == nil {
		achievements = []storedAchievement{}
	}
	if categories == nil {
		categories = []model.Category{}
	}

	// All families validated; apply the snapshot.
	if !saveWithBackup(r.store, storage.KeyLists, lists) ||
		!saveWithBackup(r.store, storage.KeyNotes, notes) ||
		!r.store.Save(storage.KeyAchievements, achievements) ||
		!saveWithBackup(r.store, storage.KeyCategories, categories) {
		logger.Error("Import failed during storage write")
		return ImportResult{Message: "failed to persist imported data"}
	}

	logger.Info("Import complete",
		logger.F("lists", len(lists)),
		logger.F("notes", len(notes)),
		logger.F("achievements", len(achievements)))
	return ImportResult{
		Success: true,
		Message: fmt.Sprintf("imported %d lists, %d notes", len(lists), len(notes)),
	}
}
