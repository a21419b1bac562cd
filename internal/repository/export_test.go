package repository

import (
	"encoding/json"
	"testing"

	"github.com/quicklist/quicklist/internal/model"
	"github.com/quicklist/quicklist/internal/storage"
)

func TestExportImportRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)

	list, _ := repo.CreateList("Groceries", "", "#fff")
	repo.AddItem(list.ID, "Milk", model.PriorityHigh, nil, nil)
	repo.CreateNote(model.NoteTypeContent, "", "remember", nil, nil, "#ff0", model.Position{X: 5, Y: 6})

	data, err := repo.ExportAll()
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}

	var snap map[string]json.RawMessage
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	for _, field := range []string{"lists", "stickyNotes", "achievements", "exportDate", "version"} {
		if _, ok := snap[field]; !ok {
			t.Errorf("export missing %q field", field)
		}
	}

	// Import into a fresh repository.
	target, _ := newTestRepo(t)
	result := target.ImportAll(data)
	if !result.Success {
		t.Fatalf("import failed: %s", result.Message)
	}

	lists := target.LoadLists()
	if len(lists) != 1 || len(lists[0].Items) != 1 || lists[0].Items[0].Text != "Milk" {
		t.Errorf("lists not imported: %+v", lists)
	}
	notes := target.LoadNotes()
	if len(notes) != 1 || notes[0].Content != "remember" {
		t.Errorf("notes not imported: %+v", notes)
	}
}

func TestImportRejectsInvalidDocument(t *testing.T) {
	repo, _ := newTestRepo(t)
	repo.CreateList("Existing", "", "#fff")

	cases := []struct {
		name string
		data string
	}{
		{"not json", "{broken"},
		{"missing lists", `{"stickyNotes": []}`},
		{"lists wrong type", `{"lists": "nope", "stickyNotes": []}`},
		{"missing notes", `{"lists": []}`},
		{"achievements wrong type", `{"lists": [], "stickyNotes": [], "achievements": 5}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := repo.ImportAll([]byte(tc.data))
			if result.Success {
				t.Fatal("invalid import reported success")
			}
			if result.Message == "" {
				t.Error("failure carries no message")
			}
			// Existing data must be untouched.
			lists := repo.LoadLists()
			if len(lists) != 1 || lists[0].Title != "Existing" {
				t.Errorf("failed import modified state: %+v", lists)
			}
		})
	}
}

func TestImportAcceptsLegacyNotesField(t *testing.T) {
	repo, _ := newTestRepo(t)

	data := `{
		"lists": [],
		"notes": [{"id": "n1", "type": "content", "content": "old export", "color": "#fff", "position": {"x": 0, "y": 0}, "createdAt": "2024-01-01T00:00:00Z"}]
	}`

	result := repo.ImportAll([]byte(data))
	if !result.Success {
		t.Fatalf("legacy-field import failed: %s", result.Message)
	}

	notes := repo.LoadNotes()
	if len(notes) != 1 || notes[0].Content != "old export" {
		t.Errorf("legacy notes field not honored: %+v", notes)
	}
}

func TestImportWithoutOptionalFamilies(t *testing.T) {
	repo, _ := newTestRepo(t)

	// Achievements and categories are optional and default to empty.
	result := repo.ImportAll([]byte(`{"lists": [], "stickyNotes": []}`))
	if !result.Success {
		t.Fatalf("minimal import failed: %s", result.Message)
	}

	// Defaults re-seed on load even though the stored set is empty.
	if got := repo.LoadAchievements(); len(got) != len(model.DefaultAchievements()) {
		t.Errorf("achievement defaults missing after import: %d", len(got))
	}
	if got := repo.LoadCategories(); len(got) != 0 {
		t.Errorf("expected no categories, got %d", len(got))
	}
}

func TestImportReplacesExistingData(t *testing.T) {
	repo, store := newTestRepo(t)
	repo.CreateList("Old", "", "#fff")

	incoming := `{
		"lists": [{"id": "l-new", "title": "New", "color": "#fff", "items": [], "categories": [], "archived": false, "createdAt": "2024-01-01T00:00:00Z", "updatedAt": "2024-01-01T00:00:00Z"}],
		"stickyNotes": []
	}`
	result := repo.ImportAll([]byte(incoming))
	if !result.Success {
		t.Fatalf("import failed: %s", result.Message)
	}

	lists := repo.LoadLists()
	if len(lists) != 1 || lists[0].ID != "l-new" {
		t.Errorf("import did not replace existing lists: %+v", lists)
	}

	// The shadow backup follows the import.
	var backup []storedList
	if store.Load(storage.BackupKey(storage.KeyLists), &backup) && len(backup) == 1 && backup[0].ID != "l-new" {
		t.Errorf("backup still holds pre-import data: %+v", backup)
	}
}
