package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/quicklist/quicklist/internal/model"
	"github.com/quicklist/quicklist/internal/queue"
	"github.com/quicklist/quicklist/internal/storage"
)

func newTestRepo(t *testing.T) (*Repository, *storage.MemStore) {
	t.Helper()
	store := storage.NewMemStore()
	return New(store, nil), store
}

func newSyncedRepo(t *testing.T) (*Repository, *queue.Queue, *storage.MemStore) {
	t.Helper()
	store := storage.NewMemStore()
	q := queue.Open(store)
	return New(store, q), q, store
}

func TestListRoundTrip(t *testing.T) {
	repo, store := newTestRepo(t)

	list, err := repo.CreateList("Groceries", "weekly shop", "#FDF2B2")
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	item, err := repo.AddItem(list.ID, "Milk", model.PriorityHigh, &due, nil)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// A fresh repository over the same store simulates an app restart.
	reloaded := New(store, nil).LoadLists()
	if len(reloaded) != 1 {
		t.Fatalf("expected 1 list after reload, got %d", len(reloaded))
	}
	got := reloaded[0]
	if got.Title != "Groceries" || got.Description != "weekly shop" || got.Color != "#FDF2B2" {
		t.Errorf("list fields lost: %+v", got)
	}
	if !got.CreatedAt.Equal(list.CreatedAt.Truncate(time.Second)) {
		t.Errorf("CreatedAt not preserved at second precision: %v vs %v", got.CreatedAt, list.CreatedAt)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got.Items))
	}
	gotItem := got.Items[0]
	if gotItem.ID != item.ID || gotItem.Text != "Milk" || gotItem.Priority != model.PriorityHigh {
		t.Errorf("item fields lost: %+v", gotItem)
	}
	if gotItem.DueDate == nil || !gotItem.DueDate.Equal(due) {
		t.Errorf("due date lost: %v", gotItem.DueDate)
	}
}

func TestLoadRestoresFromBackup(t *testing.T) {
	repo, store := newTestRepo(t)

	for _, title := range []string{"One", "Two", "Three"} {
		if _, err := repo.CreateList(title, "", "#fff"); err != nil {
			t.Fatalf("CreateList %s: %v", title, err)
		}
	}

	// Corrupt the primary key; the shadow backup must carry the data.
	store.SetRaw(storage.KeyLists, []byte("{corrupt"))

	restored := repo.LoadLists()
	if len(restored) != 3 {
		t.Fatalf("expected 3 lists restored from backup, got %d", len(restored))
	}

	// Self-healing: the primary key is re-persisted from the backup.
	var primary []storedList
	if !store.Load(storage.KeyLists, &primary) || len(primary) != 3 {
		t.Errorf("primary key not healed after backup restore: %d records", len(primary))
	}
}

func TestLoadEmptyPrimaryFallsBackToBackup(t *testing.T) {
	repo, store := newTestRepo(t)

	notes := []model.StickyNote{
		model.NewStickyNote("n1", model.NoteTypeContent, "#fff", model.Position{X: 1, Y: 2}),
		model.NewStickyNote("n2", model.NoteTypeContent, "#fff", model.Position{X: 3, Y: 4}),
		model.NewStickyNote("n3", model.NoteTypeTitle, "#fff", model.Position{}),
	}
	if !repo.SaveNotes(notes) {
		t.Fatal("SaveNotes returned false")
	}

	store.Remove(storage.KeyNotes)

	restored := repo.LoadNotes()
	if len(restored) != 3 {
		t.Fatalf("expected 3 notes from backup, got %d", len(restored))
	}
}

func TestBackupNeverOverwrittenWithEmpty(t *testing.T) {
	repo, store := newTestRepo(t)

	if _, err := repo.CreateList("Keep", "", "#fff"); err != nil {
		t.Fatal(err)
	}
	if !repo.SaveLists(nil) {
		t.Fatal("SaveLists(nil) returned false")
	}

	var backup []storedList
	if !store.Load(storage.BackupKey(storage.KeyLists), &backup) || len(backup) != 1 {
		t.Errorf("backup lost after empty save: %d records", len(backup))
	}
}

func TestLegacyNoteMigration(t *testing.T) {
	repo, store := newTestRepo(t)

	legacy := []legacyNote{
		{ID: "n1", Text: "old note", Color: "#ff0", X: 10, Y: 20, CreatedAt: "2024-01-02T03:04:05Z"},
		{ID: "n2", Text: "another", Color: "#0ff", X: 30, Y: 40, CreatedAt: "2024-02-03T04:05:06Z"},
	}
	data, _ := json.Marshal(legacy)
	store.SetRaw(storage.KeyLegacyNotes, data)

	notes := repo.LoadNotes()
	if len(notes) != 2 {
		t.Fatalf("expected 2 migrated notes, got %d", len(notes))
	}
	if notes[0].Content != "old note" || notes[0].Type != model.NoteTypeContent {
		t.Errorf("legacy note not lifted: %+v", notes[0])
	}
	if notes[0].Position.X != 10 || notes[0].Position.Y != 20 {
		t.Errorf("legacy coordinates lost: %+v", notes[0].Position)
	}

	// Running the load again must not duplicate: the v2 key now exists.
	if again := repo.LoadNotes(); len(again) != 2 {
		t.Errorf("migration not idempotent: %d notes on second load", len(again))
	}
}

func TestLegacyCategoryMigration(t *testing.T) {
	repo, store := newTestRepo(t)

	data, _ := json.Marshal([]string{"Work", "Home", "work", ""})
	store.SetRaw(storage.KeyLegacyCategories, data)

	categories := repo.LoadCategories()
	if len(categories) != 2 {
		t.Fatalf("expected 2 migrated categories (case dupes collapsed), got %d", len(categories))
	}
	for _, c := range categories {
		if c.ID == "" {
			t.Errorf("migrated category missing id: %+v", c)
		}
	}

	if again := repo.LoadCategories(); len(again) != 2 {
		t.Errorf("migration not idempotent: %d categories on second load", len(again))
	}
}

func TestMigrationSkippedWhenCurrentKeyExists(t *testing.T) {
	repo, store := newTestRepo(t)

	repo.SaveNotes([]model.StickyNote{model.NewStickyNote("n1", model.NoteTypeContent, "#fff", model.Position{})})

	data, _ := json.Marshal([]legacyNote{{ID: "stale", Text: "stale"}})
	store.SetRaw(storage.KeyLegacyNotes, data)

	notes := repo.LoadNotes()
	if len(notes) != 1 || notes[0].ID != "n1" {
		t.Errorf("migration ran despite existing v2 data: %+v", notes)
	}
}

func TestDeleteListPurgesQueuedMutations(t *testing.T) {
	repo, q, _ := newSyncedRepo(t)

	list, err := repo.CreateList("Doomed", "", "#fff")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.AddItem(list.ID, "Item", model.PriorityMedium, nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CreateCategory(list.ID, "Tag", "#abc", ""); err != nil {
		t.Fatal(err)
	}
	keeper, err := repo.CreateList("Keeper", "", "#fff")
	if err != nil {
		t.Fatal(err)
	}

	if q.Size() != 4 {
		t.Fatalf("expected 4 queued mutations before delete, got %d", q.Size())
	}

	if err := repo.DeleteList(list.ID); err != nil {
		t.Fatalf("DeleteList: %v", err)
	}

	// The doomed list's create/item/category entries are purged; what
	// remains is the keeper's create plus the delete itself.
	pending := q.DequeueAll()
	if len(pending) != 2 {
		t.Fatalf("expected 2 queued mutations after delete, got %d", len(pending))
	}
	if pending[0].Payload.TargetID() != keeper.ID {
		t.Errorf("keeper create lost: %+v", pending[0])
	}
	last := pending[1]
	if last.Type != model.MutationDelete || last.Entity != model.EntityList || last.Payload.TargetID() != list.ID {
		t.Errorf("list delete not queued last: %+v", last)
	}

	if _, err := repo.FindList(list.ID); err != ErrNotFound {
		t.Errorf("deleted list still findable: %v", err)
	}
}

// pendingFailStore rejects writes to the pending-mutation key while
// passing everything else through, simulating a queue that can no
// longer persist.
type pendingFailStore struct {
	storage.Store
}

func (s pendingFailStore) Save(key string, v interface{}) bool {
	if key == storage.KeyPending {
		return false
	}
	return s.Store.Save(key, v)
}

func TestQueueWriteFailureSurfacedButEntityPersists(t *testing.T) {
	store := pendingFailStore{storage.NewMemStore()}
	repo := New(store, queue.Open(store))

	list, err := repo.CreateList("Groceries", "", "#fff")
	if err != ErrQueueWrite {
		t.Fatalf("expected ErrQueueWrite, got %v", err)
	}

	// The list itself landed; only the replay record is at risk.
	if _, err := repo.FindList(list.ID); err != nil {
		t.Errorf("list not persisted despite queue failure: %v", err)
	}
}

func TestCreateCategoryRejectsCaseInsensitiveDuplicate(t *testing.T) {
	repo, _ := newTestRepo(t)

	list, _ := repo.CreateList("List", "", "#fff")
	if _, err := repo.CreateCategory(list.ID, "Work", "#abc", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CreateCategory(list.ID, "  work ", "#abc", ""); err != ErrDuplicateCategory {
		t.Errorf("expected ErrDuplicateCategory, got %v", err)
	}
}

func TestDeleteCategoryPrunesItemReferences(t *testing.T) {
	repo, _ := newTestRepo(t)

	list, _ := repo.CreateList("List", "", "#fff")
	cat, _ := repo.CreateCategory(list.ID, "Work", "#abc", "")
	other, _ := repo.CreateCategory(list.ID, "Home", "#def", "")
	item, err := repo.AddItem(list.ID, "Tagged", model.PriorityMedium, nil, []string{cat.ID, other.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(item.Categories) != 2 {
		t.Fatalf("expected 2 category refs, got %d", len(item.Categories))
	}

	if err := repo.DeleteCategory(list.ID, cat.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	got, err := repo.FindList(list.ID)
	if err != nil {
		t.Fatal(err)
	}
	gotItem := got.Item(item.ID)
	if len(gotItem.Categories) != 1 || gotItem.Categories[0] != other.ID {
		t.Errorf("dangling category ref survived: %v", gotItem.Categories)
	}
}

func TestAddItemDropsDanglingCategoryRefs(t *testing.T) {
	repo, _ := newTestRepo(t)

	list, _ := repo.CreateList("List", "", "#fff")
	item, err := repo.AddItem(list.ID, "Item", model.PriorityLow, nil, []string{"no-such-category"})
	if err != nil {
		t.Fatal(err)
	}
	if len(item.Categories) != 0 {
		t.Errorf("dangling ref accepted: %v", item.Categories)
	}
}

func TestToggleItemFlipsCompletion(t *testing.T) {
	repo, _ := newTestRepo(t)

	list, _ := repo.CreateList("List", "", "#fff")
	item, _ := repo.AddItem(list.ID, "Item", model.PriorityMedium, nil, nil)

	done, err := repo.ToggleItem(list.ID, item.ID)
	if err != nil || !done {
		t.Fatalf("first toggle: done=%v err=%v", done, err)
	}
	done, err = repo.ToggleItem(list.ID, item.ID)
	if err != nil || done {
		t.Fatalf("second toggle: done=%v err=%v", done, err)
	}
}

func TestItemPriorityDefaultsOnLoad(t *testing.T) {
	repo, store := newTestRepo(t)

	records := []storedList{{
		ID:        "l1",
		Title:     "List",
		Color:     "#fff",
		Items:     []storedItem{{ID: "i1", Text: "Item", CreatedAt: "2024-01-01T00:00:00Z"}},
		CreatedAt: "2024-01-01T00:00:00Z",
		UpdatedAt: "2024-01-01T00:00:00Z",
	}}
	data, _ := json.Marshal(records)
	store.SetRaw(storage.KeyLists, data)

	lists := repo.LoadLists()
	if lists[0].Items[0].Priority != model.PriorityMedium {
		t.Errorf("missing priority not defaulted: %q", lists[0].Items[0].Priority)
	}
}

func TestUnparseableDateKeepsRecord(t *testing.T) {
	repo, store := newTestRepo(t)

	records := []storedList{{
		ID:        "l1",
		Title:     "List",
		Color:     "#fff",
		CreatedAt: "not-a-date",
		UpdatedAt: "also-bad",
	}}
	data, _ := json.Marshal(records)
	store.SetRaw(storage.KeyLists, data)

	lists := repo.LoadLists()
	if len(lists) != 1 {
		t.Fatalf("record with bad date dropped: %d lists", len(lists))
	}
	if lists[0].CreatedAt.IsZero() {
		t.Error("bad date not defaulted")
	}
}

func TestLoadAchievementsSeedsDefaults(t *testing.T) {
	repo, _ := newTestRepo(t)

	achievements := repo.LoadAchievements()
	if len(achievements) != len(model.DefaultAchievements()) {
		t.Fatalf("expected full default set, got %d", len(achievements))
	}

	// Persist progress for one, reload, and check the rest still appear.
	achievements[0].Merge(achievements[0].MaxProgress)
	if !repo.SaveAchievements(achievements[:1]) {
		t.Fatal("SaveAchievements returned false")
	}

	reloaded := repo.LoadAchievements()
	if len(reloaded) != len(model.DefaultAchievements()) {
		t.Fatalf("defaults not re-seeded, got %d", len(reloaded))
	}
	if !reloaded[0].Unlocked {
		t.Error("stored unlock lost on reload")
	}
}

func TestRecomputeAchievementsIsMonotonic(t *testing.T) {
	repo, _ := newTestRepo(t)

	list, _ := repo.CreateList("List", "", "#fff")
	item, _ := repo.AddItem(list.ID, "Item", model.PriorityMedium, nil, nil)
	repo.ToggleItem(list.ID, item.ID)

	first := repo.RecomputeAchievements()
	var unlocked bool
	for _, a := range first {
		if a.ID == "first-step" && a.Unlocked {
			unlocked = true
		}
	}
	if !unlocked {
		t.Fatal("first-step not unlocked after completing an item")
	}

	// Un-complete the item; the unlock must survive.
	repo.ToggleItem(list.ID, item.ID)
	for _, a := range repo.RecomputeAchievements() {
		if a.ID == "first-step" && !a.Unlocked {
			t.Error("unlocked achievement regressed")
		}
	}
}

func TestDeleteItemKeepsUnlockedAchievements(t *testing.T) {
	repo, _ := newTestRepo(t)

	list, _ := repo.CreateList("List", "", "#fff")
	item, _ := repo.AddItem(list.ID, "Item", model.PriorityMedium, nil, nil)
	repo.ToggleItem(list.ID, item.ID)
	repo.RecomputeAchievements()

	if err := repo.DeleteItem(list.ID, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	for _, a := range repo.RecomputeAchievements() {
		if a.ID == "first-step" && !a.Unlocked {
			t.Error("unlock lost after deleting the completed item")
		}
	}
}

func TestThemeAndLanguageDefaults(t *testing.T) {
	repo, _ := newTestRepo(t)

	if repo.Theme() != "light" {
		t.Errorf("default theme: %q", repo.Theme())
	}
	if repo.Language() != "en" {
		t.Errorf("default language: %q", repo.Language())
	}

	repo.SetTheme("dark")
	repo.SetLanguage("de")
	if repo.Theme() != "dark" || repo.Language() != "de" {
		t.Errorf("preferences not persisted: %q %q", repo.Theme(), repo.Language())
	}
}
