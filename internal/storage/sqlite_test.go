package storage

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := openTestDB(t)

	type record struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	in := []record{{Name: "a", Count: 1}, {Name: "b", Count: 2}}
	if !store.Save("records", in) {
		t.Fatal("Save returned false")
	}

	var out []record
	if !store.Load("records", &out) {
		t.Fatal("Load returned false")
	}
	if len(out) != 2 || out[0].Name != "a" || out[1].Count != 2 {
		t.Errorf("round trip mismatch: %v", out)
	}
}

func TestSQLiteStoreOverwrite(t *testing.T) {
	store := openTestDB(t)

	store.Save("key", "first")
	store.Save("key", "second")

	var out string
	if !store.Load("key", &out) {
		t.Fatal("Load returned false")
	}
	if out != "second" {
		t.Errorf("expected overwritten value, got %q", out)
	}
}

func TestSQLiteStoreMissingKey(t *testing.T) {
	store := openTestDB(t)

	out := 42
	if store.Load("absent", &out) {
		t.Fatal("Load of missing key returned true")
	}
	if out != 42 {
		t.Errorf("Load of missing key touched out: %d", out)
	}
}

func TestSQLiteStoreRemove(t *testing.T) {
	store := openTestDB(t)

	store.Save("key", 1)
	store.Remove("key")

	var out int
	if store.Load("key", &out) {
		t.Fatal("Load of removed key returned true")
	}
}

func TestSQLiteStoreStampsLastSave(t *testing.T) {
	store := openTestDB(t)

	if !store.Save("anything", true) {
		t.Fatal("Save returned false")
	}

	var stamp string
	if !store.Load(KeyLastSave, &stamp) {
		t.Fatal("last-save stamp missing after Save")
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	store, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	store.Save("durable", "value")
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	var out string
	if !reopened.Load("durable", &out) || out != "value" {
		t.Errorf("value lost across reopen: %q", out)
	}
}
