package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	in := map[string]int{"a": 1, "b": 2}
	if !store.Save("test-key", in) {
		t.Fatal("Save returned false")
	}

	var out map[string]int
	if !store.Load("test-key", &out) {
		t.Fatal("Load returned false")
	}
	if out["a"] != 1 || out["b"] != 2 {
		t.Errorf("round trip mismatch: %v", out)
	}
}

func TestFileStoreMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	out := "default"
	if store.Load("absent", &out) {
		t.Fatal("Load of missing key returned true")
	}
	if out != "default" {
		t.Errorf("Load of missing key touched out: %q", out)
	}
}

func TestFileStoreCorruptValue(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	var out map[string]int
	if store.Load("bad", &out) {
		t.Fatal("Load of corrupt value returned true")
	}
	if out != nil {
		t.Errorf("Load of corrupt value touched out: %v", out)
	}
}

func TestFileStoreStampsLastSave(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if !store.Save("anything", []int{1}) {
		t.Fatal("Save returned false")
	}

	var stamp string
	if !store.Load(KeyLastSave, &stamp) {
		t.Fatal("last-save stamp missing after Save")
	}
	if stamp == "" {
		t.Error("last-save stamp is empty")
	}
}

func TestFileStoreRemoveAndKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	store.Save("one", 1)
	store.Save("two", 2)
	store.Remove("one")

	var out int
	if store.Load("one", &out) {
		t.Fatal("Load of removed key returned true")
	}

	keys := store.Keys()
	found := false
	for _, k := range keys {
		if k == "two" {
			found = true
		}
		if k == "one" {
			t.Error("removed key still listed")
		}
	}
	if !found {
		t.Errorf("keys missing surviving entry: %v", keys)
	}
}
