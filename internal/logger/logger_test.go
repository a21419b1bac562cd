package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"DEBUG": DEBUG,
		"debug": DEBUG,
		"WARN":  WARN,
		"ERROR": ERROR,
		"INFO":  INFO,
		"bogus": INFO,
		"":      INFO,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerWritesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	l, err := New(Config{Level: DEBUG, FilePath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.Info("something happened", F("key", "value"), F("count", 3))
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	entry := string(data)
	if !strings.Contains(entry, "INFO: something happened") {
		t.Errorf("entry missing level and message: %s", entry)
	}
	if !strings.Contains(entry, "key=value") || !strings.Contains(entry, "count=3") {
		t.Errorf("entry missing fields: %s", entry)
	}
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	l, err := New(Config{Level: WARN, FilePath: path})
	if err != nil {
		t.Fatal(err)
	}

	l.Debug("hidden")
	l.Info("hidden too")
	l.Warn("visible")
	l.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Errorf("filtered entries written: %s", data)
	}
	if !strings.Contains(string(data), "visible") {
		t.Errorf("warn entry missing: %s", data)
	}
}

func TestLoggerRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	l, err := New(Config{Level: DEBUG, FilePath: path, MaxSize: 64, MaxBackups: 2})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 20; i++ {
		l.Info("a fairly long entry to push the file past the rotation threshold")
	}
	l.Close()

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("no rotated file after exceeding max size: %v", err)
	}
}
