package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"assistant-2025-01-01T00-00-00.log",
		"assistant-2025-01-02T00-00-00.log",
		"assistant-2025-01-03T00-00-00.log",
		"unrelated.txt",
	}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := cleanupOldLogs(dir, 2); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, names[0])); !os.IsNotExist(err) {
		t.Error("oldest log should have been removed")
	}
	for _, n := range names[1:] {
		if _, err := os.Stat(filepath.Join(dir, n)); err != nil {
			t.Errorf("%s should remain: %v", n, err)
		}
	}
}

func TestNewLogger_WritesFile(t *testing.T) {
	dir := t.TempDir()
	logger, closer, err := NewLogger(&Config{Environment: "test", LogDir: dir, LogMaxFiles: 3})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hello", "k", "v")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	files, _ := filepath.Glob(filepath.Join(dir, "assistant-*.log"))
	if len(files) != 1 {
		t.Fatalf("got %d log files, want 1", len(files))
	}
	data, _ := os.ReadFile(files[0])
	if len(data) == 0 {
		t.Error("log file is empty")
	}
}
