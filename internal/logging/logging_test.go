package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("loud", ""); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ziprune.log")

	logger, err := New("debug", path)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("indexed files")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"indexed files"`) {
		t.Fatalf("expected JSON log line, got %q", string(data))
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("expected no-op logger")
	}
}
