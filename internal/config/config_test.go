package config

import (
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	for _, key := range []string{
		"ZIPRUNE_DIR",
		"ZIPRUNE_DB",
		"ZIPRUNE_MIN_CONFIDENCE",
		"ZIPRUNE_BATCH_SIZE",
		"ZIPRUNE_EXCLUDE",
		"ZIPRUNE_LOG_LEVEL",
		"ZIPRUNE_LOG_FILE",
	} {
		// cleanenv treats a set-but-empty variable as a value, so unset it.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
	t.Setenv("ZIPRUNE_CONFIG", filepath.Join(tmp, "missing.yaml"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	return tmp
}

func TestGetDataDirWithExplicitEnv(t *testing.T) {
	isolate(t)
	customDir := filepath.Join(t.TempDir(), "custom")
	t.Setenv("ZIPRUNE_DIR", customDir)

	if got := GetDataDir(); got != customDir {
		t.Fatalf("expected %q, got %q", customDir, got)
	}
}

func TestGetDataDirFallsBackToXDG(t *testing.T) {
	tmp := isolate(t)

	got := GetDataDir()
	want := filepath.Join(tmp, "data", "ziprune")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestGetDBPath(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Setenv("ZIPRUNE_DIR", dir)

	if got, want := GetDBPath(), filepath.Join(dir, "file_index.db"); got != want {
		t.Fatalf("GetDBPath expected %q, got %q", want, got)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Setenv("ZIPRUNE_DIR", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MinConfidence != 0.9 {
		t.Fatalf("expected default min confidence 0.9, got %v", cfg.MinConfidence)
	}
	if cfg.BatchSize != 1000 {
		t.Fatalf("expected default batch size 1000, got %d", cfg.BatchSize)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected log level info, got %q", cfg.LogLevel)
	}
	if cfg.DBPath != filepath.Join(dir, "file_index.db") {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("ZIPRUNE_DB", "/tmp/custom.db")
	t.Setenv("ZIPRUNE_MIN_CONFIDENCE", "0.75")
	t.Setenv("ZIPRUNE_BATCH_SIZE", "10")
	t.Setenv("ZIPRUNE_EXCLUDE", "**/node_modules,.git")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DBPath != "/tmp/custom.db" {
		t.Fatalf("expected db override, got %q", cfg.DBPath)
	}
	if cfg.MinConfidence != 0.75 || cfg.BatchSize != 10 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if len(cfg.Exclude) != 2 || cfg.Exclude[0] != "**/node_modules" || cfg.Exclude[1] != ".git" {
		t.Fatalf("unexpected exclude list %#v", cfg.Exclude)
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	tmp := isolate(t)
	path := filepath.Join(tmp, "config.yaml")
	content := "min_confidence: 0.95\nbatch_size: 50\nexclude:\n  - \"**/.cache\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ZIPRUNE_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MinConfidence != 0.95 || cfg.BatchSize != 50 {
		t.Fatalf("unexpected values from file: %+v", cfg)
	}
	if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "**/.cache" {
		t.Fatalf("unexpected exclude list %#v", cfg.Exclude)
	}
}

func TestLoadRejectsOutOfRangeConfidence(t *testing.T) {
	isolate(t)
	t.Setenv("ZIPRUNE_MIN_CONFIDENCE", "1.5")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for min confidence above 1")
	}
}
