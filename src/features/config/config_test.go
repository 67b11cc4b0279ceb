package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 3300 {
		t.Fatalf("Server.Port = %d, want 3300", cfg.Server.Port)
	}
	if cfg.Workers.Count != 0 {
		t.Fatalf("Workers.Count = %d, want 0", cfg.Workers.Count)
	}
	if cfg.Challenge.BaseRate != 100 {
		t.Fatalf("Challenge.BaseRate = %d, want 100", cfg.Challenge.BaseRate)
	}
}

func TestLoadWritesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	mgr, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default config file to be written: %v", err)
	}
	if mgr.Get().Server.Port != 3300 {
		t.Fatalf("Server.Port = %d, want 3300", mgr.Get().Server.Port)
	}
}

func TestLoadReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8080\ndatabase:\n  path: custom.db\n"), 0o644); err != nil {
		t.Fatalf("seed config file: %v", err)
	}

	mgr, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := mgr.Get()
	if cfg.Server.Port != 8080 {
		t.Fatalf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Path != "custom.db" {
		t.Fatalf("Database.Path = %q, want custom.db", cfg.Database.Path)
	}
}

func TestLoadEnvFallbacksOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 3300\ndatabase:\n  path: lrclib.db\n"), 0o644); err != nil {
		t.Fatalf("seed config file: %v", err)
	}

	t.Setenv("LRCLIB_DATABASE_FILE", "/data/lrclib.db")
	t.Setenv("LRCLIB_WORKERS_COUNT", "4")
	t.Setenv("LRCLIB_LOG", "debug")

	mgr, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := mgr.Get()
	if cfg.Database.Path != "/data/lrclib.db" {
		t.Fatalf("Database.Path = %q, want /data/lrclib.db", cfg.Database.Path)
	}
	if cfg.Workers.Count != 4 {
		t.Fatalf("Workers.Count = %d, want 4", cfg.Workers.Count)
	}
	if cfg.Logger.Level != "debug" {
		t.Fatalf("Logger.Level = %q, want debug", cfg.Logger.Level)
	}
}

func TestLoadRejectsInvalidLoggerLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logger:\n  level: nonsense\n"), 0o644); err != nil {
		t.Fatalf("seed config file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for invalid logger level")
	}
}

func TestManagerUpdateIsVisibleToGet(t *testing.T) {
	mgr := NewManager(Default())
	replacement := Default()
	replacement.Server.Port = 9999
	mgr.Update(replacement)

	if mgr.Get().Server.Port != 9999 {
		t.Fatalf("Server.Port = %d, want 9999", mgr.Get().Server.Port)
	}
}
