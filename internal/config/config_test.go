package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Key != "default" {
		t.Fatalf("default key: %q", cfg.Key)
	}
	if cfg.MaxEntries != 5000 {
		t.Fatalf("default max entries: %d", cfg.MaxEntries)
	}
	if cfg.FlushWindowMs != 100 {
		t.Fatalf("default flush window: %d", cfg.FlushWindowMs)
	}
	if cfg.Fsync != "always" {
		t.Fatalf("default fsync: %q", cfg.Fsync)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ilogger.json")
	data := []byte(`{"key":"prod","maxEntries":200,"flushWindowMs":50,"fsync":"interval"}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Key != "prod" {
		t.Fatalf("expected prod, got %q", cfg.Key)
	}
	if cfg.MaxEntries != 200 {
		t.Fatalf("expected 200, got %d", cfg.MaxEntries)
	}
	if cfg.Fsync != "interval" {
		t.Fatalf("expected interval, got %q", cfg.Fsync)
	}
	// unspecified fields keep defaults
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level, got %q", cfg.LogLevel)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ilogger.yaml")
	data := []byte("key: staging\nmaxEntries: 42\nlogLevel: debug\n")
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Key != "staging" {
		t.Fatalf("expected staging, got %q", cfg.Key)
	}
	if cfg.MaxEntries != 42 {
		t.Fatalf("expected 42, got %d", cfg.MaxEntries)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug, got %q", cfg.LogLevel)
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	os.Setenv("ILOGGER_KEY", "envkey")
	os.Setenv("ILOGGER_MAX_ENTRIES", "77")
	os.Setenv("ILOGGER_FSYNC", "never")
	t.Cleanup(func() {
		os.Unsetenv("ILOGGER_KEY")
		os.Unsetenv("ILOGGER_MAX_ENTRIES")
		os.Unsetenv("ILOGGER_FSYNC")
	})
	FromEnv(&cfg)
	if cfg.Key != "envkey" {
		t.Fatalf("env override key: %q", cfg.Key)
	}
	if cfg.MaxEntries != 77 {
		t.Fatalf("env override max entries: %d", cfg.MaxEntries)
	}
	if cfg.Fsync != "never" {
		t.Fatalf("env override fsync: %q", cfg.Fsync)
	}
}

func TestDefaultDataDirXDG(t *testing.T) {
	original := os.Getenv("XDG_DATA_HOME")
	t.Cleanup(func() {
		if original != "" {
			os.Setenv("XDG_DATA_HOME", original)
		} else {
			os.Unsetenv("XDG_DATA_HOME")
		}
	})
	os.Setenv("XDG_DATA_HOME", "/custom/data")
	got := DefaultDataDir()
	if !strings.HasSuffix(got, filepath.Join("/custom/data", "ilogger")) {
		t.Fatalf("xdg data dir: %q", got)
	}
}
