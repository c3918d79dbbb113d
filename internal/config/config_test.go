package config

import (
	"path/filepath"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("DATA_DIR", "")
	t.Setenv("MEDIA_FILE", "")
	t.Setenv("USERS_FILE", "")

	cfg := NewConfig()

	if cfg.DataDir != "data" {
		t.Fatalf("DataDir default expected 'data', got %q", cfg.DataDir)
	}
	if got := cfg.MediaPath(); got != filepath.Join("data", "media.json") {
		t.Fatalf("MediaPath expected data/media.json, got %q", got)
	}
	if got := cfg.UsersPath(); got != filepath.Join("data", "users.json") {
		t.Fatalf("UsersPath expected data/users.json, got %q", got)
	}
}

func TestNewConfigEnvOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/library")
	t.Setenv("MEDIA_FILE", "catalog.json")
	t.Setenv("USERS_FILE", "accounts.json")

	cfg := NewConfig()

	if got := cfg.MediaPath(); got != filepath.Join("/var/lib/library", "catalog.json") {
		t.Fatalf("MediaPath expected under DATA_DIR, got %q", got)
	}
	if got := cfg.UsersPath(); got != filepath.Join("/var/lib/library", "accounts.json") {
		t.Fatalf("UsersPath expected under DATA_DIR, got %q", got)
	}
}

func TestAbsolutePathsBypassDataDir(t *testing.T) {
	t.Setenv("DATA_DIR", "data")
	t.Setenv("MEDIA_FILE", "/tmp/media.json")
	t.Setenv("USERS_FILE", "")

	cfg := NewConfig()

	if got := cfg.MediaPath(); got != "/tmp/media.json" {
		t.Fatalf("absolute MEDIA_FILE must be used as-is, got %q", got)
	}
}
