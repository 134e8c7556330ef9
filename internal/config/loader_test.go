package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	l := NewLoader(t.TempDir())

	cfg, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Providers) != 3 {
		t.Fatalf("expected 3 default providers, got %d", len(cfg.Providers))
	}
	if cfg.Providers[len(cfg.Providers)-1].Type != "static" {
		t.Fatal("default chain must end with the static provider")
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Fatalf("expected 3 retries, got %d", cfg.Retry.MaxAttempts)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(dir)

	cfg := Defaults()
	cfg.Book.Title = "The Productive Developer"
	cfg.Book.Author = "J. Writer"
	cfg.Validator.MinWords = 80

	if err := l.Save(cfg); err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewLoader(dir).Load()
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Book.Title != "The Productive Developer" {
		t.Fatalf("title lost: %q", reloaded.Book.Title)
	}
	if reloaded.Validator.MinWords != 80 {
		t.Fatalf("min words lost: %d", reloaded.Validator.MinWords)
	}
}

func TestLoadRejectsUnknownProviderType(t *testing.T) {
	dir := t.TempDir()
	bad := "providers:\n  - type: carrier-pigeon\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(bad), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLoader(dir).Load(); err == nil {
		t.Fatal("expected error for unknown provider type")
	}
}

func TestLoadRejectsCLIWithoutCommand(t *testing.T) {
	dir := t.TempDir()
	bad := "providers:\n  - type: cli\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(bad), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLoader(dir).Load(); err == nil {
		t.Fatal("expected error for cli provider without command")
	}
}
