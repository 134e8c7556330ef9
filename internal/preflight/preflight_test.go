package preflight

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"bookforge/internal/config"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("probe commands not available on windows")
	}
}

func TestProbeCommandFound(t *testing.T) {
	skipOnWindows(t)
	r := probeCommand(context.Background(), "shell", "sh", "-c", "exit 0")
	if r.Status != StatusOK {
		t.Errorf("probe sh: %+v", r)
	}
}

func TestProbeCommandMissing(t *testing.T) {
	r := probeCommand(context.Background(), "bogus", "definitely-not-a-real-command-xyz")
	if r.Status != StatusFail {
		t.Errorf("expected fail, got %+v", r)
	}
}

func TestCheckWorkspaceWritable(t *testing.T) {
	c := New(t.TempDir(), config.Defaults())
	r := c.checkWorkspace()
	if r.Status != StatusOK {
		t.Errorf("workspace check: %+v", r)
	}
}

func TestStaticProviderAlwaysReachable(t *testing.T) {
	cfg := config.Defaults()
	cfg.Providers = []config.ProviderConfig{
		{Type: "static", Name: "static"},
	}
	c := New(t.TempDir(), cfg)
	results := c.checkProviders(context.Background())
	if !Passed(results) {
		t.Errorf("static-only chain should pass: %+v", results)
	}
}

// stubBinary places an executable shell stub named name on PATH.
func stubBinary(t *testing.T, name string) {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, name)
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestBuiltinCLIProvidersProbeTheirCommand(t *testing.T) {
	skipOnWindows(t)
	stubBinary(t, "claude")

	cfg := config.Defaults()
	cfg.Providers = []config.ProviderConfig{
		{Type: "claude-cli", Name: "claude"},
	}
	c := New(t.TempDir(), cfg)
	results := c.checkProviders(context.Background())
	if !Passed(results) {
		t.Fatalf("claude-cli with stub on PATH should pass: %+v", results)
	}
	if results[0].Status != StatusOK {
		t.Errorf("provider probe = %+v, want ok", results[0])
	}
}

func TestCLIProviderLabelFallsBackToCommand(t *testing.T) {
	cfg := config.Defaults()
	cfg.Providers = []config.ProviderConfig{
		{Type: "gemini-cli"},
	}
	c := New(t.TempDir(), cfg)
	results := c.checkProviders(context.Background())
	if results[0].Name != "provider gemini" {
		t.Errorf("label = %q, want %q", results[0].Name, "provider gemini")
	}
}

func TestMissingCLIsFailChainWhenAlone(t *testing.T) {
	cfg := config.Defaults()
	cfg.Providers = []config.ProviderConfig{
		{Type: "cli", Name: "ghost", Command: "definitely-not-a-real-command-xyz"},
	}
	c := New(t.TempDir(), cfg)
	results := c.checkProviders(context.Background())
	if Passed(results) {
		t.Errorf("unreachable-only chain should fail: %+v", results)
	}

	// The CLI probe itself is a warning so the chain message carries the
	// failure.
	var sawWarn, sawFail bool
	for _, r := range results {
		if r.Status == StatusWarn {
			sawWarn = true
		}
		if r.Status == StatusFail {
			sawFail = true
		}
	}
	if !sawWarn || !sawFail {
		t.Errorf("want one warn and one fail: %+v", results)
	}
}
