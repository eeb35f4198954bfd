package config

import (
	"os"
	"path/filepath"
	"testing"
)

func withTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home) // windows
	return home
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	withTempHome(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", cfg.Theme)
	}
	if cfg.DefaultModel != "vesper-swift" {
		t.Errorf("DefaultModel = %q, want vesper-swift", cfg.DefaultModel)
	}
}

func TestSaveAndLoadConfigRoundTrip(t *testing.T) {
	withTempHome(t)

	cfg := DefaultConfig()
	cfg.Theme = "light"
	cfg.DefaultModel = "vesper-sage"
	cfg.CopyToClipboard = true

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.Theme != "light" {
		t.Errorf("Theme = %q, want light", loaded.Theme)
	}
	if loaded.DefaultModel != "vesper-sage" {
		t.Errorf("DefaultModel = %q, want vesper-sage", loaded.DefaultModel)
	}
	if !loaded.CopyToClipboard {
		t.Error("CopyToClipboard must round-trip")
	}
}

func TestLoadConfigCorruptFileFallsBack(t *testing.T) {
	home := withTempHome(t)

	dir := filepath.Join(home, ".vesper")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Error("LoadConfig() on corrupt file must return an error")
	}
	if cfg.Theme != DefaultConfig().Theme {
		t.Errorf("corrupt config must fall back to defaults, got theme %q", cfg.Theme)
	}
}

func TestSaveConfigPermissions(t *testing.T) {
	withTempHome(t)

	if err := SaveConfig(DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	path, err := GetConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}
}

func TestThemesCycle(t *testing.T) {
	themes := Themes()
	if len(themes) < 2 {
		t.Fatalf("Themes() = %v, want at least dark and light", themes)
	}
	if themes[0] != "dark" {
		t.Errorf("first theme = %q, want dark", themes[0])
	}
}
