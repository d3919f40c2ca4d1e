package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if !p.Sidebar() {
		t.Fatal("Sidebar() = false, want default open")
	}
}

func TestLoad_ParsesThemeAndSidebar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte(`
theme = "Nord"
sidebar_open = false
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load(path)
	if p.Theme != "Nord" {
		t.Fatalf("Theme = %q, want Nord", p.Theme)
	}
	if p.Sidebar() {
		t.Fatal("Sidebar() = true, want false")
	}
}

func TestLoad_CorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte(`theme = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load(path)
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q after corrupt file", p.Theme, defaultTheme)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")

	closed := false
	if err := Save(path, Prefs{Theme: "Nord", SidebarOpen: &closed}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	p := Load(path)
	if p.Theme != "Nord" || p.Sidebar() {
		t.Fatalf("round trip = %#v, want Nord with sidebar closed", p)
	}
}
