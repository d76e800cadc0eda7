package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := NewDefaultSettings()
	if s.ProfilePath != want.ProfilePath || s.HotReload != want.HotReload {
		t.Fatalf("got %+v, want defaults %+v", s, want)
	}
	if s.Hotkeys.KillSwitch != DefaultKillSwitch {
		t.Fatalf("got kill switch %q, want %q", s.Hotkeys.KillSwitch, DefaultKillSwitch)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	body := `{"profile_path": "custom.json", "hot_reload": false, "hotkeys": {"kill_switch": "Ctrl+Alt+K"}}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ProfilePath != "custom.json" {
		t.Fatalf("got profile path %q, want custom.json", s.ProfilePath)
	}
	if s.HotReload {
		t.Fatal("expected hot_reload override to false")
	}
	if s.Hotkeys.KillSwitch != "Ctrl+Alt+K" {
		t.Fatalf("got kill switch %q, want override", s.Hotkeys.KillSwitch)
	}
	if s.Hotkeys.ReloadProfile != DefaultReloadProfile {
		t.Fatalf("expected unset reload_profile to keep its default, got %q", s.Hotkeys.ReloadProfile)
	}
}

func TestSaveRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	s := NewDefaultSettings()
	s.ProfilePath = "round-trip.json"

	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ProfilePath != "round-trip.json" {
		t.Fatalf("got %q after round-trip, want round-trip.json", loaded.ProfilePath)
	}
}
