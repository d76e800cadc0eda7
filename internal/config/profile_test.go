package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validProfileJSON = `{
  "name": "demo",
  "description": "test profile",
  "gestureTimingConfiguration": {
    "multiPressWindow": 200,
    "longPressMin": 500,
    "longPressMax": 1200,
    "superLongMin": 1500,
    "superLongMax": 3000,
    "cancelThreshold": 5000,
    "debounceDelay": 15
  },
  "bindings": [
    {
      "name": "ping",
      "enabled": true,
      "trigger": {"key": "F1", "gesture": "single"},
      "sequence": [
        {"key": "A", "bufferTier": "low"}
      ]
    }
  ]
}`

func TestLoadProfileValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, []byte(validProfileJSON), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.Name != "demo" || len(p.Bindings) != 1 {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestLoadProfileInvalidFailsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	body := `{"name": "bad", "bindings": [{"name": "", "trigger": {"key": "F1", "gesture": "single"}, "sequence": []}]}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadProfile(path); err == nil {
		t.Fatal("expected validation error for a binding with no name and no steps")
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error for a missing profile file")
	}
}
