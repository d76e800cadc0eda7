package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/miraines/macroforge/internal/profile"
)

func TestProfileWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")
	if err := os.WriteFile(path, []byte(validProfileJSON), 0644); err != nil {
		t.Fatal(err)
	}

	w := NewProfileWatcher(path, nil)
	changes := make(chan profile.Profile, 4)
	w.OnChange(func(p profile.Profile) { changes <- p })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	updated := []byte(`{
  "name": "demo-renamed",
  "gestureTimingConfiguration": {
    "multiPressWindow": 200, "longPressMin": 500, "longPressMax": 1200,
    "superLongMin": 1500, "superLongMax": 3000, "cancelThreshold": 5000, "debounceDelay": 15
  },
  "bindings": [
    {"name": "ping", "enabled": true, "trigger": {"key": "F1", "gesture": "single"},
     "sequence": [{"key": "A", "bufferTier": "low"}]}
  ]
}`)
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, updated, 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-changes:
		if p.Name != "demo-renamed" {
			t.Fatalf("got profile %q, want demo-renamed", p.Name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload callback")
	}
}

func TestProfileWatcherKeepsLastGoodOnInvalidWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")
	if err := os.WriteFile(path, []byte(validProfileJSON), 0644); err != nil {
		t.Fatal(err)
	}

	w := NewProfileWatcher(path, nil)
	changes := make(chan profile.Profile, 4)
	w.OnChange(func(p profile.Profile) { changes <- p })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("{not valid json"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-changes:
		t.Fatalf("expected no reload callback for invalid content, got %+v", p)
	case <-time.After(400 * time.Millisecond):
	}
}
