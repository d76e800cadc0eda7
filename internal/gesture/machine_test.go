package gesture

import (
	"testing"
	"time"

	"github.com/miraines/macroforge/internal/key"
)

func testCfg() TimingConfig {
	return TimingConfig{
		MultiPressWindowMs: 200,
		LongPressMinMs:     500,
		LongPressMaxMs:     1200,
		SuperLongMinMs:     1500,
		SuperLongMaxMs:     3000,
		CancelThresholdMs:  5000,
		DebounceDelayMs:    15,
	}
}

func at(ms int) time.Time {
	return time.Unix(0, 0).Add(time.Duration(ms) * time.Millisecond)
}

// S1: a single short tap, left alone past the window, finalizes as Single.
func TestMachineSingleTap(t *testing.T) {
	m := NewMachine(key.InputF1, testCfg())

	m.HandleKeyDown(at(0))
	if _, ok := m.HandleKeyUp(at(50)); ok {
		t.Fatal("unexpected synchronous resolution on first release")
	}

	if _, ok := m.CheckFinalize(at(100)); ok {
		t.Fatal("finalize fired before window elapsed")
	}

	res, ok := m.CheckFinalize(at(205))
	if !ok {
		t.Fatal("expected finalize to resolve after window elapsed")
	}
	if res.Gesture != Single {
		t.Fatalf("got %v, want Single", res.Gesture)
	}
}

// S2: a single long-held press resolves as SingleLong at the first
// finalization pass after release, since the window opened at key-down
// has already elapsed.
func TestMachineSingleLongPress(t *testing.T) {
	m := NewMachine(key.InputF1, testCfg())

	m.HandleKeyDown(at(0))
	m.HandleKeyUp(at(700))

	res, ok := m.CheckFinalize(at(1000))
	if !ok {
		t.Fatal("expected finalize to resolve")
	}
	if res.Gesture != SingleLong {
		t.Fatalf("got %v, want SingleLong", res.Gesture)
	}
	if res.HoldMs != 700 {
		t.Fatalf("got hold %d, want 700", res.HoldMs)
	}
}

// Two short taps within the window resolve as Double at finalization.
func TestMachineDoubleTap(t *testing.T) {
	m := NewMachine(key.InputF1, testCfg())

	m.HandleKeyDown(at(0))
	m.HandleKeyUp(at(30))
	m.HandleKeyDown(at(100))
	m.HandleKeyUp(at(130))

	if _, ok := m.CheckFinalize(at(200)); ok {
		t.Fatal("finalize fired before extension window elapsed")
	}

	res, ok := m.CheckFinalize(at(400))
	if !ok {
		t.Fatal("expected finalize to resolve Double")
	}
	if res.Gesture != Double {
		t.Fatalf("got %v, want Double", res.Gesture)
	}
}

// S3: four presses resolve Quadruple synchronously on the 4th key-up, and
// the key enters jail afterward.
func TestMachineQuadrupleResolvesSynchronouslyThenJails(t *testing.T) {
	m := NewMachine(key.InputF1, testCfg())

	m.HandleKeyDown(at(0))
	m.HandleKeyUp(at(20))
	m.HandleKeyDown(at(60))
	m.HandleKeyUp(at(80))
	m.HandleKeyDown(at(120))
	m.HandleKeyUp(at(140))
	m.HandleKeyDown(at(180))

	res, ok := m.HandleKeyUp(at(200))
	if !ok {
		t.Fatal("expected synchronous resolution on 4th release")
	}
	if res.Gesture != Quadruple {
		t.Fatalf("got %v, want Quadruple", res.Gesture)
	}

	// Jailed: a key-down immediately after must be ignored.
	if _, ok := m.HandleKeyDown(at(210)); ok {
		t.Fatal("unexpected resolution during jail")
	}
	if len(m.pressHistory) != 0 {
		t.Fatal("jailed key-down must not start a new sequence")
	}

	// After the 200ms quadruple jail elapses, a fresh press is accepted.
	m.HandleKeyDown(at(401))
	if m.keyDownTime == nil {
		t.Fatal("key-down after jail should be accepted")
	}
}

// Triple presses enter a shorter (120ms) jail.
func TestMachineTripleJailDuration(t *testing.T) {
	m := NewMachine(key.InputF1, testCfg())

	m.HandleKeyDown(at(0))
	m.HandleKeyUp(at(20))
	m.HandleKeyDown(at(60))
	m.HandleKeyUp(at(80))
	m.HandleKeyDown(at(120))
	m.HandleKeyUp(at(140))

	res, ok := m.CheckFinalize(at(340))
	if !ok || res.Gesture != Triple {
		t.Fatalf("got (%v, %v), want (Triple, true)", res.Gesture, ok)
	}

	if _, ok := m.HandleKeyDown(at(350)); ok {
		t.Fatal("unexpected resolution during triple jail")
	}

	m.HandleKeyDown(at(461))
	if m.keyDownTime == nil {
		t.Fatal("key-down after triple jail should be accepted")
	}
}

// A hold exceeding the cancel threshold discards the whole press, with
// no gesture ever emitted for it.
func TestMachineCancelThresholdDiscardsPress(t *testing.T) {
	m := NewMachine(key.InputF1, testCfg())

	m.HandleKeyDown(at(0))
	if _, ok := m.HandleKeyUp(at(6000)); ok {
		t.Fatal("unexpected resolution on cancel-threshold release")
	}
	if _, ok := m.CheckFinalize(at(6300)); ok {
		t.Fatal("cancelled press must not resolve at finalize")
	}
}

// Key-repeat auto-fire (a key-down while already down) must not be
// treated as a new press.
func TestMachineKeyRepeatSuppressed(t *testing.T) {
	m := NewMachine(key.InputF1, testCfg())

	m.HandleKeyDown(at(0))
	m.HandleKeyDown(at(10))
	m.HandleKeyDown(at(20))

	res, ok := m.HandleKeyUp(at(40))
	if ok {
		t.Fatal("unexpected synchronous resolution")
	}
	_ = res

	final, ok := m.CheckFinalize(at(250))
	if !ok || final.Gesture != Single {
		t.Fatalf("got (%v, %v), want (Single, true)", final.Gesture, ok)
	}
}

// Isolation: two machines for different keys never interact.
func TestMachineIsolationAcrossKeys(t *testing.T) {
	a := NewMachine(key.InputF1, testCfg())
	b := NewMachine(key.InputF2, testCfg())

	a.HandleKeyDown(at(0))
	a.HandleKeyUp(at(20))
	a.HandleKeyDown(at(60))
	a.HandleKeyUp(at(80))

	if len(b.pressHistory) != 0 || b.keyDownTime != nil {
		t.Fatal("machine b state was mutated by machine a's activity")
	}

	res, ok := a.CheckFinalize(at(280))
	if !ok || res.Gesture != Double {
		t.Fatalf("machine a got (%v, %v), want (Double, true)", res.Gesture, ok)
	}
}

func TestMachineReconfigureResetsState(t *testing.T) {
	m := NewMachine(key.InputF1, testCfg())
	m.HandleKeyDown(at(0))

	m.Reconfigure(testCfg())

	if m.keyDownTime != nil || len(m.pressHistory) != 0 {
		t.Fatal("Reconfigure must clear in-flight state")
	}
}
