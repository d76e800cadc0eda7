package gesture

import (
	"time"

	"github.com/miraines/macroforge/internal/key"
)

type pressRecord struct {
	at        time.Time
	holdMs    int64
	pressType PressType
}

// Resolution is the outcome of a machine resolving a gesture: the
// classified type and the hold duration of the final press in the
// sequence.
type Resolution struct {
	Gesture Type
	HoldMs  int64
}

// Machine classifies the press pattern of a single input key in
// isolation. It holds no reference to any other key's
// state and must be driven exclusively by the single ingest worker that
// owns it — it performs no internal locking.
type Machine struct {
	key key.InputKey
	cfg TimingConfig

	pressHistory           []pressRecord
	keyDownTime            *time.Time
	windowDeadline         *time.Time
	waitingForRelease      bool
	keyDownWasWithinWindow bool
	pressLimitReached      bool
	awaitJailUntil         *time.Time
}

// NewMachine constructs a Machine for a single input key under cfg.
func NewMachine(k key.InputKey, cfg TimingConfig) *Machine {
	return &Machine{key: k, cfg: cfg}
}

// Key returns the input key this machine classifies.
func (m *Machine) Key() key.InputKey { return m.key }

// Reconfigure updates the timing configuration and resets all state,
// used on profile reload (machines are reset in place, never
// reallocated).
func (m *Machine) Reconfigure(cfg TimingConfig) {
	m.cfg = cfg
	m.Reset()
}

// Reset clears all transient state without destroying the instance.
func (m *Machine) Reset() {
	m.pressHistory = m.pressHistory[:0]
	m.keyDownTime = nil
	m.windowDeadline = nil
	m.waitingForRelease = false
	m.keyDownWasWithinWindow = false
	m.pressLimitReached = false
	m.awaitJailUntil = nil
}

// HandleKeyDown processes a key-down at t. 4-press gestures resolve
// synchronously from here; all other gestures
// resolve only via the orchestrator's periodic CheckFinalize.
func (m *Machine) HandleKeyDown(t time.Time) (Resolution, bool) {
	if m.awaitJailUntil != nil && t.Before(*m.awaitJailUntil) {
		return Resolution{}, false // jail
	}
	if m.keyDownTime != nil {
		return Resolution{}, false // OS key-repeat autoburst
	}
	if m.pressLimitReached {
		return Resolution{}, false
	}

	if m.windowDeadline != nil && !t.After(*m.windowDeadline) {
		m.keyDownWasWithinWindow = true
		ext := t.Add(m.cfg.ExtensionWindow())
		m.windowDeadline = &ext
	} else {
		if !m.waitingForRelease {
			m.pressHistory = m.pressHistory[:0]
			m.pressLimitReached = false
		}
		m.keyDownWasWithinWindow = false
		deadline := t.Add(m.cfg.InitialWindow())
		m.windowDeadline = &deadline
	}

	down := t
	m.keyDownTime = &down

	if len(m.pressHistory) == 3 {
		m.windowDeadline = nil
		m.waitingForRelease = true
	}

	return Resolution{}, false
}

// HandleKeyUp processes a key-up at t. It returns (Resolution, true) only
// when the 4th press of a sequence resolves immediately; every other
// accepted press waits for the orchestrator's periodic finalization.
func (m *Machine) HandleKeyUp(t time.Time) (Resolution, bool) {
	if m.keyDownTime == nil {
		return Resolution{}, false
	}
	hold := t.Sub(*m.keyDownTime)
	m.keyDownTime = nil

	if m.pressLimitReached {
		return Resolution{}, false
	}

	if hold.Milliseconds() >= int64(m.cfg.CancelThresholdMs) {
		m.pressHistory = m.pressHistory[:0]
		m.windowDeadline = nil
		m.waitingForRelease = false
		return Resolution{}, false
	}

	pressType := m.cfg.Classify(hold)

	counts := m.keyDownWasWithinWindow || m.waitingForRelease || len(m.pressHistory) == 0
	if !counts {
		m.pressHistory = m.pressHistory[:0]
	}

	m.pressHistory = append(m.pressHistory, pressRecord{at: t, holdMs: hold.Milliseconds(), pressType: pressType})

	if len(m.pressHistory) >= 4 {
		m.pressLimitReached = true
		m.windowDeadline = nil
		m.waitingForRelease = false
		return m.resolve(t)
	}

	return Resolution{}, false
}

// CheckFinalize is invoked periodically by the orchestrator for every
// machine. It resolves a pending gesture once the elongating window has
// elapsed with no key currently held.
func (m *Machine) CheckFinalize(now time.Time) (Resolution, bool) {
	if len(m.pressHistory) == 0 {
		return Resolution{}, false
	}
	if m.keyDownTime != nil {
		return Resolution{}, false
	}
	if m.waitingForRelease {
		return Resolution{}, false
	}
	if m.windowDeadline == nil || !now.After(*m.windowDeadline) {
		return Resolution{}, false
	}
	return m.resolve(now)
}

// resolve computes the gesture from the current press history, resets
// state before any listener callback runs, and enters the post-gesture
// jail when applicable.
func (m *Machine) resolve(now time.Time) (Resolution, bool) {
	n := len(m.pressHistory)
	if n == 0 {
		return Resolution{}, false
	}
	if n > 4 {
		n = 4
	}
	last := m.pressHistory[len(m.pressHistory)-1]
	gesture := New(n, last.pressType)

	switch n {
	case 3:
		until := now.Add(120 * time.Millisecond)
		m.awaitJailUntil = &until
	case 4:
		until := now.Add(200 * time.Millisecond)
		m.awaitJailUntil = &until
	}

	m.pressHistory = m.pressHistory[:0]
	m.pressLimitReached = false
	m.windowDeadline = nil
	m.waitingForRelease = false
	m.keyDownWasWithinWindow = false

	return Resolution{Gesture: gesture, HoldMs: last.holdMs}, true
}
