package platform

import (
	"sync"

	"github.com/miraines/macroforge/internal/key"
)

// NoOpSource is an InputSource that never delivers events on its own;
// tests drive it directly via Inject.
type NoOpSource struct {
	mu      sync.Mutex
	onEvent func(RawEvent)
}

func (s *NoOpSource) Start(onEvent func(RawEvent)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvent = onEvent
	return nil
}

func (s *NoOpSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvent = nil
}

// Inject feeds a synthetic RawEvent as if it came from the OS, for
// tests exercising the engine end-to-end without a real input hook.
func (s *NoOpSource) Inject(ev RawEvent) {
	s.mu.Lock()
	onEvent := s.onEvent
	s.mu.Unlock()
	if onEvent != nil {
		onEvent(ev)
	}
}

// NoOpSink records every call instead of touching the OS, for tests and
// environments lacking input-monitoring permission.
type NoOpSink struct {
	mu      sync.Mutex
	Toggles []ToggleCall
	Taps    []TapCall
	Scrolls []ScrollCall
}

type ToggleCall struct {
	Base key.OutputKey
	Mods key.Modifier
	Dir  Direction
}

type TapCall struct {
	Base key.OutputKey
	Mods key.Modifier
}

type ScrollCall struct {
	Direction string
	Magnitude int
}

func (s *NoOpSink) KeyToggle(base key.OutputKey, mods key.Modifier, dir Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Toggles = append(s.Toggles, ToggleCall{Base: base, Mods: mods, Dir: dir})
	return nil
}

func (s *NoOpSink) KeyTap(base key.OutputKey, mods key.Modifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Taps = append(s.Taps, TapCall{Base: base, Mods: mods})
	return nil
}

func (s *NoOpSink) Scroll(direction string, magnitude int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Scrolls = append(s.Scrolls, ScrollCall{Direction: direction, Magnitude: magnitude})
	return nil
}

// Snapshot returns a copy of every toggle/tap/scroll recorded so far.
func (s *NoOpSink) Snapshot() (toggles []ToggleCall, taps []TapCall, scrolls []ScrollCall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	toggles = append(toggles, s.Toggles...)
	taps = append(taps, s.Taps...)
	scrolls = append(scrolls, s.Scrolls...)
	return
}
