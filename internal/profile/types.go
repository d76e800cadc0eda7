package profile

import (
	"fmt"

	"github.com/miraines/macroforge/internal/gesture"
	"github.com/miraines/macroforge/internal/key"
)

// BufferTier is a coarse timing class used to look up a randomized
// inter-step delay range when a step doesn't carry an explicit one.
type BufferTier string

const (
	BufferLow    BufferTier = "low"
	BufferMedium BufferTier = "medium"
	BufferHigh   BufferTier = "high"
)

// IntRange is an inclusive millisecond range.
type IntRange struct {
	Min int `json:"min" mapstructure:"min"`
	Max int `json:"max" mapstructure:"max"`
}

// DefaultKeyDownDuration is the step-schema default for
// key_down_duration. The executor does not read it: a step that omits
// keyDownDuration draws from the timing oracle's keydown range (first
// press) or echo_hit range (repeats).
var DefaultKeyDownDuration = IntRange{Min: 15, Max: 27}

// DefaultReleaseDelay is the step-schema default for release_delay. The
// executor does not read it: a step that omits releaseDelay draws from
// the timing oracle's hold_release range, which has the same bounds.
var DefaultReleaseDelay = IntRange{Min: 7, Max: 18}

// DefaultDualKeyOffset is the offset DualKeyOffsetOrDefault reports for
// a dual_key step that omits one. The executor does not use it: an
// omitted offset is drawn from the timing oracle's dual_offset range.
const DefaultDualKeyOffset = 6

// Step is one unit of output within a macro sequence.
type Step struct {
	Key string `json:"key,omitempty" mapstructure:"key"`

	BufferTier BufferTier `json:"bufferTier,omitempty" mapstructure:"bufferTier"`
	MinDelay   int        `json:"minDelay,omitempty" mapstructure:"minDelay"`
	MaxDelay   int        `json:"maxDelay,omitempty" mapstructure:"maxDelay"`

	KeyDownDuration *IntRange `json:"keyDownDuration,omitempty" mapstructure:"keyDownDuration"`
	EchoHits        int       `json:"echoHits,omitempty" mapstructure:"echoHits"`

	DualKey              string    `json:"dualKey,omitempty" mapstructure:"dualKey"`
	DualKeyOffset        int       `json:"dualKeyOffset,omitempty" mapstructure:"dualKeyOffset"`
	DualKeyDownDuration  *IntRange `json:"dualKeyDownDuration,omitempty" mapstructure:"dualKeyDownDuration"`

	HoldThroughNext bool      `json:"holdThroughNext,omitempty" mapstructure:"holdThroughNext"`
	ReleaseDelay    *IntRange `json:"releaseDelay,omitempty" mapstructure:"releaseDelay"`

	Name string `json:"name,omitempty" mapstructure:"name"`

	ScrollDirection string `json:"scrollDirection,omitempty" mapstructure:"scrollDirection"`
	ScrollMagnitude int    `json:"scrollMagnitude,omitempty" mapstructure:"scrollMagnitude"`
}

// IsScroll reports whether this step produces a scroll event rather than
// a keystroke.
func (s Step) IsScroll() bool { return s.ScrollDirection != "" }

// HasExplicitDelay reports whether the step carries an explicit
// (minDelay, maxDelay) pair instead of a buffer tier.
func (s Step) HasExplicitDelay() bool { return s.MinDelay != 0 || s.MaxDelay != 0 }

// EchoHitsOrDefault returns EchoHits, defaulting to 1.
func (s Step) EchoHitsOrDefault() int {
	if s.EchoHits <= 0 {
		return 1
	}
	return s.EchoHits
}

// DualKeyOffsetOrDefault returns DualKeyOffset, defaulting to 6ms.
func (s Step) DualKeyOffsetOrDefault() int {
	if s.DualKeyOffset <= 0 {
		return DefaultDualKeyOffset
	}
	return s.DualKeyOffset
}

// Validate checks a single step against the fail-fast rules below.
// It never touches the OS; it only reports whether the step is well-formed.
func (s Step) Validate() error {
	if s.IsScroll() {
		if s.ScrollMagnitude <= 0 {
			return fmt.Errorf("profile: scroll step requires a positive scrollMagnitude")
		}
		return nil
	}

	if s.Key == "" {
		return fmt.Errorf("profile: step requires a key unless it is a scroll step")
	}
	if _, err := key.ParseQualified(s.Key); err != nil {
		return fmt.Errorf("profile: step key: %w", err)
	}

	switch {
	case s.BufferTier != "":
		if s.BufferTier != BufferLow && s.BufferTier != BufferMedium && s.BufferTier != BufferHigh {
			return fmt.Errorf("profile: unknown buffer tier %q", s.BufferTier)
		}
	case s.HasExplicitDelay():
		if s.MinDelay < 25 {
			return fmt.Errorf("profile: explicit minDelay must be >= 25, got %d", s.MinDelay)
		}
		if s.MaxDelay-s.MinDelay < 4 {
			return fmt.Errorf("profile: explicit delay range must span >= 4ms, got [%d,%d]", s.MinDelay, s.MaxDelay)
		}
	default:
		return fmt.Errorf("profile: step must set either bufferTier or an explicit delay range")
	}

	if s.KeyDownDuration != nil {
		if err := s.KeyDownDuration.validatePositive(); err != nil {
			return fmt.Errorf("profile: keyDownDuration: %w", err)
		}
	}

	hits := s.EchoHitsOrDefault()
	if hits < 1 || hits > 6 {
		return fmt.Errorf("profile: echoHits must be in [1,6], got %d", hits)
	}

	if s.DualKey != "" {
		dq, err := key.ParseQualified(s.DualKey)
		if err != nil {
			return fmt.Errorf("profile: dualKey: %w", err)
		}
		primary, _ := key.ParseQualified(s.Key)
		if dq.Raw() == primary.Raw() {
			return fmt.Errorf("profile: dualKey must have a raw base distinct from the primary key")
		}
		if s.DualKeyOffsetOrDefault() < 1 {
			return fmt.Errorf("profile: dualKeyOffset must be >= 1, got %d", s.DualKeyOffsetOrDefault())
		}
		if s.DualKeyDownDuration != nil {
			if err := s.DualKeyDownDuration.validatePositive(); err != nil {
				return fmt.Errorf("profile: dualKeyDownDuration: %w", err)
			}
		}
	}

	return nil
}

func (r IntRange) validatePositive() error {
	if r.Min <= 0 || r.Min > r.Max {
		return fmt.Errorf("invalid range [%d,%d]", r.Min, r.Max)
	}
	return nil
}

// Trigger names the (input key, gesture) pair that fires a binding.
type Trigger struct {
	Key     string `json:"key" mapstructure:"key"`
	Gesture string `json:"gesture" mapstructure:"gesture"`
}

// Binding maps a gesture trigger to an ordered macro sequence.
type Binding struct {
	Name    string  `json:"name" mapstructure:"name"`
	Enabled bool    `json:"enabled" mapstructure:"enabled"`
	Trigger Trigger `json:"trigger" mapstructure:"trigger"`
	Steps   []Step  `json:"sequence" mapstructure:"sequence"`

	// Supremacy bypasses the traffic controller entirely for this
	// binding's steps.
	Supremacy bool `json:"supremacy,omitempty" mapstructure:"supremacy"`
}

// ParsedTrigger resolves the trigger's key and gesture names into typed
// values, for use by the dispatcher.
func (b Binding) ParsedTrigger() (key.InputKey, gesture.Type, error) {
	ik, ok := key.InputKeyFromName(key.CanonicalizeInputName(b.Trigger.Key))
	if !ok {
		return 0, 0, fmt.Errorf("profile: binding %q: unknown trigger key %q", b.Name, b.Trigger.Key)
	}
	g, ok := gestureFromName(b.Trigger.Gesture)
	if !ok {
		return 0, 0, fmt.Errorf("profile: binding %q: unknown trigger gesture %q", b.Name, b.Trigger.Gesture)
	}
	return ik, g, nil
}

// Validate enforces the binding-level aggregate rules:
// at most 4 unique raw bases across the sequence, at most 6 steps per
// base, and every step individually valid.
func (b Binding) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("profile: binding requires a name")
	}
	if _, _, err := b.ParsedTrigger(); err != nil {
		return err
	}
	if len(b.Steps) == 0 {
		return fmt.Errorf("profile: binding %q has no steps", b.Name)
	}

	baseCounts := make(map[key.OutputKey]int)
	for i, step := range b.Steps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("profile: binding %q step %d: %w", b.Name, i, err)
		}
		if step.IsScroll() {
			continue
		}
		q, _ := key.ParseQualified(step.Key)
		baseCounts[q.Raw()]++
	}

	if len(baseCounts) > 4 {
		return fmt.Errorf("profile: binding %q references %d distinct base keys, max 4", b.Name, len(baseCounts))
	}
	for base, n := range baseCounts {
		if n > 6 {
			return fmt.Errorf("profile: binding %q uses base %s in %d steps, max 6", b.Name, base, n)
		}
	}
	return nil
}

// TimingConfig mirrors gesture.TimingConfig with profile-file tags; it
// is converted via ToGesture before being handed to the gesture package.
type TimingConfig struct {
	MultiPressWindowMs int `json:"multiPressWindow" mapstructure:"multiPressWindow"`
	LongPressMinMs     int `json:"longPressMin" mapstructure:"longPressMin"`
	LongPressMaxMs     int `json:"longPressMax" mapstructure:"longPressMax"`
	SuperLongMinMs     int `json:"superLongMin" mapstructure:"superLongMin"`
	SuperLongMaxMs     int `json:"superLongMax" mapstructure:"superLongMax"`
	CancelThresholdMs  int `json:"cancelThreshold" mapstructure:"cancelThreshold"`
	DebounceDelayMs    int `json:"debounceDelay" mapstructure:"debounceDelay"`
}

// ToGesture converts to the gesture package's timing configuration type.
func (t TimingConfig) ToGesture() gesture.TimingConfig {
	return gesture.TimingConfig{
		MultiPressWindowMs: t.MultiPressWindowMs,
		LongPressMinMs:     t.LongPressMinMs,
		LongPressMaxMs:     t.LongPressMaxMs,
		SuperLongMinMs:     t.SuperLongMinMs,
		SuperLongMaxMs:     t.SuperLongMaxMs,
		CancelThresholdMs:  t.CancelThresholdMs,
		DebounceDelayMs:    t.DebounceDelayMs,
	}
}

// Profile is a full macro profile document: name,
// description, gesture timing configuration, and an ordered list of
// bindings.
type Profile struct {
	Name        string        `json:"name" mapstructure:"name"`
	Description string        `json:"description" mapstructure:"description"`
	Timing      TimingConfig  `json:"gestureTimingConfiguration" mapstructure:"gestureTimingConfiguration"`
	Bindings    []Binding     `json:"bindings" mapstructure:"bindings"`
}

// Validate checks the timing configuration and every binding.
func (p Profile) Validate() error {
	if err := p.Timing.ToGesture().Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, b := range p.Bindings {
		if err := b.Validate(); err != nil {
			return err
		}
		if seen[b.Name] {
			return fmt.Errorf("profile: duplicate binding name %q", b.Name)
		}
		seen[b.Name] = true
	}
	return nil
}

var gestureNames = map[string]gesture.Type{
	"single":              gesture.Single,
	"single_long":         gesture.SingleLong,
	"single_super_long":   gesture.SingleSuperLong,
	"double":              gesture.Double,
	"double_long":         gesture.DoubleLong,
	"double_super_long":   gesture.DoubleSuperLong,
	"triple":              gesture.Triple,
	"triple_long":         gesture.TripleLong,
	"triple_super_long":   gesture.TripleSuperLong,
	"quadruple":           gesture.Quadruple,
	"quadruple_long":      gesture.QuadrupleLong,
	"quadruple_super_long": gesture.QuadrupleSuperLong,
}

func gestureFromName(name string) (gesture.Type, bool) {
	g, ok := gestureNames[name]
	return g, ok
}
