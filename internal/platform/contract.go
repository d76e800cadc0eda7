package platform

import (
	"time"

	"github.com/miraines/macroforge/internal/key"
)

// RawEventKind distinguishes a raw input transition.
type RawEventKind uint8

const (
	RawKeyDown RawEventKind = iota
	RawKeyUp
)

// RawEvent is delivered from the platform input source with a
// monotonic timestamp and a canonicalized key name already resolved
// to an InputKey; the platform shim canonicalizes key names before
// delivery.
type RawEvent struct {
	Key  key.InputKey
	Kind RawEventKind
	At   time.Time
}

// InputSource delivers raw key-down/key-up and mouse-button events.
// Start must be safe to call once; Stop must be idempotent.
type InputSource interface {
	Start(onEvent func(RawEvent)) error
	Stop()
}

// Direction is the toggle direction for OutputSink.KeyToggle.
type Direction uint8

const (
	Down Direction = iota
	Up
)

// OutputSink synthesizes keystrokes toward the OS. KeyToggle presses or
// releases base+modifiers as a single OS call; KeyTap is the atomic
// fallback used when KeyToggle fails.
type OutputSink interface {
	KeyToggle(base key.OutputKey, mods key.Modifier, dir Direction) error
	KeyTap(base key.OutputKey, mods key.Modifier) error
	Scroll(direction string, magnitude int) error
}

// PermissionKind identifies an OS-level permission the engine needs to
// function.
type PermissionKind string

const (
	PermissionAccessibility PermissionKind = "accessibility"
)

// Permissions reports and, where the OS supports it, prompts for the
// access the engine needs to hook global input and synthesize
// keystrokes.
type Permissions interface {
	Check(kind PermissionKind) (bool, error)
	Request(kind PermissionKind) error
}
