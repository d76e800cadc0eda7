package gesture

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/miraines/macroforge/internal/key"
)

// PressType classifies how long a single press was held.
type PressType uint8

const (
	PressNormal PressType = iota
	PressLong
	PressSuperLong
)

func (p PressType) suffix() string {
	switch p {
	case PressLong:
		return "_long"
	case PressSuperLong:
		return "_super_long"
	default:
		return ""
	}
}

// Type is one of the 12 gesture classifications: press count (1-4) times
// press type (normal/long/super_long).
type Type uint8

const (
	Single Type = iota
	SingleLong
	SingleSuperLong
	Double
	DoubleLong
	DoubleSuperLong
	Triple
	TripleLong
	TripleSuperLong
	Quadruple
	QuadrupleLong
	QuadrupleSuperLong
)

var baseNames = [...]string{"single", "double", "triple", "quadruple"}

// New builds the gesture Type for a press count (1-4) and press type.
func New(count int, pt PressType) Type {
	if count < 1 {
		count = 1
	}
	if count > 4 {
		count = 4
	}
	return Type((count-1)*3 + int(pt))
}

// Count returns the press count (1-4) this gesture represents.
func (t Type) Count() int { return int(t)/3 + 1 }

// PressType returns the press type component of this gesture.
func (t Type) PressType() PressType { return PressType(int(t) % 3) }

// String renders e.g. "single", "double_long", "quadruple_super_long".
func (t Type) String() string {
	count := t.Count()
	if count < 1 || count > 4 {
		return fmt.Sprintf("gesture(%d)", uint8(t))
	}
	return baseNames[count-1] + t.PressType().suffix()
}

// Event is emitted from the core to subscribers for each resolved
// gesture.
type Event struct {
	ID             uuid.UUID
	InputKey       key.InputKey
	Gesture        Type
	TimestampMs    int64
	HoldDurationMs *int64
}

// NewEvent constructs a gesture Event with a fresh correlation ID.
func NewEvent(k key.InputKey, g Type, at time.Time, hold *int64) Event {
	return Event{
		ID:             uuid.New(),
		InputKey:       k,
		Gesture:        g,
		TimestampMs:    at.UnixMilli(),
		HoldDurationMs: hold,
	}
}

// TimingConfig holds the seven thresholds governing classification
type TimingConfig struct {
	MultiPressWindowMs int
	LongPressMinMs     int
	LongPressMaxMs     int
	SuperLongMinMs     int
	SuperLongMaxMs     int
	CancelThresholdMs  int
	DebounceDelayMs    int
}

// Validate enforces the invariant:
// long_press_max < super_long_min <= super_long_max < cancel_threshold.
func (c TimingConfig) Validate() error {
	if c.MultiPressWindowMs <= 0 {
		return fmt.Errorf("gesture: multi_press_window must be positive, got %d", c.MultiPressWindowMs)
	}
	if c.LongPressMinMs <= 0 || c.LongPressMaxMs < c.LongPressMinMs {
		return fmt.Errorf("gesture: invalid long press range [%d,%d]", c.LongPressMinMs, c.LongPressMaxMs)
	}
	if !(c.LongPressMaxMs < c.SuperLongMinMs) {
		return fmt.Errorf("gesture: long_press_max (%d) must be < super_long_min (%d)", c.LongPressMaxMs, c.SuperLongMinMs)
	}
	if !(c.SuperLongMinMs <= c.SuperLongMaxMs) {
		return fmt.Errorf("gesture: super_long_min (%d) must be <= super_long_max (%d)", c.SuperLongMinMs, c.SuperLongMaxMs)
	}
	if !(c.SuperLongMaxMs < c.CancelThresholdMs) {
		return fmt.Errorf("gesture: super_long_max (%d) must be < cancel_threshold (%d)", c.SuperLongMaxMs, c.CancelThresholdMs)
	}
	return nil
}

// InitialWindow is the duration during which a second press may join a
// fresh sequence.
func (c TimingConfig) InitialWindow() time.Duration {
	return time.Duration(c.MultiPressWindowMs) * time.Millisecond
}

// ExtensionWindow is the (shorter) window granted after each subsequent
// press joins the sequence: round(multi_press_window * 0.8).
func (c TimingConfig) ExtensionWindow() time.Duration {
	ms := int(float64(c.MultiPressWindowMs)*0.8 + 0.5)
	return time.Duration(ms) * time.Millisecond
}

// Classify maps a hold duration to a press type using the configured
// thresholds.
func (c TimingConfig) Classify(hold time.Duration) PressType {
	ms := hold.Milliseconds()
	switch {
	case ms >= int64(c.LongPressMinMs) && ms <= int64(c.LongPressMaxMs):
		return PressLong
	case ms >= int64(c.SuperLongMinMs) && ms <= int64(c.SuperLongMaxMs):
		return PressSuperLong
	default:
		return PressNormal
	}
}
