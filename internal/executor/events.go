package executor

import "github.com/google/uuid"

// EventType is the kind of an ExecutionEvent.
type EventType string

const (
	EventStarted   EventType = "started"
	EventStep      EventType = "step"
	EventCompleted EventType = "completed"
	EventError     EventType = "error"
	EventCancelled EventType = "cancelled"
)

// ExecutionEvent is emitted from the executor for every state change
// during a sequence run. ID correlates every event belonging to one
// run() call, assigned once when the run is claimed and shared by every
// event and log line it produces.
type ExecutionEvent struct {
	ID          uuid.UUID
	Type        EventType
	BindingName string
	StepIndex   *int
	DelayMs     *int
	Error       string
	TimestampMs int64
}

// ExecutionListener receives ExecutionEvents. Panics inside a listener
// are recovered and logged; they never abort the executor.
type ExecutionListener func(ExecutionEvent)
