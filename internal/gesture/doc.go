// Package gesture implements the per-input-key press-pattern classifier
// and the orchestrator that owns one instance per input key, feeds it
// from a bounded FIFO ingest queue, and drives its periodic
// finalization pass.
package gesture
