// Package timing implements the randomized delay generator that backs
// the executor's and traffic controller's waits: key-down durations,
// inter-step buffers, dual-key offsets, hold-through release delays, and
// traffic-controller polling. Gesture multi-press windows are fixed by
// the timing configuration and do not use it.
//
// Each named range accepts an optional "sweet spot" bias so that
// generated delays cluster around a small number of human-plausible
// values rather than spreading uniformly, while a sliding per-range
// history nudges successive draws away from whatever value was just
// produced to avoid visible clustering.
package timing
