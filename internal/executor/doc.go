// Package executor validates and runs macro sequences: dual-key
// timing, echo-hit repetition, hold-through-next deferred release,
// buffer-tier/explicit inter-step delays, traffic-controller
// coordination on contended keys, and fire-and-forget per-binding
// scheduling with cooperative cancellation.
package executor
