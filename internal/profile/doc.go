// Package profile defines the macro profile document (bindings, steps,
// gesture timing) and the compiler that partitions its output keys into
// contended ("conundrum") and uncontended ("safe") sets.
package profile
