package timing

import (
	"fmt"
	"math/rand"
	"sync"
)

// RangeName identifies one of the named timing ranges the oracle draws
// from. The generic range is available for ad hoc callers; the engine's
// components use the named ranges below.
type RangeName string

const (
	RangeBufferLow    RangeName = "buffer_low"
	RangeBufferMedium RangeName = "buffer_medium"
	RangeBufferHigh   RangeName = "buffer_high"
	RangeKeyDown      RangeName = "keydown"
	RangeEchoHit      RangeName = "echo_hit"
	RangeHoldRelease  RangeName = "hold_release"
	RangeDualOffset   RangeName = "dual_offset"
	RangeTrafficWait  RangeName = "traffic_wait"
	RangeGeneric      RangeName = "generic"
)

// Bounds is an inclusive [Min, Max] millisecond range.
type Bounds struct {
	Min int
	Max int
}

// SweetSpot maps a specific value within a range to a target probability.
// Probabilities across a single range's sweet spot must sum to at most 1;
// the remainder is spread uniformly across the values not named.
type SweetSpot map[int]float64

// DefaultBounds returns the canonical default bounds for the engine's
// eight named ranges. The generic range is not included; NewOracle
// gives it [0, 0].
func DefaultBounds() map[RangeName]Bounds {
	return map[RangeName]Bounds{
		RangeBufferLow:    {Min: 129, Max: 163},
		RangeBufferMedium: {Min: 229, Max: 263},
		RangeBufferHigh:   {Min: 513, Max: 667},
		RangeKeyDown:      {Min: 23, Max: 38},
		RangeEchoHit:      {Min: 15, Max: 25},
		RangeHoldRelease:  {Min: 7, Max: 18},
		RangeDualOffset:   {Min: 4, Max: 10},
		RangeTrafficWait:  {Min: 10, Max: 30},
	}
}

const historyCap = 50

type rangeState struct {
	bounds  Bounds
	sweet   SweetSpot
	history []int
}

// Oracle produces bounded, mildly human-shaped random integers for each
// configured range. It is safe for concurrent use.
type Oracle struct {
	mu     sync.Mutex
	rng    *rand.Rand
	ranges map[RangeName]*rangeState
}

// Option configures an Oracle at construction time.
type Option func(*Oracle)

// WithSource overrides the random source, primarily for deterministic
// tests.
func WithSource(src rand.Source) Option {
	return func(o *Oracle) { o.rng = rand.New(src) }
}

// WithSweetSpot configures a sweet-spot bias for a range. Ranges not
// configured fall back to DefaultBounds with a uniform distribution.
func WithSweetSpot(name RangeName, spot SweetSpot) Option {
	return func(o *Oracle) {
		st := o.ensureRange(name)
		st.sweet = spot
	}
}

// WithBounds overrides the bounds for a range, for callers using a
// non-default timing configuration.
func WithBounds(name RangeName, b Bounds) Option {
	return func(o *Oracle) {
		st := o.ensureRange(name)
		st.bounds = b
	}
}

// NewOracle builds an Oracle seeded with the default bounds for all
// named ranges, then applies opts.
func NewOracle(opts ...Option) *Oracle {
	o := &Oracle{
		rng:    rand.New(rand.NewSource(1)),
		ranges: make(map[RangeName]*rangeState),
	}
	for name, b := range DefaultBounds() {
		o.ranges[name] = &rangeState{bounds: b}
	}
	o.ranges[RangeGeneric] = &rangeState{bounds: Bounds{Min: 0, Max: 0}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Oracle) ensureRange(name RangeName) *rangeState {
	st, ok := o.ranges[name]
	if !ok {
		st = &rangeState{}
		o.ranges[name] = st
	}
	return st
}

// Draw returns a value in the configured [min, max] bounds for name.
// It panics if name was never configured with bounds (via DefaultBounds
// or WithBounds) — this is a programming error, not a runtime condition.
func (o *Oracle) Draw(name RangeName) int {
	o.mu.Lock()
	defer o.mu.Unlock()

	st, ok := o.ranges[name]
	if !ok || st.bounds.Max < st.bounds.Min {
		panic(fmt.Sprintf("timing: range %q has no configured bounds", name))
	}

	v := o.weightedPick(st)
	v = o.applyNoise(v, st.bounds)
	st.history = append(st.history, v)
	if len(st.history) > historyCap {
		st.history = st.history[len(st.history)-historyCap:]
	}
	return v
}

// DrawBounds draws from an explicit inline bounds pair, bypassing the
// named-range configuration. Used for sequence steps carrying an
// explicit (minDelay, maxDelay) instead of a buffer tier.
func (o *Oracle) DrawBounds(b Bounds) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	st := &rangeState{bounds: b}
	v := o.weightedPick(st)
	return o.applyNoise(v, b)
}

// weightedPick samples a value from st.bounds, biased by st.sweet and
// nudged away from recently drawn values.
func (o *Oracle) weightedPick(st *rangeState) int {
	lo, hi := st.bounds.Min, st.bounds.Max
	n := hi - lo + 1
	if n <= 1 {
		return lo
	}

	weights := make([]float64, n)

	var sweetTotal float64
	for v, p := range st.sweet {
		if v >= lo && v <= hi {
			sweetTotal += p
		}
	}
	if sweetTotal > 1 {
		sweetTotal = 1
	}

	namedCount := 0
	for v := range st.sweet {
		if v >= lo && v <= hi {
			namedCount++
		}
	}
	remaining := n - namedCount
	uniformShare := 0.0
	if remaining > 0 {
		uniformShare = (1 - sweetTotal) / float64(remaining)
	}

	for i := 0; i < n; i++ {
		v := lo + i
		if p, ok := st.sweet[v]; ok {
			weights[i] = p
		} else {
			weights[i] = uniformShare
		}
	}

	// Anti-clustering: mildly discount values seen in the recent history
	// window so the same draw doesn't repeat too often.
	recent := recentCounts(st.history)
	for i := 0; i < n; i++ {
		v := lo + i
		if c, ok := recent[v]; ok && c > 0 {
			weights[i] *= 1.0 / (1.0 + 0.35*float64(c))
		}
	}

	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return lo + o.rng.Intn(n)
	}

	target := o.rng.Float64() * total
	var cum float64
	for i, w := range weights {
		cum += w
		if target <= cum {
			return lo + i
		}
	}
	return hi
}

// applyNoise nudges the picked value by a small amount scaled to the
// range's own width rather than its absolute magnitude — a multiplicative
// factor of the full value would dwarf narrow ranges (e.g. a 35ms-wide
// buffer range) and erase any sweet-spot bias entirely. The jitter factor
// itself is drawn from [-0.1, 0.1], i.e. the [0.9, 1.1] band centered on 1.
func (o *Oracle) applyNoise(v int, b Bounds) int {
	width := b.Max - b.Min
	factor := o.rng.Float64()*0.2 - 0.1
	jitter := int(float64(width)*factor + 0.5)
	n := v + jitter
	if n < b.Min {
		n = b.Min
	}
	if n > b.Max {
		n = b.Max
	}
	return n
}

func recentCounts(history []int) map[int]int {
	start := 0
	if len(history) > 10 {
		start = len(history) - 10
	}
	counts := make(map[int]int)
	for _, v := range history[start:] {
		counts[v]++
	}
	return counts
}
