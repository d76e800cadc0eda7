package traffic

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/miraines/macroforge/internal/key"
	"github.com/miraines/macroforge/internal/timing"
)

// ConundrumSet reports whether a raw output key requires serialized
// access. profile.Compiled satisfies this via IsConundrum.
type ConundrumSet interface {
	IsConundrum(base key.OutputKey) bool
}

// Token represents a held crossing. A nil Token means no coordination
// was needed (supremacy, or the key isn't a conundrum key) — Release is
// a no-op on a nil Token.
type Token struct {
	raw key.OutputKey
}

type waiter struct {
	ticket uint64
}

// Controller owns the crossing-token map and per-raw-key FIFO wait
// queues.
type Controller struct {
	mu      sync.Mutex
	holders map[key.OutputKey]uint64
	queues  map[key.OutputKey][]waiter

	conundrum ConundrumSet
	oracle    *timing.Oracle

	nextTicket atomic.Uint64
}

// New builds a Controller. conundrum may be swapped out via SetConundrumSet
// on profile reload.
func New(conundrum ConundrumSet, oracle *timing.Oracle) *Controller {
	return &Controller{
		holders:   make(map[key.OutputKey]uint64),
		queues:    make(map[key.OutputKey][]waiter),
		conundrum: conundrum,
		oracle:    oracle,
	}
}

// SetConundrumSet swaps the active conundrum classification, used when a
// profile is recompiled. Keys already holding or waiting for a crossing
// are unaffected until they next release.
func (c *Controller) SetConundrumSet(conundrum ConundrumSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conundrum = conundrum
}

// anyHeld reports whether any raw key currently has a holder. The gate
// is intentionally global, not per-key: a sequence waits while any
// crossing is held, not just crossings on its own raw keys. That is
// what prevents modifier leakage across distinct conundrum keys used
// by concurrent sequences.
func (c *Controller) anyHeld() bool {
	return len(c.holders) > 0
}

// Request blocks (cooperatively, via oracle-timed polling) until the
// caller may press raw. It returns nil immediately if supremacy is set
// or raw is not a conundrum key under the active profile. The returned
// Token must be passed to Release exactly once. Not reentrant: a
// goroutine must Release its current token before requesting another,
// since anyHeld does not exclude the caller's own holder.
func (c *Controller) Request(ctx context.Context, q key.Qualified, supremacy bool) (*Token, error) {
	if supremacy {
		return nil, nil
	}

	raw := q.Raw()

	c.mu.Lock()
	conundrum := c.conundrum != nil && c.conundrum.IsConundrum(raw)
	if !conundrum {
		c.mu.Unlock()
		return nil, nil
	}

	ticket := c.nextTicket.Add(1)
	c.queues[raw] = append(c.queues[raw], waiter{ticket: ticket})
	c.mu.Unlock()

	for {
		c.mu.Lock()
		pending := c.queues[raw]
		isHead := len(pending) > 0 && pending[0].ticket == ticket
		if !c.anyHeld() && isHead {
			c.holders[raw] = ticket
			c.queues[raw] = pending[1:]
			c.mu.Unlock()
			return &Token{raw: raw}, nil
		}
		c.mu.Unlock()

		wait := timing.Bounds{Min: 10, Max: 30}
		delay := c.oracle.DrawBounds(wait)
		select {
		case <-ctx.Done():
			c.dequeue(raw, ticket)
			return nil, ctx.Err()
		case <-time.After(time.Duration(delay) * time.Millisecond):
		}
	}
}

// Release clears the holder of tok's raw key. The queue head was already
// popped when Request granted the token. A nil Token is a no-op.
func (c *Controller) Release(tok *Token) {
	if tok == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.holders, tok.raw)
}

func (c *Controller) dequeue(raw key.OutputKey, ticket uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.queues[raw]
	for i, w := range q {
		if w.ticket == ticket {
			c.queues[raw] = append(q[:i], q[i+1:]...)
			return
		}
	}
}
