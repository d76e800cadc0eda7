package gesture

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/miraines/macroforge/internal/key"
	"github.com/miraines/macroforge/internal/logging"
)

// finalizeInterval is the cadence of the periodic finalization pass that
// resolves single/double/triple gestures once their elongating window has
// elapsed with no key currently held.
const finalizeInterval = 20 * time.Millisecond

// queueCapacity bounds the ingest queue. Once full, new events are
// dropped (not the oldest) so that a backlog never delays events already
// queued.
const queueCapacity = 128

type inputEvent struct {
	k    key.InputKey
	down bool
	at   time.Time
}

// Listener receives resolved gesture events for a single input key.
type Listener func(Event)

// Orchestrator owns one Machine per input key, feeds all of them from a
// single bounded FIFO queue drained by one worker goroutine, and drives
// their periodic finalization. All classification happens on that one
// goroutine, so no Machine ever needs its own lock.
type Orchestrator struct {
	logger *logging.Logger

	mu       sync.Mutex
	machines map[key.InputKey]*Machine

	listenersMu sync.RWMutex
	central     Listener
	listeners   map[key.InputKey][]Listener

	queue  chan inputEvent
	closed atomic.Bool

	cancel context.CancelFunc
	done   chan struct{}
}

// New builds an Orchestrator. Call Start to begin processing.
func New(logger *logging.Logger) *Orchestrator {
	return &Orchestrator{
		logger:    logger,
		machines:  make(map[key.InputKey]*Machine),
		listeners: make(map[key.InputKey][]Listener),
		queue:     make(chan inputEvent, queueCapacity),
		done:      make(chan struct{}),
	}
}

// Configure installs or resets the timing configuration for a key,
// creating its Machine on first use.
func (o *Orchestrator) Configure(k key.InputKey, cfg TimingConfig) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if m, ok := o.machines[k]; ok {
		m.Reconfigure(cfg)
		return
	}
	o.machines[k] = NewMachine(k, cfg)
}

// OnGesture registers a listener for a specific key's resolved gestures.
// If central is set (via OnAny), it always runs first.
func (o *Orchestrator) OnGesture(k key.InputKey, l Listener) {
	o.listenersMu.Lock()
	defer o.listenersMu.Unlock()
	o.listeners[k] = append(o.listeners[k], l)
}

// OffGesture clears all listeners registered for a key.
func (o *Orchestrator) OffGesture(k key.InputKey) {
	o.listenersMu.Lock()
	defer o.listenersMu.Unlock()
	delete(o.listeners, k)
}

// OnAny installs the mandatory central callback invoked before any
// per-key listener for every resolved gesture, regardless of key.
func (o *Orchestrator) OnAny(l Listener) {
	o.listenersMu.Lock()
	defer o.listenersMu.Unlock()
	o.central = l
}

// Start begins draining the ingest queue on a dedicated goroutine and
// ticking the periodic finalization pass.
func (o *Orchestrator) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	go func() {
		defer close(o.done)
		ticker := time.NewTicker(finalizeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-o.queue:
				if !ok {
					return
				}
				o.process(ev)
			case now := <-ticker.C:
				o.finalizeAll(now)
			}
		}
	}()
}

// HandleKeyDown enqueues a key-down event, dropping it if the queue is
// full.
func (o *Orchestrator) HandleKeyDown(k key.InputKey, at time.Time) {
	o.enqueue(inputEvent{k: k, down: true, at: at})
}

// HandleKeyUp enqueues a key-up event, dropping it if the queue is full.
func (o *Orchestrator) HandleKeyUp(k key.InputKey, at time.Time) {
	o.enqueue(inputEvent{k: k, down: false, at: at})
}

// HandleMouseDown and HandleMouseUp route mouse-button gestures through
// the same classification path as keyboard keys: MIDDLE_CLICK,
// X1_CLICK, and X2_CLICK are ordinary input keys.
func (o *Orchestrator) HandleMouseDown(k key.InputKey, at time.Time) {
	o.HandleKeyDown(k, at)
}

func (o *Orchestrator) HandleMouseUp(k key.InputKey, at time.Time) {
	o.HandleKeyUp(k, at)
}

func (o *Orchestrator) enqueue(ev inputEvent) {
	if o.closed.Load() {
		return
	}
	select {
	case o.queue <- ev:
	default:
		if o.logger != nil {
			o.logger.Warn("gesture", "ingest queue full, dropping event for %s", ev.k)
		}
	}
}

func (o *Orchestrator) process(ev inputEvent) {
	o.mu.Lock()
	m, ok := o.machines[ev.k]
	o.mu.Unlock()
	if !ok {
		return
	}

	var res Resolution
	var fired bool
	if ev.down {
		res, fired = m.HandleKeyDown(ev.at)
	} else {
		res, fired = m.HandleKeyUp(ev.at)
	}
	if fired {
		o.emit(ev.k, res, ev.at)
	}
}

func (o *Orchestrator) finalizeAll(now time.Time) {
	o.mu.Lock()
	snapshot := make([]*Machine, 0, len(o.machines))
	for _, m := range o.machines {
		snapshot = append(snapshot, m)
	}
	o.mu.Unlock()

	for _, m := range snapshot {
		if res, ok := m.CheckFinalize(now); ok {
			o.emit(m.Key(), res, now)
		}
	}
}

func (o *Orchestrator) emit(k key.InputKey, res Resolution, at time.Time) {
	hold := res.HoldMs
	ev := NewEvent(k, res.Gesture, at, &hold)

	o.listenersMu.RLock()
	central := o.central
	listeners := append([]Listener(nil), o.listeners[k]...)
	o.listenersMu.RUnlock()

	o.dispatch(central, ev)
	for _, l := range listeners {
		o.dispatch(l, ev)
	}
}

// dispatch invokes a single listener, recovering from any panic so one
// misbehaving listener can never take down classification for every
// other key.
func (o *Orchestrator) dispatch(l Listener, ev Event) {
	if l == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil && o.logger != nil {
			o.logger.ErrorC(ev.ID, "gesture", "listener panic for %s: %v", ev.InputKey, r)
		}
	}()
	l(ev)
}

// Destroy stops the worker goroutine, resets every tracked Machine to
// its idle state, and clears all registered subscribers. Safe to call
// more than once.
func (o *Orchestrator) Destroy() {
	if o.closed.Swap(true) {
		return
	}
	if o.cancel != nil {
		o.cancel()
	}
	<-o.done

	o.mu.Lock()
	for _, m := range o.machines {
		m.Reset()
	}
	o.mu.Unlock()

	o.listenersMu.Lock()
	o.central = nil
	o.listeners = make(map[key.InputKey][]Listener)
	o.listenersMu.Unlock()
}
