package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"github.com/miraines/macroforge/internal/audio"
	"github.com/miraines/macroforge/internal/key"
	"github.com/miraines/macroforge/internal/logging"
	"github.com/miraines/macroforge/internal/platform"
	"github.com/miraines/macroforge/internal/profile"
	"github.com/miraines/macroforge/internal/timing"
	"github.com/miraines/macroforge/internal/traffic"
)

// errCancelled unwinds runSequence when a binding's running flag is
// cleared mid-sequence. It never reaches a caller: run() maps it to an
// EventCancelled and a nil error.
var errCancelled = errors.New("executor: cancelled")

// Crosser is the subset of traffic.Controller the executor depends on,
// narrowed so tests can substitute a fake without a real profile.
type Crosser interface {
	Request(ctx context.Context, q key.Qualified, supremacy bool) (*traffic.Token, error)
	Release(tok *traffic.Token)
}

// ListenerID identifies a registered ExecutionListener for removal.
type ListenerID int

// runState is the per-binding cooperative cancellation flag checked
// between every step and every echo hit, plus the cancel func for the
// context handed to the traffic controller's Request wait loop — which
// only watches ctx.Done(), not running — so Cancel/CancelAll/Destroy
// can also interrupt a binding blocked waiting for a crossing token.
type runState struct {
	running atomic.Bool
	cancel  context.CancelFunc

	// runID correlates every ExecutionEvent and log line emitted by one
	// run() call, assigned once in claim() rather than per-emit.
	runID uuid.UUID
}

// pendingHold tracks a hold_through_next release owed from an earlier
// step, resolved during a later step's buffer window.
type pendingHold struct {
	key         key.Qualified
	tok         *traffic.Token
	releaseStep profile.Step
}

// Executor runs compiled macro sequences against an OS output sink,
// coordinating with the traffic controller on contended keys and
// emitting ExecutionEvents for every state change.
type Executor struct {
	sink    platform.OutputSink
	oracle  *timing.Oracle
	traffic Crosser
	collab  audio.Collaborator
	logger  *logging.Logger

	sinkMu sync.Mutex

	mu     sync.Mutex
	active map[string]*runState

	listenersMu sync.RWMutex
	listeners   map[ListenerID]ExecutionListener
	nextID      int

	wg        conc.WaitGroup
	destroyed atomic.Bool
}

// New builds an Executor. collab may be audio.NoOp{} when no DJ
// collaborator is configured.
func New(sink platform.OutputSink, oracle *timing.Oracle, crosser Crosser, collab audio.Collaborator, logger *logging.Logger) *Executor {
	return &Executor{
		sink:      sink,
		oracle:    oracle,
		traffic:   crosser,
		collab:    collab,
		logger:    logger,
		active:    make(map[string]*runState),
		listeners: make(map[ListenerID]ExecutionListener),
	}
}

// AddListener registers l to receive every ExecutionEvent until removed.
func (e *Executor) AddListener(l ExecutionListener) ListenerID {
	e.listenersMu.Lock()
	defer e.listenersMu.Unlock()
	e.nextID++
	id := ListenerID(e.nextID)
	e.listeners[id] = l
	return id
}

// RemoveListener unregisters a listener added via AddListener.
func (e *Executor) RemoveListener(id ListenerID) {
	e.listenersMu.Lock()
	defer e.listenersMu.Unlock()
	delete(e.listeners, id)
}

func (e *Executor) emit(ev ExecutionEvent) {
	e.listenersMu.RLock()
	ls := make([]ExecutionListener, 0, len(e.listeners))
	for _, l := range e.listeners {
		ls = append(ls, l)
	}
	e.listenersMu.RUnlock()
	for _, l := range ls {
		e.dispatchEvent(l, ev)
	}
}

func (e *Executor) dispatchEvent(l ExecutionListener, ev ExecutionEvent) {
	defer func() {
		if r := recover(); r != nil && e.logger != nil {
			e.logger.Error("executor", "listener panic for binding %q: %v", ev.BindingName, r)
		}
	}()
	l(ev)
}

// IsBindingExecuting reports whether a binding of this name currently
// has a sequence in flight.
func (e *Executor) IsBindingExecuting(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.active[name]
	return ok && st.running.Load()
}

// ActiveCount returns the number of bindings currently executing.
func (e *Executor) ActiveCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, st := range e.active {
		if st.running.Load() {
			n++
		}
	}
	return n
}

// ActiveBindings lists the names of bindings currently executing.
func (e *Executor) ActiveBindings() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var names []string
	for name, st := range e.active {
		if st.running.Load() {
			names = append(names, name)
		}
	}
	return names
}

// Cancel stops a single named binding's in-flight sequence at its next
// cooperative checkpoint. A no-op if the binding isn't running.
func (e *Executor) Cancel(name string) {
	e.mu.Lock()
	st, ok := e.active[name]
	e.mu.Unlock()
	if ok {
		st.running.Store(false)
		st.cancel()
	}
}

// CancelAll stops every in-flight sequence, used by the kill-switch hotkey.
func (e *Executor) CancelAll() {
	e.mu.Lock()
	states := make([]*runState, 0, len(e.active))
	for _, st := range e.active {
		states = append(states, st)
	}
	e.mu.Unlock()
	for _, st := range states {
		st.running.Store(false)
		st.cancel()
	}
}

// Destroy cancels every in-flight sequence and blocks until they have
// all unwound. Idempotent.
func (e *Executor) Destroy() {
	if e.destroyed.Swap(true) {
		return
	}
	e.CancelAll()
	e.wg.Wait()
}

// ExecuteDetached launches b's sequence on a background goroutine and
// returns immediately. A binding already executing is skipped with a
// warning; re-triggering a running binding is a no-op.
func (e *Executor) ExecuteDetached(b profile.Binding) {
	if e.destroyed.Load() {
		return
	}
	ctx, st, ok := e.claim(context.Background(), b.Name)
	if !ok {
		if e.logger != nil {
			e.logger.Warn("executor", "binding %q is already running, skipping re-trigger", b.Name)
		}
		return
	}

	e.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				if e.logger != nil {
					e.logger.Error("executor", "binding %q panicked: %v", b.Name, r)
				}
				e.emit(ExecutionEvent{ID: st.runID, Type: EventError, BindingName: b.Name, Error: fmt.Sprintf("panic: %v", r), TimestampMs: time.Now().UnixMilli()})
			}
			st.running.Store(false)
			st.cancel()
		}()
		_ = e.run(ctx, b, st)
	})
}

// Execute runs b's sequence synchronously, honoring ctx cancellation in
// addition to Cancel/CancelAll. Returns an error for validation failure
// or an unrecoverable step error; a cooperative cancellation is not an
// error, it simply ends the run early.
func (e *Executor) Execute(ctx context.Context, b profile.Binding) error {
	if e.destroyed.Load() {
		return fmt.Errorf("executor: destroyed")
	}
	runCtx, st, ok := e.claim(ctx, b.Name)
	if !ok {
		return fmt.Errorf("executor: binding %q already running", b.Name)
	}
	defer func() {
		st.running.Store(false)
		st.cancel()
	}()
	return e.run(runCtx, b, st)
}

// claim registers name as running and derives a cancellable context
// from parent so Cancel/CancelAll/Destroy can interrupt this run even
// while it's blocked waiting on the traffic controller, which only
// watches ctx.Done().
func (e *Executor) claim(parent context.Context, name string) (context.Context, *runState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if st, ok := e.active[name]; ok && st.running.Load() {
		return nil, nil, false
	}
	ctx, cancel := context.WithCancel(parent)
	st := &runState{cancel: cancel, runID: uuid.New()}
	st.running.Store(true)
	e.active[name] = st
	return ctx, st, true
}

func (e *Executor) run(ctx context.Context, b profile.Binding, st *runState) error {
	if err := validateBinding(b); err != nil {
		e.emit(ExecutionEvent{ID: st.runID, Type: EventError, BindingName: b.Name, Error: err.Error(), TimestampMs: time.Now().UnixMilli()})
		return err
	}

	e.emit(ExecutionEvent{ID: st.runID, Type: EventStarted, BindingName: b.Name, TimestampMs: time.Now().UnixMilli()})
	if e.logger != nil {
		e.logger.InfoC(st.runID, "executor", "binding %q started", b.Name)
	}

	err := e.runSequence(ctx, b, st)
	switch {
	case err == nil:
		e.emit(ExecutionEvent{ID: st.runID, Type: EventCompleted, BindingName: b.Name, TimestampMs: time.Now().UnixMilli()})
		return nil
	case errors.Is(err, errCancelled):
		e.emit(ExecutionEvent{ID: st.runID, Type: EventCancelled, BindingName: b.Name, TimestampMs: time.Now().UnixMilli()})
		return nil
	default:
		e.emit(ExecutionEvent{ID: st.runID, Type: EventError, BindingName: b.Name, Error: err.Error(), TimestampMs: time.Now().UnixMilli()})
		if e.logger != nil {
			e.logger.ErrorC(st.runID, "executor", "binding %q failed: %v", b.Name, err)
		}
		return err
	}
}

// runSequence walks b.Steps in order, expanding each into its echo hits
// and threading a single owed hold_through_next release across step
// boundaries.
func (e *Executor) runSequence(ctx context.Context, b profile.Binding, st *runState) error {
	var pending *pendingHold

	// resolvePending spends up to budgetMs of the caller's inter-unit
	// wait releasing an owed hold, returning the leftover to sleep.
	// budgetMs < 0 means "no budget cap", used for the very last unit.
	resolvePending := func(budgetMs int) (int, error) {
		if pending == nil {
			if budgetMs < 0 {
				return 0, nil
			}
			return budgetMs, nil
		}
		delay := e.drawReleaseDelay(pending.releaseStep)
		wait := delay
		if budgetMs >= 0 && wait > budgetMs {
			wait = budgetMs
		}
		if err := e.sleep(ctx, st, wait); err != nil {
			return 0, err
		}
		e.releaseHeld(st.runID, pending.key)
		e.traffic.Release(pending.tok)
		pending = nil
		if budgetMs < 0 {
			return 0, nil
		}
		return budgetMs - wait, nil
	}

	steps := b.Steps
	for si, step := range steps {
		hits := step.EchoHitsOrDefault()
		for hit := 0; hit < hits; hit++ {
			if !st.running.Load() {
				return errCancelled
			}

			isLastHitOfStep := hit == hits-1
			isVeryLastUnit := si == len(steps)-1 && isLastHitOfStep
			deferRelease := step.HoldThroughNext && isLastHitOfStep && !isVeryLastUnit

			newPending, err := e.runUnit(ctx, b, step, st, hit > 0, deferRelease)
			if err != nil {
				return err
			}

			stepIdx := si
			ev := ExecutionEvent{ID: st.runID, Type: EventStep, BindingName: b.Name, StepIndex: &stepIdx, TimestampMs: time.Now().UnixMilli()}

			if isVeryLastUnit {
				e.emit(ev)
				if _, err := resolvePending(-1); err != nil {
					return err
				}
				continue
			}

			bufferMs := e.drawBuffer(step)
			delay := bufferMs
			ev.DelayMs = &delay
			e.emit(ev)

			remaining, err := resolvePending(bufferMs)
			if err != nil {
				return err
			}
			if remaining > 0 {
				if err := e.sleep(ctx, st, remaining); err != nil {
					return err
				}
			}

			if newPending != nil {
				pending = newPending
			}
		}
	}

	return nil
}

// runUnit executes a single press of one step (one echo hit), returning
// a pendingHold when deferRelease leaves the primary key down for a
// later step to release.
func (e *Executor) runUnit(ctx context.Context, b profile.Binding, step profile.Step, st *runState, isEcho bool, deferRelease bool) (*pendingHold, error) {
	if step.IsScroll() {
		if err := e.scroll(step.ScrollDirection, step.ScrollMagnitude); err != nil && e.logger != nil {
			e.logger.WarnC(st.runID, "executor", "scroll step failed: %v", err)
		}
		return nil, nil
	}

	outcome, rerr := routeStepName(step, e.collab)
	if rerr != nil && e.logger != nil {
		e.logger.WarnC(st.runID, "executor", "collaborator call for step %q failed: %v", step.Name, rerr)
	}
	if outcome == routeSkipKeypress {
		return nil, nil
	}

	primary, err := key.ParseQualified(step.Key)
	if err != nil {
		return nil, fmt.Errorf("executor: %w", err)
	}

	tok, err := e.traffic.Request(ctx, primary, b.Supremacy)
	if err != nil {
		return nil, err
	}
	if !st.running.Load() {
		e.traffic.Release(tok)
		return nil, errCancelled
	}

	keyDownMs := e.drawKeyDown(step, isEcho)
	tapped := e.pressDown(st.runID, primary)

	if step.DualKey != "" {
		defer e.traffic.Release(tok)
		return nil, e.runDualKey(ctx, step, st, primary, tapped, keyDownMs)
	}

	if deferRelease && !tapped {
		return &pendingHold{key: primary, tok: tok, releaseStep: step}, nil
	}

	if err := e.sleep(ctx, st, keyDownMs); err != nil {
		if !tapped {
			e.releaseHeld(st.runID, primary)
		}
		e.traffic.Release(tok)
		return nil, err
	}
	if !tapped {
		e.releaseHeld(st.runID, primary)
	}
	e.traffic.Release(tok)
	return nil, nil
}

// runDualKey implements offset-overlap timing: press primary, wait
// dual_key_offset, press dual, then release each once its own hold
// duration has elapsed. Only the primary's base takes a crossing
// token; requesting a second one for dual here would deadlock against
// the token runUnit is already holding whenever primary and dual
// share a conundrum partition.
func (e *Executor) runDualKey(ctx context.Context, step profile.Step, st *runState, primary key.Qualified, primaryTapped bool, keyDownMs int) error {
	dual, err := key.ParseQualified(step.DualKey)
	if err != nil {
		if !primaryTapped {
			e.releaseHeld(st.runID, primary)
		}
		return fmt.Errorf("executor: %w", err)
	}

	offset := e.drawDualOffset(step)
	if err := e.sleep(ctx, st, offset); err != nil {
		if !primaryTapped {
			e.releaseHeld(st.runID, primary)
		}
		return err
	}

	dualTapped := e.pressDown(st.runID, dual)

	remainingPrimary := keyDownMs - offset
	if remainingPrimary < 0 {
		remainingPrimary = 0
	}
	if err := e.sleep(ctx, st, remainingPrimary); err != nil {
		if !primaryTapped {
			e.releaseHeld(st.runID, primary)
		}
		if !dualTapped {
			e.releaseHeld(st.runID, dual)
		}
		return err
	}
	if !primaryTapped {
		e.releaseHeld(st.runID, primary)
	}

	dualKeyDownMs := keyDownMs
	if step.DualKeyDownDuration != nil {
		dualKeyDownMs = e.oracle.DrawBounds(timing.Bounds{Min: step.DualKeyDownDuration.Min, Max: step.DualKeyDownDuration.Max})
	}
	remainingDual := dualKeyDownMs - remainingPrimary
	if remainingDual < 0 {
		remainingDual = 0
	}
	if err := e.sleep(ctx, st, remainingDual); err != nil {
		if !dualTapped {
			e.releaseHeld(st.runID, dual)
		}
		return err
	}
	if !dualTapped {
		e.releaseHeld(st.runID, dual)
	}
	return nil
}

// pressDown presses q down, falling back to an atomic tap (treating the
// hold as already elapsed) if the OS sink rejects the toggle. Returns
// true when the fallback tap fired, meaning the caller must not
// attempt a matching release. runID tags any logged fallback with the
// run it belongs to.
func (e *Executor) pressDown(runID uuid.UUID, q key.Qualified) bool {
	if err := e.toggle(q.Base, q.Modifiers, platform.Down); err != nil {
		if e.logger != nil {
			e.logger.WarnC(runID, "executor", "KeyToggle down failed for %s, falling back to tap: %v", q, err)
		}
		if terr := e.tap(q.Base, q.Modifiers); terr != nil && e.logger != nil {
			e.logger.ErrorC(runID, "executor", "tap fallback also failed for %s: %v", q, terr)
		}
		return true
	}
	return false
}

// releaseHeld releases a key pressed via pressDown that did not fall
// back to a tap, itself falling back to a tap if the release toggle fails.
func (e *Executor) releaseHeld(runID uuid.UUID, q key.Qualified) {
	if err := e.toggle(q.Base, q.Modifiers, platform.Up); err != nil {
		if e.logger != nil {
			e.logger.WarnC(runID, "executor", "KeyToggle up failed for %s, falling back to tap: %v", q, err)
		}
		if terr := e.tap(q.Base, q.Modifiers); terr != nil && e.logger != nil {
			e.logger.ErrorC(runID, "executor", "tap fallback also failed releasing %s: %v", q, terr)
		}
	}
}

func (e *Executor) toggle(base key.OutputKey, mods key.Modifier, dir platform.Direction) error {
	e.sinkMu.Lock()
	defer e.sinkMu.Unlock()
	return e.sink.KeyToggle(base, mods, dir)
}

func (e *Executor) tap(base key.OutputKey, mods key.Modifier) error {
	e.sinkMu.Lock()
	defer e.sinkMu.Unlock()
	return e.sink.KeyTap(base, mods)
}

func (e *Executor) scroll(direction string, magnitude int) error {
	e.sinkMu.Lock()
	defer e.sinkMu.Unlock()
	return e.sink.Scroll(direction, magnitude)
}

// drawBuffer draws the inter-unit delay for step: its explicit
// (minDelay, maxDelay) pair if set, otherwise its buffer tier's named
// oracle range.
func (e *Executor) drawBuffer(step profile.Step) int {
	if step.HasExplicitDelay() {
		return e.oracle.DrawBounds(timing.Bounds{Min: step.MinDelay, Max: step.MaxDelay})
	}
	switch step.BufferTier {
	case profile.BufferMedium:
		return e.oracle.Draw(timing.RangeBufferMedium)
	case profile.BufferHigh:
		return e.oracle.Draw(timing.RangeBufferHigh)
	default:
		return e.oracle.Draw(timing.RangeBufferLow)
	}
}

// drawKeyDown draws the hold duration for one key press: the step's
// explicit override if set, otherwise the named keydown range for a
// first press or the echo_hit range for a repeat.
func (e *Executor) drawKeyDown(step profile.Step, isEcho bool) int {
	if step.KeyDownDuration != nil {
		return e.oracle.DrawBounds(timing.Bounds{Min: step.KeyDownDuration.Min, Max: step.KeyDownDuration.Max})
	}
	if isEcho {
		return e.oracle.Draw(timing.RangeEchoHit)
	}
	return e.oracle.Draw(timing.RangeKeyDown)
}

// drawDualOffset returns the step's explicit dual_key_offset, or draws
// from the named range when the step left it at its default.
func (e *Executor) drawDualOffset(step profile.Step) int {
	if step.DualKeyOffset > 0 {
		return step.DualKeyOffset
	}
	return e.oracle.Draw(timing.RangeDualOffset)
}

// drawReleaseDelay draws the hold_through_next release timing: the
// step's explicit override if set, otherwise the named hold_release range.
func (e *Executor) drawReleaseDelay(step profile.Step) int {
	if step.ReleaseDelay != nil {
		return e.oracle.DrawBounds(timing.Bounds{Min: step.ReleaseDelay.Min, Max: step.ReleaseDelay.Max})
	}
	return e.oracle.Draw(timing.RangeHoldRelease)
}

// sleep waits ms milliseconds, polling st.running every 20ms so
// Cancel/CancelAll take effect mid-wait rather than only between units.
func (e *Executor) sleep(ctx context.Context, st *runState, ms int) error {
	if ms <= 0 {
		if !st.running.Load() {
			return errCancelled
		}
		return nil
	}
	const tick = 20 * time.Millisecond
	deadline := time.Now().Add(time.Duration(ms) * time.Millisecond)
	for {
		if !st.running.Load() {
			return errCancelled
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		d := tick
		if remaining < d {
			d = remaining
		}
		select {
		case <-ctx.Done():
			return errCancelled
		case <-time.After(d):
		}
	}
}
