package ripple

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// DefaultDebounce is the default quiet period before a value is checked.
const DefaultDebounce = 500 * time.Millisecond

// AsyncValidator debounces a source stream, drops repeats of the last
// checked value, and runs an asynchronous availability check on each new
// value. Only the result of the most recent check is published: a check
// superseded while in flight is cancelled and its result discarded.
type AsyncValidator[T comparable] struct {
	source   Stream[T]
	pipeline pipz.Chainable[*Request[T]]
	debounce time.Duration
	timeout  time.Duration
	sched    Scheduler
	metrics  MetricsProvider
	onStop   func(State)
	failures *failureRing

	results  *Subject[Availability]
	checking *Signal[bool]

	state      atomic.Int32
	generation atomic.Uint64
	last       atomic.Int32
	lastError  atomic.Pointer[error]

	mu         sync.Mutex
	started    bool
	stopped    bool
	ctx        context.Context
	sub        *Subscription
	inflight   context.CancelFunc
	pending    bool
	checked    T
	hasChecked bool
	applied    T
	hasApplied bool
	done       chan struct{}
}

// NewAsyncValidator creates a validator that checks values of source with
// checker. Pipeline options (With*) wrap the checker. Instance
// configuration uses chainable methods before calling Start().
//
// Example:
//
//	v := ripple.NewAsyncValidator[string](
//	    username,
//	    ripple.CheckerFunc[string](lookup),
//	    ripple.WithCircuitBreaker[string](5, 30*time.Second),
//	).Debounce(300 * time.Millisecond).Timeout(2 * time.Second)
func NewAsyncValidator[T comparable](source Stream[T], checker Checker[T], opts ...Option[T]) *AsyncValidator[T] {
	v := &AsyncValidator[T]{
		source:   source,
		pipeline: buildPipeline(checkTerminal(checker), opts),
		debounce: DefaultDebounce,
		sched:    NewImmediate(clockz.RealClock),
		results:  NewSubject[Availability](),
		checking: NewSignal(false),
		done:     make(chan struct{}),
	}
	v.state.Store(int32(StateIdle))
	v.last.Store(int32(AvailabilityUnknown))
	return v
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Debounce sets the quiet period before a value is checked.
// Default: 500ms. Must be called before Start().
func (v *AsyncValidator[T]) Debounce(d time.Duration) *AsyncValidator[T] {
	v.debounce = d
	return v
}

// Scheduler sets the scheduler used for timers and for delivering check
// results. Default: Immediate on the real clock. Must be called before Start().
func (v *AsyncValidator[T]) Scheduler(s Scheduler) *AsyncValidator[T] {
	v.sched = s
	return v
}

// Clock runs the validator on an Immediate scheduler driven by clock.
// Use this with clockz.FakeClock for deterministic tests.
// Must be called before Start().
func (v *AsyncValidator[T]) Clock(clock clockz.Clock) *AsyncValidator[T] {
	v.sched = NewImmediate(clock)
	return v
}

// Timeout bounds each check. A check still running after d yields
// AvailabilityUnknown. Default: no timeout. Must be called before Start().
func (v *AsyncValidator[T]) Timeout(d time.Duration) *AsyncValidator[T] {
	v.timeout = d
	return v
}

// Metrics sets a metrics provider for observability integration.
// Must be called before Start().
func (v *AsyncValidator[T]) Metrics(provider MetricsProvider) *AsyncValidator[T] {
	v.metrics = provider
	return v
}

// OnStop sets a callback invoked once the validator stops, with the state
// it was in. Must be called before Start().
func (v *AsyncValidator[T]) OnStop(fn func(State)) *AsyncValidator[T] {
	v.onStop = fn
	return v
}

// ErrorHistorySize sets the number of recent check failures to retain.
// Use 0 (default) to only retain the most recent error via LastError().
// Must be called before Start().
func (v *AsyncValidator[T]) ErrorHistorySize(n int) *AsyncValidator[T] {
	v.failures = newFailureRing(n)
	return v
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// State returns the current state of the validator.
func (v *AsyncValidator[T]) State() State {
	return State(v.state.Load())
}

// Results is a passthrough stream of applied check results. Subscribers
// receive only results applied after they subscribe.
func (v *AsyncValidator[T]) Results() Stream[Availability] {
	return v.results
}

// Checking reports whether a check is in flight. It becomes true before the
// checker is invoked and false when the current result is applied.
func (v *AsyncValidator[T]) Checking() Stream[bool] {
	return v.checking
}

// Last returns the most recently applied result, or AvailabilityUnknown.
func (v *AsyncValidator[T]) Last() Availability {
	return Availability(v.last.Load())
}

// ResultFor returns the last applied result if it was produced for value,
// and AvailabilityUnknown otherwise.
func (v *AsyncValidator[T]) ResultFor(value T) Availability {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.hasApplied || v.applied != value {
		return AvailabilityUnknown
	}
	return v.Last()
}

// Generation returns the number of checks started so far.
func (v *AsyncValidator[T]) Generation() uint64 {
	return v.generation.Load()
}

// LastError returns the error of the last applied check, or nil.
func (v *AsyncValidator[T]) LastError() error {
	ptr := v.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// Failures returns recent check failures, oldest first.
// Returns nil if error history is not enabled (see ErrorHistorySize).
func (v *AsyncValidator[T]) Failures() []Failure {
	return v.failures.all()
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Start subscribes to the source. The source's current value, if it
// replays one, is debounced like any other. The validator stops when ctx
// is cancelled or Stop is called.
//
// Start can only be called once. Subsequent calls return ErrAlreadyStarted.
func (v *AsyncValidator[T]) Start(ctx context.Context) error {
	v.mu.Lock()
	if v.started {
		v.mu.Unlock()
		return ErrAlreadyStarted
	}
	v.started = true
	v.ctx = ctx
	v.mu.Unlock()

	capitan.Emit(ctx, ValidatorStarted,
		KeyDebounce.Field(v.debounce),
	)

	tap := v.source.Subscribe(v.arm)
	settled := Debounce(v.source, v.debounce, v.sched).Subscribe(v.settle)
	sub := joinSubscriptions(settled, tap)

	v.mu.Lock()
	if v.stopped {
		v.mu.Unlock()
		sub.Cancel()
		return nil
	}
	v.sub = sub
	v.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			v.Stop()
		case <-v.done:
		}
	}()

	return nil
}

// Stop unsubscribes from the source, cancels the pending timer and any
// in-flight check. Results resolving afterwards are discarded.
// Safe to call more than once.
func (v *AsyncValidator[T]) Stop() {
	v.mu.Lock()
	if !v.started || v.stopped {
		v.mu.Unlock()
		return
	}
	v.stopped = true
	sub, inflight := v.sub, v.inflight
	v.sub, v.inflight = nil, nil
	final := v.State()
	v.mu.Unlock()

	v.generation.Add(1)
	sub.Cancel()
	if inflight != nil {
		inflight()
	}
	close(v.done)

	v.transition(StateStopped)
	capitan.Emit(v.ctx, ValidatorStopped,
		KeyState.Field(final.String()),
	)
	if v.onStop != nil {
		v.onStop(final)
	}
}

// arm observes raw source values: the quiet period has (re)started.
func (v *AsyncValidator[T]) arm(_ T) {
	v.mu.Lock()
	if v.stopped {
		v.mu.Unlock()
		return
	}
	v.pending = true
	v.mu.Unlock()

	v.transition(StateDebouncing)
}

// settle receives values that survived the quiet period.
func (v *AsyncValidator[T]) settle(value T) {
	v.mu.Lock()
	if v.stopped {
		v.mu.Unlock()
		return
	}
	v.pending = false

	if v.hasChecked && v.checked == value {
		next := StateIdle
		if v.inflight != nil {
			next = StateChecking
		}
		v.mu.Unlock()

		v.transition(next)
		capitan.Emit(v.ctx, ValueDropped)
		if v.metrics != nil {
			v.metrics.OnValueDropped()
		}
		return
	}

	v.checked, v.hasChecked = value, true
	gen := v.generation.Add(1)
	if v.inflight != nil {
		v.inflight()
	}
	ctx, cancel := context.WithCancel(v.ctx)
	if v.timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = v.sched.Clock().WithTimeout(ctx, v.timeout)
		parent := cancel
		cancel = func() {
			cancelTimeout()
			parent()
		}
	}
	v.inflight = cancel
	v.mu.Unlock()

	req := &Request[T]{
		ID:         uuid.NewString(),
		Value:      value,
		Generation: gen,
	}

	v.checking.Set(true)
	v.transition(StateChecking)
	capitan.Emit(v.ctx, CheckStarted,
		KeyCheckID.Field(req.ID),
		KeyGeneration.Field(int(gen)), //nolint:gosec // generations stay far below MaxInt
	)
	if v.metrics != nil {
		v.metrics.OnCheckStarted()
	}

	go v.run(ctx, cancel, req)
}

// outcome is what a pipeline run produced.
type outcome[T any] struct {
	req *Request[T]
	err error
}

// run executes the pipeline off the logical thread and dispatches the
// result back. A check that outlives its context resolves as an error even
// if the checker ignores cancellation.
func (v *AsyncValidator[T]) run(ctx context.Context, cancel context.CancelFunc, req *Request[T]) {
	defer cancel()
	clock := v.sched.Clock()
	start := clock.Now()

	done := make(chan outcome[T], 1)
	go func() {
		out, err := v.pipeline.Process(ctx, req)
		done <- outcome[T]{req: out, err: err}
	}()

	var res outcome[T]
	select {
	case res = <-done:
	case <-ctx.Done():
		res = outcome[T]{req: req, err: ctx.Err()}
	}
	elapsed := clock.Since(start)

	available := res.err == nil && res.req != nil && res.req.Available
	result := availabilityOf(available, res.err)
	v.sched.Dispatch(func() {
		v.complete(req, result, res.err, elapsed)
	})
}

// complete applies a check result if its generation is still current.
func (v *AsyncValidator[T]) complete(req *Request[T], result Availability, err error, elapsed time.Duration) {
	v.mu.Lock()
	if v.stopped || req.Generation != v.generation.Load() {
		v.mu.Unlock()
		capitan.Emit(v.ctx, CheckDiscarded,
			KeyCheckID.Field(req.ID),
			KeyGeneration.Field(int(req.Generation)), //nolint:gosec // generations stay far below MaxInt
		)
		if v.metrics != nil {
			v.metrics.OnCheckDiscarded()
		}
		return
	}
	v.inflight = nil
	v.applied, v.hasApplied = req.Value, true
	next := StateIdle
	if v.pending {
		next = StateDebouncing
	}
	v.mu.Unlock()

	v.last.Store(int32(result))
	if err != nil {
		v.setError(req.ID, err)
		capitan.Emit(v.ctx, CheckFailed,
			KeyCheckID.Field(req.ID),
			KeyError.Field(err.Error()),
		)
	} else {
		v.lastError.Store(nil)
		v.failures.clear()
	}
	capitan.Emit(v.ctx, CheckCompleted,
		KeyCheckID.Field(req.ID),
		KeyAvailability.Field(result.String()),
		KeyDuration.Field(elapsed),
	)
	if v.metrics != nil {
		v.metrics.OnCheckCompleted(result, elapsed)
	}

	v.checking.Set(false)
	v.results.Send(result)
	v.transition(next)
}

// transition updates the state and emits a state change event if changed.
func (v *AsyncValidator[T]) transition(next State) {
	prev := State(v.state.Swap(int32(next)))
	if prev == next {
		return
	}
	capitan.Emit(v.ctx, ValidatorStateChanged,
		KeyOldState.Field(prev.String()),
		KeyNewState.Field(next.String()),
	)
	if v.metrics != nil {
		v.metrics.OnStateChange(prev, next)
	}
}

// setError stores an error atomically and adds it to the failure history.
func (v *AsyncValidator[T]) setError(checkID string, err error) {
	e := err
	v.lastError.Store(&e)
	v.failures.push(Failure{
		CheckID: checkID,
		Err:     err,
		At:      v.sched.Clock().Now(),
	})
}
