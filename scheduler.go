package ripple

import (
	"context"
	"sync"

	"github.com/zoobzio/clockz"
)

// Scheduler supplies time and marshals deferred work (timer expiry, check
// completion) back onto the owner's logical thread.
type Scheduler interface {
	// Clock is used for debounce timers and check timeouts.
	Clock() clockz.Clock

	// Dispatch runs fn on the scheduler's logical thread.
	Dispatch(fn func())
}

// Immediate runs dispatched work on the dispatching goroutine, one task at
// a time. Dispatch on an idle Immediate runs fn before returning. While
// another goroutine is running dispatched work, fn is queued and that
// goroutine runs it next, so work from timers, check completions and input
// never interleaves. Work dispatched from within dispatched work runs after
// it, so callbacks may safely feed input back in.
type Immediate struct {
	clock  clockz.Clock
	serial serial
}

// NewImmediate creates an Immediate scheduler. A nil clock uses the real clock.
func NewImmediate(clock clockz.Clock) *Immediate {
	if clock == nil {
		clock = clockz.RealClock
	}
	return &Immediate{clock: clock}
}

// Clock returns the scheduler's clock.
func (s *Immediate) Clock() clockz.Clock { return s.clock }

// Dispatch runs fn, or queues it behind the work currently running.
func (s *Immediate) Dispatch(fn func()) {
	s.serial.run(fn)
}

// serial runs queued work one item at a time. Whoever enqueues onto an idle
// serial drains it; work queued meanwhile, from any goroutine or from within
// running work, runs on the draining goroutine in enqueue order.
type serial struct {
	mu      sync.Mutex
	queue   []func()
	running bool
}

// enqueue adds fn and reports whether the caller must drain.
func (s *serial) enqueue(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, fn)
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *serial) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.running = false
			s.mu.Unlock()
			return
		}
		fn := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()
		fn()
	}
}

func (s *serial) run(fn func()) {
	if s.enqueue(fn) {
		s.drain()
	}
}

// Loop is a single serial event loop. Work dispatched from any goroutine
// runs in order on the goroutine executing Run.
type Loop struct {
	clock clockz.Clock
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// DefaultLoopBuffer is the number of pending tasks a Loop queues before
// Dispatch blocks.
const DefaultLoopBuffer = 256

// NewLoop creates a Loop. A nil clock uses the real clock.
func NewLoop(clock clockz.Clock) *Loop {
	if clock == nil {
		clock = clockz.RealClock
	}
	return &Loop{
		clock: clock,
		queue: make(chan func(), DefaultLoopBuffer),
		done:  make(chan struct{}),
	}
}

// Clock returns the loop's clock.
func (l *Loop) Clock() clockz.Clock { return l.clock }

// Dispatch enqueues fn. Work dispatched after the loop has stopped is dropped.
func (l *Loop) Dispatch(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}
	select {
	case <-l.done:
	case l.queue <- fn:
	}
}

// Run executes dispatched work until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			fn()
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

var (
	_ Scheduler = (*Immediate)(nil)
	_ Scheduler = (*Loop)(nil)
)
