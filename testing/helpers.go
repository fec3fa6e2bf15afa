// Package testing provides test utilities and helpers for ripple streams,
// validators and forms.
package testing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/ripple"
)

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return condition()
}

// WaitForState waits until the validator reaches the expected state or timeout occurs.
func WaitForState[T comparable](t *testing.T, v *ripple.AsyncValidator[T], expected ripple.State, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return v.State() == expected
	})
}

// RequireState fails the test immediately if the validator is not in the expected state.
func RequireState[T comparable](t *testing.T, v *ripple.AsyncValidator[T], expected ripple.State) {
	t.Helper()
	if got := v.State(); got != expected {
		t.Fatalf("expected state %s, got %s", expected, got)
	}
}

// Advance moves a fake clock forward and waits for its timers to be delivered.
func Advance(clock *clockz.FakeClock, d time.Duration) {
	clock.Advance(d)
	clock.BlockUntilReady()
}

// Flush waits until everything dispatched to s so far has run.
func Flush(t *testing.T, s ripple.Scheduler, timeout time.Duration) bool {
	t.Helper()
	done := make(chan struct{})
	s.Dispatch(func() { close(done) })
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Recorder captures every value a stream emits.
type Recorder[T any] struct {
	mu     sync.Mutex
	values []T
	sub    *ripple.Subscription
}

// Record subscribes to s for the rest of the test.
func Record[T any](t *testing.T, s ripple.Stream[T]) *Recorder[T] {
	t.Helper()
	r := &Recorder[T]{}
	r.sub = s.Subscribe(func(v T) {
		r.mu.Lock()
		r.values = append(r.values, v)
		r.mu.Unlock()
	})
	t.Cleanup(r.sub.Cancel)
	return r
}

// Values returns a copy of the recorded values.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.values))
	copy(out, r.values)
	return out
}

// Len returns the number of recorded values.
func (r *Recorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Last returns the most recent value and whether one exists.
func (r *Recorder[T]) Last() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		var zero T
		return zero, false
	}
	return r.values[len(r.values)-1], true
}

// Reset discards recorded values.
func (r *Recorder[T]) Reset() {
	r.mu.Lock()
	r.values = nil
	r.mu.Unlock()
}

// Cancel stops recording.
func (r *Recorder[T]) Cancel() {
	r.sub.Cancel()
}

// WaitForLen waits until at least n values were recorded.
func (r *Recorder[T]) WaitForLen(t *testing.T, n int, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return r.Len() >= n
	})
}

// StaticChecker answers from a fixed table and records every call.
// Values missing from the table are available unless listed in Fail.
type StaticChecker struct {
	// Taken lists unavailable values.
	Taken map[string]bool

	// Fail maps values to the error returned for them.
	Fail map[string]error

	mu    sync.Mutex
	calls []string
}

// NewStaticChecker creates a StaticChecker where taken values are unavailable.
func NewStaticChecker(taken ...string) *StaticChecker {
	c := &StaticChecker{Taken: map[string]bool{}, Fail: map[string]error{}}
	for _, name := range taken {
		c.Taken[name] = true
	}
	return c
}

// Check implements ripple.Checker.
func (c *StaticChecker) Check(_ context.Context, value string) (bool, error) {
	c.mu.Lock()
	c.calls = append(c.calls, value)
	c.mu.Unlock()

	if err, ok := c.Fail[value]; ok {
		return false, err
	}
	return !c.Taken[value], nil
}

// Calls returns the values checked so far, in order.
func (c *StaticChecker) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.calls))
	copy(out, c.calls)
	return out
}

// GatedChecker blocks each check until the test releases it, so tests can
// control the order in which concurrent checks resolve. Cancellation of
// the check's context is ignored, like a backend that does not honour it.
type GatedChecker struct {
	mu      sync.Mutex
	gates   map[string]chan gateResult
	started chan string
}

type gateResult struct {
	available bool
	err       error
}

// NewGatedChecker creates a GatedChecker.
func NewGatedChecker() *GatedChecker {
	return &GatedChecker{
		gates:   map[string]chan gateResult{},
		started: make(chan string, 64),
	}
}

func (c *GatedChecker) gate(value string) chan gateResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.gates[value]
	if !ok {
		g = make(chan gateResult, 1)
		c.gates[value] = g
	}
	return g
}

// Check implements ripple.Checker.
func (c *GatedChecker) Check(_ context.Context, value string) (bool, error) {
	g := c.gate(value)
	c.started <- value
	res := <-g
	return res.available, res.err
}

// Release resolves the pending or next check of value.
func (c *GatedChecker) Release(value string, available bool, err error) {
	c.gate(value) <- gateResult{available: available, err: err}
}

// WaitStarted waits for the next check to start and returns its value.
func (c *GatedChecker) WaitStarted(t *testing.T, timeout time.Duration) string {
	t.Helper()
	select {
	case v := <-c.started:
		return v
	case <-time.After(timeout):
		t.Fatal("timeout waiting for check to start")
		return ""
	}
}

var (
	_ ripple.Checker[string] = (*StaticChecker)(nil)
	_ ripple.Checker[string] = (*GatedChecker)(nil)
)
