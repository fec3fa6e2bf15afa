package ripple

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/clockz"
)

// Map returns a stream of fn applied to every value of s.
func Map[T, U any](s Stream[T], fn func(T) U) Stream[U] {
	return StreamFunc[U](func(emit func(U)) *Subscription {
		return s.Subscribe(func(v T) {
			emit(fn(v))
		})
	})
}

// Filter returns a stream of the values of s for which keep returns true.
func Filter[T any](s Stream[T], keep func(T) bool) Stream[T] {
	return StreamFunc[T](func(emit func(T)) *Subscription {
		return s.Subscribe(func(v T) {
			if keep(v) {
				emit(v)
			}
		})
	})
}

// DistinctUntilChanged suppresses values equal to the previously emitted
// value under eq. The first value is always emitted.
func DistinctUntilChanged[T any](s Stream[T], eq func(a, b T) bool) Stream[T] {
	return StreamFunc[T](func(emit func(T)) *Subscription {
		var (
			mu   sync.Mutex
			last T
			has  bool
		)
		return s.Subscribe(func(v T) {
			mu.Lock()
			if has && eq(last, v) {
				mu.Unlock()
				return
			}
			last, has = v, true
			mu.Unlock()
			emit(v)
		})
	})
}

// Distinct is DistinctUntilChanged using ==.
func Distinct[T comparable](s Stream[T]) Stream[T] {
	return DistinctUntilChanged(s, func(a, b T) bool { return a == b })
}

// combined tracks which inputs of a combineLatest have emitted. Snapshots
// are queued on out under mu, so they are delivered in the order the inputs
// changed and never concurrently.
type combined struct {
	mu   sync.Mutex
	seen uint
	want uint
	out  serial

	stopped atomic.Bool
}

func newCombined(n int) *combined {
	return &combined{want: 1<<n - 1}
}

// mark records input i and reports whether every input has emitted.
// Caller holds mu.
func (c *combined) mark(i int) bool {
	c.seen |= 1 << i
	return c.seen == c.want
}

// publish queues emit if ready and releases mu, then delivers if no other
// call is already delivering. Caller holds mu.
func (c *combined) publish(ready bool, emit func()) {
	drain := ready && c.out.enqueue(func() {
		if !c.stopped.Load() {
			emit()
		}
	})
	c.mu.Unlock()
	if drain {
		c.out.drain()
	}
}

// bind ties the input subscriptions to the returned Subscription; queued
// snapshots are dropped once it is cancelled.
func (c *combined) bind(subs ...*Subscription) *Subscription {
	up := joinSubscriptions(subs...)
	return newSubscription(func() {
		c.stopped.Store(true)
		up.Cancel()
	})
}

// CombineLatest2 emits fn of the latest values of a and b once both have
// emitted, and again on every later emission of either.
func CombineLatest2[A, B, R any](a Stream[A], b Stream[B], fn func(A, B) R) Stream[R] {
	return StreamFunc[R](func(emit func(R)) *Subscription {
		c := newCombined(2)
		var (
			va A
			vb B
		)
		push := func(i int, store func()) {
			c.mu.Lock()
			store()
			ra, rb := va, vb
			c.publish(c.mark(i), func() { emit(fn(ra, rb)) })
		}
		return c.bind(
			a.Subscribe(func(v A) { push(0, func() { va = v }) }),
			b.Subscribe(func(v B) { push(1, func() { vb = v }) }),
		)
	})
}

// CombineLatest3 is CombineLatest2 over three inputs.
func CombineLatest3[A, B, C, R any](a Stream[A], b Stream[B], c Stream[C], fn func(A, B, C) R) Stream[R] {
	return StreamFunc[R](func(emit func(R)) *Subscription {
		st := newCombined(3)
		var (
			va A
			vb B
			vc C
		)
		push := func(i int, store func()) {
			st.mu.Lock()
			store()
			ra, rb, rc := va, vb, vc
			st.publish(st.mark(i), func() { emit(fn(ra, rb, rc)) })
		}
		return st.bind(
			a.Subscribe(func(v A) { push(0, func() { va = v }) }),
			b.Subscribe(func(v B) { push(1, func() { vb = v }) }),
			c.Subscribe(func(v C) { push(2, func() { vc = v }) }),
		)
	})
}

// CombineLatest4 is CombineLatest2 over four inputs.
func CombineLatest4[A, B, C, D, R any](a Stream[A], b Stream[B], c Stream[C], d Stream[D], fn func(A, B, C, D) R) Stream[R] {
	return StreamFunc[R](func(emit func(R)) *Subscription {
		st := newCombined(4)
		var (
			va A
			vb B
			vc C
			vd D
		)
		push := func(i int, store func()) {
			st.mu.Lock()
			store()
			ra, rb, rc, rd := va, vb, vc, vd
			st.publish(st.mark(i), func() { emit(fn(ra, rb, rc, rd)) })
		}
		return st.bind(
			a.Subscribe(func(v A) { push(0, func() { va = v }) }),
			b.Subscribe(func(v B) { push(1, func() { vb = v }) }),
			c.Subscribe(func(v C) { push(2, func() { vc = v }) }),
			d.Subscribe(func(v D) { push(3, func() { vd = v }) }),
		)
	})
}

// Debounce emits a value of s only after d has elapsed without a newer
// value. Superseded values are dropped. Expiry is delivered through
// sched.Dispatch. A non-positive d passes values through synchronously.
func Debounce[T any](s Stream[T], d time.Duration, sched Scheduler) Stream[T] {
	if d <= 0 {
		return s
	}
	return StreamFunc[T](func(emit func(T)) *Subscription {
		deb := &debouncer[T]{window: d, sched: sched, emit: emit}
		up := s.Subscribe(deb.push)
		return newSubscription(func() {
			up.Cancel()
			deb.stop()
		})
	})
}

// debouncer holds at most one pending timer. Each push disarms the
// previous timer before arming a new one.
type debouncer[T any] struct {
	window time.Duration
	sched  Scheduler
	emit   func(T)

	mu      sync.Mutex
	gen     uint64
	timer   clockz.Timer
	cancel  chan struct{}
	stopped bool
}

func (d *debouncer[T]) push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.disarm()
	d.gen++
	gen := d.gen
	timer := d.sched.Clock().NewTimer(d.window)
	cancel := make(chan struct{})
	d.timer, d.cancel = timer, cancel

	go func() {
		select {
		case <-timer.C():
			d.sched.Dispatch(func() { d.fire(gen, v) })
		case <-cancel:
		}
	}()
}

func (d *debouncer[T]) fire(gen uint64, v T) {
	d.mu.Lock()
	current := !d.stopped && gen == d.gen
	if current {
		d.timer, d.cancel = nil, nil
	}
	d.mu.Unlock()

	if current {
		d.emit(v)
	}
}

// disarm stops the pending timer, if any. Caller holds mu.
func (d *debouncer[T]) disarm() {
	if d.timer == nil {
		return
	}
	d.timer.Stop()
	close(d.cancel)
	d.timer, d.cancel = nil, nil
}

func (d *debouncer[T]) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.disarm()
}
