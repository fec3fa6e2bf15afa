package ripple

import (
	"sync"
	"sync/atomic"
)

// Stream is a source of values that can be observed.
// Subscribe registers fn and returns a Subscription that stops delivery
// when cancelled. Delivery is synchronous on the goroutine that produced
// the value.
type Stream[T any] interface {
	Subscribe(fn func(T)) *Subscription
}

// StreamFunc adapts a subscribe function to the Stream interface.
// Operators return StreamFuncs: every call to Subscribe builds a fresh
// chain of upstream subscriptions owned by the returned Subscription.
type StreamFunc[T any] func(fn func(T)) *Subscription

// Subscribe calls f(fn).
func (f StreamFunc[T]) Subscribe(fn func(T)) *Subscription {
	return f(fn)
}

// Subscription ties a subscriber to a stream. Cancel is idempotent.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Cancel removes the subscriber and releases any resources held on its
// behalf. Calling Cancel more than once is a no-op.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// joinSubscriptions returns a Subscription that cancels each of subs in order.
func joinSubscriptions(subs ...*Subscription) *Subscription {
	return newSubscription(func() {
		for _, sub := range subs {
			sub.Cancel()
		}
	})
}

// subscriber is a registered callback. active is cleared on cancel so a
// notification pass already holding a snapshot skips it.
type subscriber[T any] struct {
	id     uint64
	fn     func(prev, curr T)
	active atomic.Bool
}

// broadcaster keeps an ordered subscriber list and notifies a snapshot of it.
type broadcaster[T any] struct {
	mu     sync.Mutex
	subs   []*subscriber[T]
	nextID uint64
}

func (b *broadcaster[T]) add(fn func(prev, curr T)) *subscriber[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &subscriber[T]{id: b.nextID, fn: fn}
	sub.active.Store(true)
	b.subs = append(b.subs, sub)
	return sub
}

func (b *broadcaster[T]) remove(sub *subscriber[T]) {
	sub.active.Store(false)

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, existing := range b.subs {
		if existing.id == sub.id {
			// Preserve order: subscription order drives evaluation order downstream.
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

func (b *broadcaster[T]) notify(prev, curr T) {
	b.mu.Lock()
	subs := make([]*subscriber[T], len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, sub := range subs {
		if sub.active.Load() {
			sub.fn(prev, curr)
		}
	}
}

func (b *broadcaster[T]) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Signal is a mutable, observable single-value holder.
//
// Every Set notifies subscribers, even when the new value equals the old
// one. Compose with Distinct or DistinctUntilChanged to suppress repeats.
// New subscribers immediately receive the current value.
type Signal[T any] struct {
	mu    sync.RWMutex
	value T
	subs  broadcaster[T]
}

// NewSignal creates a Signal holding initial.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores value and notifies every current subscriber with the previous
// and new values. Subscribers may call Set reentrantly.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	prev := s.value
	s.value = value
	s.mu.Unlock()

	s.subs.notify(prev, value)
}

// Update replaces the value with fn applied to the current one.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	prev := s.value
	next := fn(prev)
	s.value = next
	s.mu.Unlock()

	s.subs.notify(prev, next)
}

// Watch registers fn for (previous, current) pairs. fn is invoked once
// immediately with the current value as both arguments.
func (s *Signal[T]) Watch(fn func(prev, curr T)) *Subscription {
	sub := s.subs.add(fn)
	curr := s.Get()
	fn(curr, curr)
	return newSubscription(func() { s.subs.remove(sub) })
}

// Subscribe registers fn for new values. fn is invoked once immediately
// with the current value.
func (s *Signal[T]) Subscribe(fn func(T)) *Subscription {
	return s.Watch(func(_, curr T) { fn(curr) })
}

// Subscribers returns the number of registered subscribers.
func (s *Signal[T]) Subscribers() int {
	return s.subs.len()
}

// Subject is a passthrough stream: values sent to it are delivered to the
// current subscribers and not retained. Late subscribers see only values
// sent after they subscribed.
type Subject[T any] struct {
	subs broadcaster[T]
}

// NewSubject creates an empty Subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// Send delivers value to every current subscriber.
func (s *Subject[T]) Send(value T) {
	var zero T
	s.subs.notify(zero, value)
}

// Subscribe registers fn for values sent after this call.
func (s *Subject[T]) Subscribe(fn func(T)) *Subscription {
	sub := s.subs.add(func(_, curr T) { fn(curr) })
	return newSubscription(func() { s.subs.remove(sub) })
}

// Subscribers returns the number of registered subscribers.
func (s *Subject[T]) Subscribers() int {
	return s.subs.len()
}

var (
	_ Stream[int] = (*Signal[int])(nil)
	_ Stream[int] = (*Subject[int])(nil)
	_ Stream[int] = StreamFunc[int](nil)
)
