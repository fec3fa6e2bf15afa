package ripple

import "sync"

// Bag collects Subscriptions owned by one screen or controller and releases
// them in a single step. After Dispose, subscriptions added to the bag are
// cancelled immediately.
type Bag struct {
	mu       sync.Mutex
	subs     []*Subscription
	disposed bool
}

// NewBag creates an empty Bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add takes ownership of subs.
func (b *Bag) Add(subs ...*Subscription) {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		for _, sub := range subs {
			sub.Cancel()
		}
		return
	}
	b.subs = append(b.subs, subs...)
	b.mu.Unlock()
}

// Len returns the number of subscriptions held.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Dispose cancels every held subscription in reverse order of addition.
// Safe to call more than once.
func (b *Bag) Dispose() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.disposed = true
	b.mu.Unlock()

	for i := len(subs) - 1; i >= 0; i-- {
		subs[i].Cancel()
	}
}
