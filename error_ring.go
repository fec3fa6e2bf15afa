package ripple

import (
	"sync"
	"time"
)

// Failure records a check that returned an error or timed out.
type Failure struct {
	// CheckID is the Request ID of the failed check.
	CheckID string

	// Err is the error returned by the pipeline.
	Err error

	// At is when the failure was applied, on the validator's clock.
	At time.Time
}

// failureRing is a thread-safe ring buffer of recent check failures.
type failureRing struct {
	mu      sync.RWMutex
	entries []Failure
	size    int
	head    int
	count   int
}

// newFailureRing creates a ring buffer with the given capacity.
// If size is 0, the ring buffer is disabled.
func newFailureRing(size int) *failureRing {
	if size <= 0 {
		return nil
	}
	return &failureRing{
		entries: make([]Failure, size),
		size:    size,
	}
}

// push adds a failure, overwriting the oldest when full.
func (r *failureRing) push(f Failure) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.head] = f
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// clear removes all failures.
func (r *failureRing) clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.entries)
	r.head = 0
	r.count = 0
}

// all returns the failures, oldest first.
func (r *failureRing) all() []Failure {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 {
		return nil
	}

	out := make([]Failure, r.count)
	start := (r.head - r.count + r.size) % r.size
	for i := range r.count {
		out[i] = r.entries[(start+i)%r.size]
	}
	return out
}
