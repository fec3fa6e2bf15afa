package ripple

import (
	"context"
	"errors"
	"sync"
)

// ChannelWatcher is an in-memory Watcher fed with Push. Useful for tests
// and for sources that already produce documents in process.
type ChannelWatcher struct {
	in chan []byte

	mu      sync.Mutex
	watched bool
}

// DefaultChannelWatcherBuffer is the number of documents a ChannelWatcher
// holds before Push blocks.
const DefaultChannelWatcherBuffer = 16

// NewChannelWatcher creates a ChannelWatcher. A non-nil initial document is
// queued so Watch emits it first.
func NewChannelWatcher(initial []byte) *ChannelWatcher {
	w := &ChannelWatcher{in: make(chan []byte, DefaultChannelWatcherBuffer)}
	if initial != nil {
		w.in <- initial
	}
	return w
}

// Push queues a document for delivery.
func (w *ChannelWatcher) Push(data []byte) {
	w.in <- data
}

// Watch returns a channel that emits pushed documents until ctx is done.
// A ChannelWatcher can be watched once.
func (w *ChannelWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	w.mu.Lock()
	if w.watched {
		w.mu.Unlock()
		return nil, errors.New("channel watcher already watched")
	}
	w.watched = true
	w.mu.Unlock()

	out := make(chan []byte)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case data := <-w.in:
				select {
				case out <- data:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

var _ Watcher = (*ChannelWatcher)(nil)
