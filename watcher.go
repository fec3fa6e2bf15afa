package ripple

import "context"

// Watcher observes a document source and emits its raw contents on a
// channel, once immediately and again after every change. Registries use
// watchers to hot-reload their data.
type Watcher interface {
	// Watch begins observing the source. The returned channel is closed
	// when ctx is cancelled or the source fails unrecoverably.
	Watch(ctx context.Context) (<-chan []byte, error)
}
