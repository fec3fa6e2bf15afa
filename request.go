package ripple

import "context"

// Request carries one availability check through the processing pipeline.
type Request[T any] struct {
	// ID correlates the events emitted for this check.
	ID string

	// Value is the debounced value being checked.
	Value T

	// Generation is the validator generation the check was started with.
	// Results from older generations are discarded.
	Generation uint64

	// Available is set by the checker. Pipeline stages may override it.
	Available bool
}

// Checker reports whether a value is available. It is the injected
// capability an AsyncValidator calls after the debounce window.
// Returning an error yields AvailabilityUnknown.
type Checker[T any] interface {
	Check(ctx context.Context, value T) (bool, error)
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc[T any] func(ctx context.Context, value T) (bool, error)

// Check calls f(ctx, value).
func (f CheckerFunc[T]) Check(ctx context.Context, value T) (bool, error) {
	return f(ctx, value)
}
