package ripple

import (
	"testing"
	"time"
)

func TestNoOpMetricsProvider_DoesNotPanic(_ *testing.T) {
	var m NoOpMetricsProvider

	// These should not panic
	m.OnStateChange(StateIdle, StateDebouncing)
	m.OnCheckStarted()
	m.OnCheckCompleted(AvailabilityAvailable, 100*time.Millisecond)
	m.OnCheckDiscarded()
	m.OnValueDropped()
}
