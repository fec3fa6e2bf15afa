package ripple

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key validator events.
type MetricsProvider interface {
	// OnStateChange is called when the validator transitions between states.
	OnStateChange(from, to State)

	// OnCheckStarted is called when a check is invoked.
	OnCheckStarted()

	// OnCheckCompleted is called when a current check result is applied.
	// Duration spans the check call only.
	OnCheckCompleted(result Availability, duration time.Duration)

	// OnCheckDiscarded is called when a superseded check resolves.
	OnCheckDiscarded()

	// OnValueDropped is called when a debounced value repeats the last
	// checked value.
	OnValueDropped()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ State)                         {}
func (NoOpMetricsProvider) OnCheckStarted()                                  {}
func (NoOpMetricsProvider) OnCheckCompleted(_ Availability, _ time.Duration) {}
func (NoOpMetricsProvider) OnCheckDiscarded()                                {}
func (NoOpMetricsProvider) OnValueDropped()                                  {}
