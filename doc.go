/*
Package ripple provides reactive form validation: observable values,
composable stream operators, and a debounced asynchronous validator that
only ever publishes the answer for the latest input.

ripple is designed to sit between a UI and its validation rules. Text
fields push values in; the UI subscribes to derived streams and renders
them. It follows the same chainable-configuration style as the rest of
the zoobzio packages.

# Streams

A Signal holds a value and notifies subscribers on every Set. New
subscribers immediately receive the current value:

	password := ripple.NewSignal("")
	sub := password.Subscribe(func(p string) {
	    fmt.Println("password is now", p)
	})
	defer sub.Cancel()

Operators build new streams: Map, Filter, Distinct, DistinctUntilChanged,
CombineLatest2/3/4 and Debounce. Operators are cold; every Subscribe
builds its own chain, released by the returned Subscription.

	long := ripple.Map[string, bool](password, ripple.HasMinLength)

A Bag collects subscriptions owned by one screen and cancels them together.

# Asynchronous Validation

AsyncValidator debounces a stream, drops repeats of the last checked
value, and calls a Checker:

	v := ripple.NewAsyncValidator[string](
	    username,
	    ripple.CheckerFunc[string](lookup),
	    ripple.WithCircuitBreaker[string](5, 30*time.Second),
	).Debounce(300 * time.Millisecond).Timeout(2 * time.Second)

	if err := v.Start(ctx); err != nil {
	    return err
	}

When a newer value settles while a check is in flight, the older check is
cancelled and its result discarded. Errors and timeouts produce
AvailabilityUnknown, which never counts as valid.

Pipeline options wrap the checker using pipz: WithTimeout, WithFallback,
WithCircuitBreaker, WithRateLimit, WithErrorHandler, WithMiddleware and
WithTracing.

# Forms

Form wires the account creation rules together:

	form := ripple.NewForm(checker)
	ripple.Bind(form, view)
	form.Start(ctx)

	form.OnUsernameChanged("alice")
	form.OnPasswordChanged("Passw0rd")
	form.OnPasswordConfirmedChanged("Passw0rd")

AllValid emits true only once the username is known to be available and
every password rule holds. Bind holds the view weakly, so a discarded view
does not keep the form's subscriptions doing work on its behalf.

# Scheduling and Testing

Timers and check results are delivered through a Scheduler. Immediate runs
work inline; Loop is a serial event loop for UIs with a single logical
thread. Both take a clockz.Clock, so tests drive time with a fake clock:

	clock := clockz.NewFakeClock()
	form := ripple.NewForm(checker).Clock(clock)
	form.OnUsernameChanged("alice")
	clock.Advance(ripple.DefaultDebounce)

# Observability

Lifecycle events are emitted through capitan (see signals.go). Implement
MetricsProvider, or use pkg/metrics for Prometheus, to record check counts,
durations and state transitions.
*/
package ripple
