package ripple

import "github.com/zoobzio/capitan"

// Validator lifecycle signals.
var (
	// ValidatorStarted is emitted when an AsyncValidator subscribes to its source.
	ValidatorStarted = capitan.NewSignal(
		"ripple.validator.started",
		"Validator started",
	)

	// ValidatorStopped is emitted when an AsyncValidator stops.
	ValidatorStopped = capitan.NewSignal(
		"ripple.validator.stopped",
		"Validator stopped",
	)

	// ValidatorStateChanged is emitted when an AsyncValidator transitions between states.
	ValidatorStateChanged = capitan.NewSignal(
		"ripple.validator.state.changed",
		"Validator state transition",
	)
)

// Check signals.
var (
	// CheckStarted is emitted when a check is invoked for a new value.
	CheckStarted = capitan.NewSignal(
		"ripple.check.started",
		"Availability check started",
	)

	// CheckCompleted is emitted when a current check result is applied.
	CheckCompleted = capitan.NewSignal(
		"ripple.check.completed",
		"Availability check completed",
	)

	// CheckFailed is emitted when a check returns an error or times out.
	CheckFailed = capitan.NewSignal(
		"ripple.check.failed",
		"Availability check failed",
	)

	// CheckDiscarded is emitted when a superseded check resolves.
	CheckDiscarded = capitan.NewSignal(
		"ripple.check.discarded",
		"Stale availability result discarded",
	)

	// ValueDropped is emitted when a debounced value repeats the last checked value.
	ValueDropped = capitan.NewSignal(
		"ripple.value.dropped",
		"Repeated value dropped",
	)
)

// Form signals.
var (
	// FormSubmitted is emitted when Submit accepts the credentials.
	FormSubmitted = capitan.NewSignal(
		"ripple.form.submitted",
		"Credentials submitted",
	)

	// FormRejected is emitted when Submit rejects the credentials.
	FormRejected = capitan.NewSignal(
		"ripple.form.rejected",
		"Credentials rejected",
	)
)
