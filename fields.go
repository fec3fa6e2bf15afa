package ripple

import "github.com/zoobzio/capitan"

// Field keys for validator and form events.
var (
	// KeyState is the current state of the validator.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyCheckID correlates the events of a single check.
	KeyCheckID = capitan.NewStringKey("check_id")

	// KeyGeneration is the generation a check was started with.
	KeyGeneration = capitan.NewIntKey("generation")

	// KeyAvailability is the result of a check.
	KeyAvailability = capitan.NewStringKey("availability")

	// KeyDuration is how long a check took.
	KeyDuration = capitan.NewDurationKey("duration")
)
