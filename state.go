package ripple

// State represents the current state of an AsyncValidator.
type State int32

const (
	// StateIdle indicates no timer is armed and no check is in flight.
	StateIdle State = iota

	// StateDebouncing indicates a value arrived and the quiet period has
	// not yet elapsed.
	StateDebouncing

	// StateChecking indicates a check is in flight.
	StateChecking

	// StateStopped indicates the validator has been stopped and will not
	// check further values.
	StateStopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateChecking:
		return "checking"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
