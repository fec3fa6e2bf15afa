package ripple

// Availability is the outcome of an availability check.
type Availability int32

const (
	// AvailabilityUnknown indicates the check failed, timed out, or has not
	// produced a result.
	AvailabilityUnknown Availability = iota

	// AvailabilityAvailable indicates the value is free to use.
	AvailabilityAvailable

	// AvailabilityTaken indicates the value is already in use.
	AvailabilityTaken
)

// availabilityOf maps a check outcome onto an Availability.
func availabilityOf(available bool, err error) Availability {
	switch {
	case err != nil:
		return AvailabilityUnknown
	case available:
		return AvailabilityAvailable
	default:
		return AvailabilityTaken
	}
}

// OK reports whether a is AvailabilityAvailable. Unknown counts as not OK.
func (a Availability) OK() bool {
	return a == AvailabilityAvailable
}

// String returns the string representation of the availability.
func (a Availability) String() string {
	switch a {
	case AvailabilityUnknown:
		return "unknown"
	case AvailabilityAvailable:
		return "available"
	case AvailabilityTaken:
		return "taken"
	default:
		return "invalid"
	}
}
