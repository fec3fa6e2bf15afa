package ripple

import "errors"

var (
	// ErrAlreadyStarted is returned when Start is called more than once.
	ErrAlreadyStarted = errors.New("already started")

	// ErrUsernameTaken is returned by Submit when the last availability
	// check reported the username as taken.
	ErrUsernameTaken = errors.New("username is taken")

	// ErrAvailabilityUnknown is returned by Submit when no availability
	// result is known for the current username.
	ErrAvailabilityUnknown = errors.New("username availability unknown")

	// ErrInvalidCredentials wraps field validation failures from Submit.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmptyDocument is returned by a Codec given no document at all.
	ErrEmptyDocument = errors.New("empty document")
)
