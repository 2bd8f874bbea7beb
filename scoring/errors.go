package scoring

import "errors"

var (
	// ErrInvalidState is returned when an event is not valid in the current match state.
	ErrInvalidState = errors.New("invalid match state")
	// ErrInvalidInput is returned for malformed events or configuration.
	ErrInvalidInput = errors.New("invalid scoring input")
	// ErrNotFound marks a missing match or participant. The engine never returns it
	// itself; hosts wrap it so callers can tell it apart from ErrInvalidState.
	ErrNotFound = errors.New("scoring target not found")
)
