package syncx

import "errors"

// Crew errors
var (
	ErrCrewStopped = errors.New("crew is stopped")
	ErrCrewPanic   = errors.New("crew member panicked")
)
