package wait

import (
	"context"
	"errors"
)

// Wait outcome errors
var (
	ErrTimedOut        = errors.New("wait timed out")
	ErrCanceled        = errors.New("wait canceled by reset")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOutOfMemory     = errors.New("storage not available")
	ErrDestroyed       = errors.New("primitive destroyed")
)

// Outcome is the discriminated result of an operation on a primitive
type Outcome int

const (
	Success Outcome = iota
	TimedOut
	Canceled
	InvalidArgument
	OutOfMemory
	Destroyed
	// Interrupted means a context bound to the call ended first
	Interrupted
	// Failed covers any error outside the taxonomy
	Failed
)

var outcomeNames = [...]string{
	Success:         "success",
	TimedOut:        "timed_out",
	Canceled:        "canceled",
	InvalidArgument: "invalid_argument",
	OutOfMemory:     "out_of_memory",
	Destroyed:       "destroyed",
	Interrupted:     "interrupted",
	Failed:          "failed",
}

// String returns the snake_case label of the outcome
func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// OutcomeOf classifies err
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrTimedOut):
		return TimedOut
	case errors.Is(err, ErrCanceled):
		return Canceled
	case errors.Is(err, ErrInvalidArgument):
		return InvalidArgument
	case errors.Is(err, ErrOutOfMemory):
		return OutOfMemory
	case errors.Is(err, ErrDestroyed):
		return Destroyed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Interrupted
	default:
		return Failed
	}
}
