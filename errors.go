package monitor

import "github.com/a2y-d5l/go-monitor/wait"

var (
	// ErrTimedOut indicates the timeout elapsed before the wait was satisfied
	ErrTimedOut = wait.ErrTimedOut
	// ErrCanceled indicates reset was active on the primitive
	ErrCanceled = wait.ErrCanceled
	// ErrInvalidArgument indicates a bad mask, test, action, size or timeout
	ErrInvalidArgument = wait.ErrInvalidArgument
	// ErrOutOfMemory indicates queue storage could not be reserved
	ErrOutOfMemory = wait.ErrOutOfMemory
	// ErrDestroyed indicates the primitive was destroyed
	ErrDestroyed = wait.ErrDestroyed
)
