// Package wait holds the timing and outcome vocabulary shared by the
// monitor primitives.
//
// A blocking call takes a Timeout, which is one of three things:
//
//	wait.Infinite          // block until satisfied or reset
//	wait.Immediate         // never block
//	wait.For(250*time.Millisecond)
//
// A relative Timeout is converted into an absolute Deadline exactly once, at
// call entry. Every retry after a wake-up measures against that same
// Deadline, so spurious wake-ups cannot stretch the caller's bound.
//
// Outcomes are reported as errors. A nil error is success; the sentinels
// ErrTimedOut, ErrCanceled, ErrInvalidArgument, ErrOutOfMemory and
// ErrDestroyed cover the rest and are matched with errors.Is.
package wait
