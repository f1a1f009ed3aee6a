// Package syncx provides the low-level synchronization pieces shared by the
// monitor primitives and the soak runner.
//
// Key Components:
//
// • Cond: condition variable with deadline-bounded and interruptible waits
// • MultiError: thread-safe error collection and reporting
// • Crew: named goroutine group with a shared context and error collection
package syncx
