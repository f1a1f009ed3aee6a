// Package monitor provides two monitor-style synchronization primitives with
// reset-based cancellation: a bounded FIFO message queue and an event-flag
// group with ANY/ALL bitmask waits.
//
// The implementation lives in focused subpackages:
//
//   - github.com/a2y-d5l/go-monitor/wait    - Timeout, Deadline and the error taxonomy
//   - github.com/a2y-d5l/go-monitor/mqueue  - Bounded message queue
//   - github.com/a2y-d5l/go-monitor/event   - Event-flag group
//
// The root package re-exports the common types so most callers need a single
// import.
//
// Example usage:
//
//	q, err := monitor.NewQueue(16, 8)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer q.Destroy()
//
//	if err := q.Send(msg, monitor.For(100*time.Millisecond)); errors.Is(err, monitor.ErrTimedOut) {
//		// queue stayed full
//	}
//
//	flags := monitor.NewEventGroup()
//	go flags.Set(0x1)
//	err = flags.Wait(0x1, monitor.Any, monitor.Clear, monitor.Infinite)
//
// Calling Reset on either primitive makes every blocked (and future) waiter
// return ErrCanceled until Unreset is called.
package monitor
