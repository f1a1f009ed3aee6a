// Package event implements an event-flag group: a 32-bit mask that
// goroutines set and clear, and block on until a bit pattern satisfies an
// ANY or ALL test.
//
//	g := event.New(event.WithName("workers"))
//	defer g.Destroy()
//
//	go func() { g.Set(0x1) }()
//
//	if err := g.Wait(0x1, event.Any, event.Clear, wait.For(time.Second)); err != nil {
//		// wait.ErrTimedOut or wait.ErrCanceled
//	}
//
// Reset zeroes the mask and forces every current and future waiter to return
// wait.ErrCanceled until Unreset is called. Set and Clear keep working while
// reset is active; only Wait observes it.
package event
