package syncx

import (
	"container/list"
	"sync"
	"time"
)

// WaitResult reports why Cond.Wait returned
type WaitResult int

const (
	// Woken means Signal or Broadcast selected this waiter
	Woken WaitResult = iota
	// Expired means the deadline passed first
	Expired
	// Interrupted means the done channel fired first
	Interrupted
)

// Cond is a condition variable whose waits may be bounded by a deadline or
// interrupted by a done channel. As with sync.Cond, L must be held when
// calling Wait. Signal and Broadcast may be called with or without L held.
//
// Waiters are released in arrival order, but callers must not rely on it.
type Cond struct {
	L sync.Locker

	mu      sync.Mutex
	waiters list.List // of chan struct{}
}

// NewCond returns a Cond bound to l
func NewCond(l sync.Locker) *Cond {
	return &Cond{L: l}
}

// Wait atomically unlocks c.L and suspends the caller until it is woken, the
// deadline passes, or done is closed. A zero deadline never expires and a nil
// done never fires. c.L is locked again on every return path.
//
// A wake-up delivered concurrently with expiry is reported as Woken, so a
// Signal is never lost; the caller re-checks its predicate either way.
func (c *Cond) Wait(deadline time.Time, done <-chan struct{}) (result WaitResult) {
	ch := make(chan struct{}, 1)

	// Registration happens while L is still held, so any state change made
	// under L after our predicate check will see this waiter.
	c.mu.Lock()
	e := c.waiters.PushBack(ch)
	c.mu.Unlock()

	c.L.Unlock()
	defer c.L.Lock()

	var expire <-chan time.Time
	if !deadline.IsZero() {
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		expire = timer.C
	}

	select {
	case <-ch:
		return Woken
	case <-expire:
		result = Expired
	case <-done:
		result = Interrupted
	}

	c.mu.Lock()
	c.waiters.Remove(e)
	c.mu.Unlock()

	select {
	case <-ch:
		return Woken
	default:
		return result
	}
}

// Signal wakes one waiter, if any
func (c *Cond) Signal() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e := c.waiters.Front(); e != nil {
		c.wake(e)
	}
}

// Broadcast wakes all waiters
func (c *Cond) Broadcast() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for e := c.waiters.Front(); e != nil; e = c.waiters.Front() {
		c.wake(e)
	}
}

// Waiters returns the number of goroutines currently blocked in Wait
func (c *Cond) Waiters() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiters.Len()
}

// wake must be called with c.mu held; the send happens under c.mu so a
// waiter racing to remove itself observes either the element or the token.
func (c *Cond) wake(e *list.Element) {
	ch := c.waiters.Remove(e).(chan struct{})
	ch <- struct{}{}
}
