package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/a2y-d5l/go-monitor/internal/syncx"
	"github.com/a2y-d5l/go-monitor/observability"
	"github.com/a2y-d5l/go-monitor/wait"
)

// Mask is a set of event flags
type Mask uint32

// Test selects how Wait matches its mask against the current flags
type Test int

const (
	// Any is satisfied when at least one masked flag is set
	Any Test = iota
	// All is satisfied when every masked flag is set
	All
)

func (t Test) String() string {
	switch t {
	case Any:
		return "any"
	case All:
		return "all"
	default:
		return fmt.Sprintf("Test(%d)", int(t))
	}
}

// Action selects what a satisfied Wait does with the tested flags
type Action int

const (
	// Clear consumes the tested flags
	Clear Action = iota
	// Keep leaves the flags untouched
	Keep
)

func (a Action) String() string {
	switch a {
	case Clear:
		return "clear"
	case Keep:
		return "keep"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Group is an event-flag group. All methods are safe for concurrent use.
type Group struct {
	mu   sync.Mutex
	cond *syncx.Cond

	// flags is written only with mu held; the atomic lets Current read it
	// without the lock.
	flags     atomic.Uint32
	reset     bool
	destroyed bool

	name    string
	log     observability.Logger
	metrics *observability.PrimitiveMetrics
}

// New creates a group with every flag clear and reset inactive
func New(opts ...Option) *Group {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &Group{
		name:    cfg.name,
		log:     cfg.log.With(observability.Primitive("event"), observability.Name(cfg.name)),
		metrics: observability.NewPrimitiveMetrics(cfg.metrics, "event", cfg.name),
	}
	g.cond = syncx.NewCond(&g.mu)

	g.log.Debug("event group created")
	return g
}

// Name returns the label given with WithName
func (g *Group) Name() string { return g.name }

// Set ORs mask into the flags and wakes every waiter, since one change can
// satisfy several different tests at once.
func (g *Group) Set(mask Mask) {
	g.mu.Lock()
	if g.destroyed {
		g.mu.Unlock()
		return
	}
	g.flags.Store(g.flags.Load() | uint32(mask))
	g.mu.Unlock()

	g.cond.Broadcast()
}

// Clear clears the flags in mask. Clearing can never satisfy a test, so no
// waiter is woken.
func (g *Group) Clear(mask Mask) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.destroyed {
		return
	}
	g.flags.Store(g.flags.Load() &^ uint32(mask))
}

// Current returns a snapshot of the flags. It does not synchronize with
// concurrent Set or Clear calls.
func (g *Group) Current() Mask {
	return Mask(g.flags.Load())
}

// Resetting reports whether reset is active
func (g *Group) Resetting() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reset
}

// Wait blocks until the flags satisfy test against mask, the group is reset,
// or timeout elapses.
//
// It returns nil on success, wait.ErrTimedOut when the timeout elapses (or
// at once for wait.Immediate), wait.ErrCanceled when reset is active, and
// wait.ErrInvalidArgument for a negative timeout or an unknown test or
// action. On success with Clear, only the flags in mask are cleared.
func (g *Group) Wait(mask Mask, test Test, action Action, timeout wait.Timeout) error {
	if err := timeout.Validate(); err != nil {
		return err
	}

	var deadline time.Time
	if d, ok := timeout.Deadline(); ok {
		deadline = d.Time()
	}

	return g.wait("wait", mask, test, action, timeout.IsImmediate(), deadline, nil, nil)
}

// WaitContext is Wait bounded by ctx instead of a Timeout. When ctx ends
// first it returns ctx.Err().
func (g *Group) WaitContext(ctx context.Context, mask Mask, test Test, action Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.wait("wait_context", mask, test, action, false, time.Time{}, ctx.Done(), ctx.Err)
}

func (g *Group) wait(op string, mask Mask, test Test, action Action,
	immediate bool, deadline time.Time, done <-chan struct{}, interrupted func() error) (err error) {

	if test != Any && test != All {
		return fmt.Errorf("%w: event test %v", wait.ErrInvalidArgument, test)
	}
	if action != Clear && action != Keep {
		return fmt.Errorf("%w: event action %v", wait.ErrInvalidArgument, action)
	}

	start := time.Now()
	defer func() {
		g.metrics.RecordOperation(op, err, time.Since(start))
		if errors.Is(err, wait.ErrCanceled) {
			g.log.Debug("event wait canceled by reset",
				observability.Operation(op),
				observability.Mask("mask", uint32(mask)),
				observability.Duration("waited", time.Since(start)),
			)
		}
	}()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.destroyed {
		return wait.ErrDestroyed
	}

	satisfied := g.satisfied(mask, test)
	if immediate && !satisfied {
		return wait.ErrTimedOut
	}

	for !satisfied && !g.reset {
		switch g.cond.Wait(deadline, done) {
		case syncx.Expired:
			return wait.ErrTimedOut
		case syncx.Interrupted:
			return interrupted()
		}
		if g.destroyed {
			return wait.ErrDestroyed
		}
		satisfied = g.satisfied(mask, test)
	}

	// Reset wins even when the flags also match.
	if g.reset {
		return wait.ErrCanceled
	}

	if action == Clear {
		g.flags.Store(g.flags.Load() &^ uint32(mask))
	}
	return nil
}

// satisfied must be called with g.mu held
func (g *Group) satisfied(mask Mask, test Test) bool {
	current := Mask(g.flags.Load())
	if test == Any {
		return current&mask != 0
	}
	return current&mask == mask
}

// Reset zeroes the flags, activates reset and wakes every waiter so each one
// returns wait.ErrCanceled. Reset stays active until Unreset.
func (g *Group) Reset() {
	g.mu.Lock()
	if g.destroyed {
		g.mu.Unlock()
		return
	}
	g.flags.Store(0)
	g.reset = true
	waiters := g.cond.Waiters()
	g.mu.Unlock()

	g.cond.Broadcast()

	g.metrics.RecordReset()
	g.log.Info("event group reset", observability.Waiters(waiters))
}

// Unreset lifts reset. Later waits run against whatever flags are set then.
func (g *Group) Unreset() {
	g.mu.Lock()
	if g.destroyed {
		g.mu.Unlock()
		return
	}
	g.reset = false
	g.mu.Unlock()

	g.log.Info("event group unreset")
}

// Destroy retires the group. The caller must ensure nobody is waiting; any
// straggler is woken and, like every later Wait, gets wait.ErrDestroyed.
func (g *Group) Destroy() {
	g.mu.Lock()
	if g.destroyed {
		g.mu.Unlock()
		return
	}
	g.destroyed = true
	g.flags.Store(0)
	g.mu.Unlock()

	g.cond.Broadcast()
	g.log.Debug("event group destroyed")
}
