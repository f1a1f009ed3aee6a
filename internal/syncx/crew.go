package syncx

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

// Crew runs a set of named goroutines that share one cancellable context and
// collects their errors. It is the fan-out harness for producer/consumer
// style workloads where every member runs until its work or the context ends.
//
// Members run on a conc context pool; a member's error or panic is reported
// by Wait and Stop, prefixed with its name.
type Crew struct {
	ctx    context.Context
	cancel context.CancelFunc
	pool   *pool.ContextPool

	// mu orders Go against the start of Wait or Stop so no member is added
	// once the pool is being waited on.
	mu     sync.Mutex
	sealed bool

	waitOnce sync.Once
	done     chan struct{}
	err      error

	metrics CrewMetrics
}

// CrewMetrics tracks crew membership
type CrewMetrics struct {
	Launched uint64
	Finished uint64
	Failed   uint64
	Active   int64
}

// NewCrew creates a crew whose members run under a child of parent
func NewCrew(parent context.Context) *Crew {
	ctx, cancel := context.WithCancel(parent)
	return &Crew{
		ctx:    ctx,
		cancel: cancel,
		pool:   pool.New().WithErrors().WithContext(ctx),
		done:   make(chan struct{}),
	}
}

// Context returns the context shared by all members
func (c *Crew) Context() context.Context {
	return c.ctx
}

// Go launches fn as a crew member. A returned error, or a panic, is recorded
// under name. Go fails with ErrCrewStopped once Wait or Stop has been called.
func (c *Crew) Go(name string, fn func(ctx context.Context) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sealed {
		return ErrCrewStopped
	}

	atomic.AddUint64(&c.metrics.Launched, 1)
	atomic.AddInt64(&c.metrics.Active, 1)

	c.pool.Go(func(ctx context.Context) error {
		defer atomic.AddInt64(&c.metrics.Active, -1)

		var err error
		var catcher panics.Catcher
		catcher.Try(func() { err = fn(ctx) })
		if r := catcher.Recovered(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCrewPanic, r.Value)
		}

		if err != nil {
			atomic.AddUint64(&c.metrics.Failed, 1)
			return fmt.Errorf("%s: %w", name, err)
		}
		atomic.AddUint64(&c.metrics.Finished, 1)
		return nil
	})

	return nil
}

// Wait blocks until every member has returned and reports their errors
func (c *Crew) Wait() error {
	c.seal()
	<-c.done
	return c.err
}

// Stop cancels the shared context and waits for members to return, bounded
// by ctx.
func (c *Crew) Stop(ctx context.Context) error {
	c.cancel()
	c.seal()

	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// seal refuses further members and starts the single wait on the pool
func (c *Crew) seal() {
	c.mu.Lock()
	c.sealed = true
	c.mu.Unlock()

	c.waitOnce.Do(func() {
		go func() {
			c.err = c.pool.Wait()
			c.cancel()
			close(c.done)
		}()
	})
}

// Metrics returns a snapshot of the crew counters
func (c *Crew) Metrics() CrewMetrics {
	return CrewMetrics{
		Launched: atomic.LoadUint64(&c.metrics.Launched),
		Finished: atomic.LoadUint64(&c.metrics.Finished),
		Failed:   atomic.LoadUint64(&c.metrics.Failed),
		Active:   atomic.LoadInt64(&c.metrics.Active),
	}
}
