package mqueue

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/a2y-d5l/go-monitor/internal/syncx"
	"github.com/a2y-d5l/go-monitor/observability"
	"github.com/a2y-d5l/go-monitor/wait"
)

// Queue is a bounded FIFO of fixed-size messages. All methods are safe for
// concurrent use.
type Queue struct {
	mu         sync.Mutex
	spaceAvail *syncx.Cond
	msgAvail   *syncx.Cond

	buf      []byte
	capacity int
	slotSize int
	head     int
	tail     int
	// count is written only with mu held; the atomic lets Count read it
	// without the lock.
	count     atomic.Int64
	reset     bool
	destroyed bool

	name    string
	log     observability.Logger
	metrics *observability.PrimitiveMetrics
}

// New creates an empty queue holding up to capacity messages of exactly
// slotSize bytes.
//
// A zero capacity or slot size is wait.ErrInvalidArgument. A buffer larger
// than the configured maximum (see WithMaxBytes) is wait.ErrOutOfMemory and
// nothing is allocated.
func New(capacity, slotSize uint32, opts ...Option) (*Queue, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if capacity == 0 || slotSize == 0 {
		return nil, fmt.Errorf("%w: capacity %d, slot size %d", wait.ErrInvalidArgument, capacity, slotSize)
	}

	total := uint64(capacity) * uint64(slotSize)
	if total > cfg.maxBytes || total > math.MaxInt {
		return nil, fmt.Errorf("%w: %d slots of %d bytes exceeds %d bytes",
			wait.ErrOutOfMemory, capacity, slotSize, cfg.maxBytes)
	}

	q := &Queue{
		buf:      make([]byte, total),
		capacity: int(capacity),
		slotSize: int(slotSize),
		name:     cfg.name,
		log:      cfg.log.With(observability.Primitive("mqueue"), observability.Name(cfg.name)),
		metrics:  observability.NewPrimitiveMetrics(cfg.metrics, "mqueue", cfg.name),
	}
	q.spaceAvail = syncx.NewCond(&q.mu)
	q.msgAvail = syncx.NewCond(&q.mu)

	q.log.Debug("message queue created",
		observability.Capacity(q.capacity),
		observability.SlotSize(q.slotSize),
	)
	return q, nil
}

// Name returns the label given with WithName
func (q *Queue) Name() string { return q.name }

// Capacity returns the maximum number of queued messages
func (q *Queue) Capacity() int { return q.capacity }

// SlotSize returns the fixed message size in bytes
func (q *Queue) SlotSize() int { return q.slotSize }

// Count returns a snapshot of the number of queued messages. It does not
// synchronize with concurrent Send or Receive calls.
func (q *Queue) Count() int { return int(q.count.Load()) }

// Resetting reports whether reset is active
func (q *Queue) Resetting() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.reset
}

// Send copies msg into the queue, blocking while the queue is full.
//
// msg must be exactly SlotSize bytes. Send returns nil once the message is
// queued, wait.ErrTimedOut when the timeout elapses (or at once for
// wait.Immediate on a full queue), and wait.ErrCanceled when reset is
// active, in which case the message is dropped.
func (q *Queue) Send(msg []byte, timeout wait.Timeout) error {
	if err := timeout.Validate(); err != nil {
		return err
	}
	if len(msg) != q.slotSize {
		return fmt.Errorf("%w: message is %d bytes, slot is %d", wait.ErrInvalidArgument, len(msg), q.slotSize)
	}

	var deadline time.Time
	if d, ok := timeout.Deadline(); ok {
		deadline = d.Time()
	}
	return q.send("send", msg, timeout.IsImmediate(), deadline, nil, nil)
}

// SendContext is Send bounded by ctx instead of a Timeout. When ctx ends
// first it returns ctx.Err().
func (q *Queue) SendContext(ctx context.Context, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg) != q.slotSize {
		return fmt.Errorf("%w: message is %d bytes, slot is %d", wait.ErrInvalidArgument, len(msg), q.slotSize)
	}
	return q.send("send_context", msg, false, time.Time{}, ctx.Done(), ctx.Err)
}

// Receive copies the oldest message into buf, blocking while the queue is
// empty.
//
// buf must hold at least SlotSize bytes; exactly SlotSize bytes are written.
// Receive returns nil on success and wait.ErrTimedOut when the timeout
// elapses (or at once for wait.Immediate on an empty queue). Reset does not
// interrupt a blocked Receive.
func (q *Queue) Receive(buf []byte, timeout wait.Timeout) error {
	if err := timeout.Validate(); err != nil {
		return err
	}
	if len(buf) < q.slotSize {
		return fmt.Errorf("%w: buffer is %d bytes, slot is %d", wait.ErrInvalidArgument, len(buf), q.slotSize)
	}

	var deadline time.Time
	if d, ok := timeout.Deadline(); ok {
		deadline = d.Time()
	}
	return q.receive("receive", buf, timeout.IsImmediate(), deadline, nil, nil)
}

// ReceiveContext is Receive bounded by ctx instead of a Timeout. When ctx
// ends first it returns ctx.Err().
func (q *Queue) ReceiveContext(ctx context.Context, buf []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(buf) < q.slotSize {
		return fmt.Errorf("%w: buffer is %d bytes, slot is %d", wait.ErrInvalidArgument, len(buf), q.slotSize)
	}
	return q.receive("receive_context", buf, false, time.Time{}, ctx.Done(), ctx.Err)
}

func (q *Queue) send(op string, msg []byte, immediate bool, deadline time.Time,
	done <-chan struct{}, interrupted func() error) (err error) {

	start := time.Now()
	depth, err := q.enqueue(msg, immediate, deadline, done, interrupted)
	if err == nil {
		// One message enables at most one receive.
		q.msgAvail.Signal()
		q.metrics.RecordDepth(depth)
	} else if errors.Is(err, wait.ErrCanceled) {
		q.log.Debug("send canceled by reset, message dropped",
			observability.Operation(op),
			observability.Duration("waited", time.Since(start)),
		)
	}
	q.metrics.RecordOperation(op, err, time.Since(start))
	return err
}

func (q *Queue) enqueue(msg []byte, immediate bool, deadline time.Time,
	done <-chan struct{}, interrupted func() error) (int, error) {

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.destroyed {
		return 0, wait.ErrDestroyed
	}
	if immediate && q.full() {
		return 0, wait.ErrTimedOut
	}

	for q.full() && !q.reset {
		switch q.spaceAvail.Wait(deadline, done) {
		case syncx.Expired:
			return 0, wait.ErrTimedOut
		case syncx.Interrupted:
			return 0, interrupted()
		}
		if q.destroyed {
			return 0, wait.ErrDestroyed
		}
	}

	if q.reset {
		return 0, wait.ErrCanceled
	}

	off := q.tail * q.slotSize
	copy(q.buf[off:off+q.slotSize], msg)
	q.tail = (q.tail + 1) % q.capacity
	return int(q.count.Add(1)), nil
}

func (q *Queue) receive(op string, buf []byte, immediate bool, deadline time.Time,
	done <-chan struct{}, interrupted func() error) error {

	start := time.Now()
	depth, err := q.dequeue(buf, immediate, deadline, done, interrupted)
	if err == nil {
		q.spaceAvail.Signal()
		q.metrics.RecordDepth(depth)
	}
	q.metrics.RecordOperation(op, err, time.Since(start))
	return err
}

func (q *Queue) dequeue(buf []byte, immediate bool, deadline time.Time,
	done <-chan struct{}, interrupted func() error) (int, error) {

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.destroyed {
		return 0, wait.ErrDestroyed
	}
	if immediate && q.empty() {
		return 0, wait.ErrTimedOut
	}

	for q.empty() {
		switch q.msgAvail.Wait(deadline, done) {
		case syncx.Expired:
			return 0, wait.ErrTimedOut
		case syncx.Interrupted:
			return 0, interrupted()
		}
		if q.destroyed {
			return 0, wait.ErrDestroyed
		}
	}

	off := q.head * q.slotSize
	copy(buf[:q.slotSize], q.buf[off:off+q.slotSize])
	q.head = (q.head + 1) % q.capacity
	return int(q.count.Add(-1)), nil
}

// full and empty must be called with q.mu held
func (q *Queue) full() bool  { return int(q.count.Load()) == q.capacity }
func (q *Queue) empty() bool { return q.count.Load() == 0 }

// Reset discards every queued message, activates reset and wakes blocked
// senders so each returns wait.ErrCanceled. Receivers are not woken. Reset
// stays active until Unreset.
func (q *Queue) Reset() {
	q.mu.Lock()
	if q.destroyed {
		q.mu.Unlock()
		return
	}
	discarded := int(q.count.Load())
	q.head, q.tail = 0, 0
	q.count.Store(0)
	q.reset = true
	senders := q.spaceAvail.Waiters()
	q.mu.Unlock()

	q.spaceAvail.Broadcast()

	q.metrics.RecordReset()
	q.metrics.RecordDepth(0)
	q.log.Info("message queue reset",
		observability.Discarded(discarded),
		observability.Waiters(senders),
	)
}

// Unreset lifts reset so Send queues messages again
func (q *Queue) Unreset() {
	q.mu.Lock()
	if q.destroyed {
		q.mu.Unlock()
		return
	}
	q.reset = false
	q.mu.Unlock()

	q.log.Info("message queue unreset")
}

// Destroy releases the buffer. The caller must ensure nobody is sending or
// receiving; any straggler is woken and, like every later call, gets
// wait.ErrDestroyed.
func (q *Queue) Destroy() {
	q.mu.Lock()
	if q.destroyed {
		q.mu.Unlock()
		return
	}
	q.destroyed = true
	q.buf = nil
	q.head, q.tail = 0, 0
	q.count.Store(0)
	q.mu.Unlock()

	q.spaceAvail.Broadcast()
	q.msgAvail.Broadcast()
	q.log.Debug("message queue destroyed")
}
