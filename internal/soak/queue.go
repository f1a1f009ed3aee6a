package soak

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/a2y-d5l/go-monitor/internal/syncx"
	"github.com/a2y-d5l/go-monitor/mqueue"
	"github.com/a2y-d5l/go-monitor/observability"
	"github.com/a2y-d5l/go-monitor/wait"
)

// ErrVerification reports a soak run whose results break an ordering or
// delivery guarantee.
var ErrVerification = errors.New("soak verification failed")

// QueueReport summarizes a queue soak run
type QueueReport struct {
	Messages        int64         `yaml:"messages"`
	Sent            int64         `yaml:"sent"`
	Received        int64         `yaml:"received"`
	SendTimeouts    int64         `yaml:"send_timeouts"`
	ReceiveTimeouts int64         `yaml:"receive_timeouts"`
	Cancellations   int64         `yaml:"cancellations"`
	OrderViolations int64         `yaml:"order_violations"`
	CorruptMessages int64         `yaml:"corrupt_messages"`
	Elapsed         time.Duration `yaml:"elapsed"`
	Throughput      float64       `yaml:"throughput_per_sec"`
}

// Verify returns ErrVerification when messages were lost, duplicated,
// reordered or corrupted.
func (r *QueueReport) Verify() error {
	switch {
	case r.OrderViolations > 0:
		return fmt.Errorf("%w: %d order violations", ErrVerification, r.OrderViolations)
	case r.CorruptMessages > 0:
		return fmt.Errorf("%w: %d corrupt messages", ErrVerification, r.CorruptMessages)
	case r.Received != r.Sent:
		return fmt.Errorf("%w: sent %d, received %d", ErrVerification, r.Sent, r.Received)
	}
	return nil
}

type queueStats struct {
	sent, received                atomic.Int64
	sendTimeouts, receiveTimeouts atomic.Int64
	cancellations                 atomic.Int64
	orderViolations, corrupt      atomic.Int64
}

// RunQueue drives producers and consumers through one queue until every
// message has been delivered or ctx ends. Each message carries its producer
// id and sequence number; consumers check per-producer order and payload
// integrity.
func (r *Runner) RunQueue(ctx context.Context) (*QueueReport, error) {
	cfg := r.cfg.Queue
	runID := newRunID()
	ctx = observability.ContextWithRunID(observability.ContextWithOperation(ctx, "soak_queue"), runID)
	log := r.log.WithContext(ctx)

	q, err := mqueue.New(uint32(cfg.Capacity), uint32(cfg.SlotSize),
		mqueue.WithName("soak"),
		mqueue.WithLogger(r.log),
		mqueue.WithMetrics(r.metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("create queue: %w", err)
	}
	defer q.Destroy()

	total := int64(cfg.Producers) * int64(cfg.MessagesPerProducer)
	log.Info("queue soak started",
		observability.Capacity(cfg.Capacity),
		observability.SlotSize(cfg.SlotSize),
		slog.Int("producers", cfg.Producers),
		slog.Int("consumers", cfg.Consumers),
		slog.Int64("messages", total),
	)

	stopWatch := resetOnDone(ctx, q.Reset)
	defer stopWatch()

	var stats queueStats
	start := time.Now()

	consumeCtx, allReceived := context.WithCancel(ctx)
	defer allReceived()
	consumers := syncx.NewCrew(consumeCtx)
	receiveTimeout := time.Duration(cfg.ReceiveTimeoutMs) * time.Millisecond
	for c := 0; c < cfg.Consumers; c++ {
		_ = consumers.Go(fmt.Sprintf("consumer-%d", c), func(ctx context.Context) error {
			return consume(ctx, q, receiveTimeout, total, &stats, allReceived)
		})
	}

	producers := syncx.NewCrew(ctx)
	sendTimeout := wait.Millis(int64(cfg.SendTimeoutMs))
	for p := 0; p < cfg.Producers; p++ {
		id := uint32(p)
		_ = producers.Go(fmt.Sprintf("producer-%d", p), func(ctx context.Context) error {
			return produce(ctx, q, id, cfg.MessagesPerProducer, sendTimeout, &stats)
		})
	}

	errs := syncx.NewMultiError()
	if err := producers.Wait(); err != nil {
		errs.Add(err)
	}
	if stats.sent.Load() < total {
		// Nothing more is coming; stop consumers once the queue drains.
		drain(consumeCtx, q, allReceived)
	}
	if err := consumers.Wait(); err != nil {
		errs.Add(err)
	}
	elapsed := time.Since(start)

	remaining := q.Count()
	q.Reset()

	report := &QueueReport{
		Messages:        total,
		Sent:            stats.sent.Load(),
		Received:        stats.received.Load(),
		SendTimeouts:    stats.sendTimeouts.Load(),
		ReceiveTimeouts: stats.receiveTimeouts.Load(),
		Cancellations:   stats.cancellations.Load(),
		OrderViolations: stats.orderViolations.Load(),
		CorruptMessages: stats.corrupt.Load(),
		Elapsed:         elapsed,
		Throughput:      perSecond(stats.received.Load(), elapsed),
	}

	log.Info("queue soak finished",
		slog.Int64("received", report.Received),
		slog.Int64("send_timeouts", report.SendTimeouts),
		slog.Int64("order_violations", report.OrderViolations),
		observability.QueueDepth(remaining),
		observability.Duration("elapsed", elapsed),
	)

	if err := ctx.Err(); err != nil {
		errs.Add(err)
	}
	return report, errs.ToError()
}

func produce(ctx context.Context, q *mqueue.Queue, id uint32, n int, timeout wait.Timeout, stats *queueStats) error {
	msg := make([]byte, q.SlotSize())
	for seq := 0; seq < n; {
		encodeMessage(msg, id, uint32(seq))
		err := q.Send(msg, timeout)
		switch {
		case err == nil:
			stats.sent.Add(1)
			seq++
		case errors.Is(err, wait.ErrTimedOut):
			stats.sendTimeouts.Add(1)
			if ctx.Err() != nil {
				return nil
			}
		case errors.Is(err, wait.ErrCanceled):
			stats.cancellations.Add(1)
			return nil
		default:
			return err
		}
	}
	return nil
}

func consume(ctx context.Context, q *mqueue.Queue, timeout time.Duration, total int64,
	stats *queueStats, allReceived context.CancelFunc) error {

	buf := make([]byte, q.SlotSize())
	last := make(map[uint32]uint32)
	for {
		rctx, cancel := context.WithTimeout(ctx, timeout)
		err := q.ReceiveContext(rctx, buf)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, context.DeadlineExceeded) {
				stats.receiveTimeouts.Add(1)
				continue
			}
			return err
		}

		id, seq, ok := decodeMessage(buf)
		switch prev, seen := last[id]; {
		case !ok:
			stats.corrupt.Add(1)
		case seen && seq <= prev:
			stats.orderViolations.Add(1)
		default:
			last[id] = seq
		}

		if stats.received.Add(1) == total {
			allReceived()
			return nil
		}
	}
}

// drain stops consumers once the queue is empty or ctx ends
func drain(ctx context.Context, q *mqueue.Queue, stop context.CancelFunc) {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for q.Count() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
	stop()
}

// encodeMessage writes producer id and sequence number little-endian,
// followed by a filler derived from both.
func encodeMessage(msg []byte, id, seq uint32) {
	binary.LittleEndian.PutUint32(msg[0:4], id)
	binary.LittleEndian.PutUint32(msg[4:8], seq)
	for i := 8; i < len(msg); i++ {
		msg[i] = filler(id, seq, i)
	}
}

func decodeMessage(msg []byte) (id, seq uint32, ok bool) {
	id = binary.LittleEndian.Uint32(msg[0:4])
	seq = binary.LittleEndian.Uint32(msg[4:8])
	for i := 8; i < len(msg); i++ {
		if msg[i] != filler(id, seq, i) {
			return id, seq, false
		}
	}
	return id, seq, true
}

func filler(id, seq uint32, i int) byte {
	return byte(id*31 + seq*7 + uint32(i))
}
