package mqueue

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/a2y-d5l/go-monitor/wait"
)

// Typed is a Queue of fixed-size values. T must have a fixed binary
// encoding (see encoding/binary.Size): numbers, bools, arrays and structs of
// those. Values are stored little-endian.
type Typed[T any] struct {
	q *Queue
}

// NewTyped creates a typed queue holding up to capacity values of T
func NewTyped[T any](capacity uint32, opts ...Option) (*Typed[T], error) {
	var zero T
	size := binary.Size(zero)
	if size <= 0 {
		return nil, fmt.Errorf("%w: %T has no fixed-size encoding", wait.ErrInvalidArgument, zero)
	}

	q, err := New(capacity, uint32(size), opts...)
	if err != nil {
		return nil, err
	}
	return &Typed[T]{q: q}, nil
}

// Queue returns the underlying byte queue, for Reset, Count and Destroy
func (t *Typed[T]) Queue() *Queue { return t.q }

// Send queues v. See Queue.Send.
func (t *Typed[T]) Send(v T, timeout wait.Timeout) error {
	buf, err := t.encode(v)
	if err != nil {
		return err
	}
	return t.q.Send(buf, timeout)
}

// SendContext queues v, bounded by ctx. See Queue.SendContext.
func (t *Typed[T]) SendContext(ctx context.Context, v T) error {
	buf, err := t.encode(v)
	if err != nil {
		return err
	}
	return t.q.SendContext(ctx, buf)
}

// Receive dequeues the oldest value. See Queue.Receive.
func (t *Typed[T]) Receive(timeout wait.Timeout) (T, error) {
	buf := make([]byte, t.q.SlotSize())
	if err := t.q.Receive(buf, timeout); err != nil {
		var zero T
		return zero, err
	}
	return t.decode(buf)
}

// ReceiveContext dequeues the oldest value, bounded by ctx. See
// Queue.ReceiveContext.
func (t *Typed[T]) ReceiveContext(ctx context.Context) (T, error) {
	buf := make([]byte, t.q.SlotSize())
	if err := t.q.ReceiveContext(ctx, buf); err != nil {
		var zero T
		return zero, err
	}
	return t.decode(buf)
}

func (t *Typed[T]) encode(v T) ([]byte, error) {
	buf := make([]byte, t.q.SlotSize())
	if _, err := binary.Encode(buf, binary.LittleEndian, v); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return buf, nil
}

func (t *Typed[T]) decode(buf []byte) (T, error) {
	var v T
	if _, err := binary.Decode(buf, binary.LittleEndian, &v); err != nil {
		return v, fmt.Errorf("decode %T: %w", v, err)
	}
	return v, nil
}
