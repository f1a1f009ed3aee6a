// Package mqueue implements a bounded FIFO queue of fixed-size messages.
//
// The queue owns a single buffer of capacity × slotSize bytes allocated at
// construction. Send copies a message into the slot at the tail and Receive
// copies the slot at the head out; callers keep ownership of their own
// slices before and after each call.
//
//	q, err := mqueue.New(2, 4)
//	if err != nil {
//		return err
//	}
//	defer q.Destroy()
//
//	_ = q.Send([]byte("AAAA"), wait.Immediate)
//
//	buf := make([]byte, q.SlotSize())
//	if err := q.Receive(buf, wait.For(time.Second)); err != nil {
//		// wait.ErrTimedOut
//	}
//
// Reset discards every queued message and makes blocked and future senders
// return wait.ErrCanceled until Unreset. Reset does not wake receivers
// blocked on an empty queue; use ReceiveContext when a consumer must observe
// shutdown.
//
// Data order is FIFO. Which blocked goroutine proceeds when space or a
// message becomes available is unspecified.
package mqueue
