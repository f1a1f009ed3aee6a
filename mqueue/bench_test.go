package mqueue

import (
	"testing"

	"github.com/a2y-d5l/go-monitor/wait"
)

func BenchmarkSendReceive(b *testing.B) {
	q, err := New(64, 64)
	if err != nil {
		b.Fatal(err)
	}
	defer q.Destroy()

	msg := make([]byte, 64)
	buf := make([]byte, 64)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := q.Send(msg, wait.Immediate); err != nil {
			b.Fatal(err)
		}
		if err := q.Receive(buf, wait.Immediate); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkProducerConsumer(b *testing.B) {
	q, err := New(64, 16)
	if err != nil {
		b.Fatal(err)
	}
	defer q.Destroy()

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 16)
		for i := 0; i < b.N; i++ {
			if err := q.Receive(buf, wait.Infinite); err != nil {
				return
			}
		}
	}()

	msg := make([]byte, 16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := q.Send(msg, wait.Infinite); err != nil {
			b.Fatal(err)
		}
	}
	<-done
}
