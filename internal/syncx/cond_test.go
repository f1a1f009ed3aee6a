package syncx

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --------------------- Cond Tests ---------------------

func waitForWaiters(t *testing.T, c *Cond, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return c.Waiters() == n },
		2*time.Second, time.Millisecond, "expected %d waiters", n)
}

func TestCond_SignalWakesOne(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)

	results := make(chan WaitResult, 2)
	for i := 0; i < 2; i++ {
		go func() {
			mu.Lock()
			defer mu.Unlock()
			results <- c.Wait(time.Time{}, nil)
		}()
	}
	waitForWaiters(t, c, 2)

	c.Signal()

	select {
	case r := <-results:
		assert.Equal(t, Woken, r)
	case <-time.After(2 * time.Second):
		t.Fatal("signal did not wake a waiter")
	}

	select {
	case <-results:
		t.Fatal("signal woke more than one waiter")
	case <-time.After(20 * time.Millisecond):
	}
	assert.Equal(t, 1, c.Waiters())

	c.Signal()
	select {
	case r := <-results:
		assert.Equal(t, Woken, r)
	case <-time.After(2 * time.Second):
		t.Fatal("second signal did not wake the remaining waiter")
	}
}

func TestCond_BroadcastWakesAll(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)

	const n = 5
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, Woken, c.Wait(time.Time{}, nil))
		}()
	}
	waitForWaiters(t, c, n)

	c.Broadcast()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast did not wake all waiters")
	}
	assert.Equal(t, 0, c.Waiters())
}

func TestCond_DeadlineExpires(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)

	mu.Lock()
	start := time.Now()
	r := c.Wait(time.Now().Add(30*time.Millisecond), nil)
	elapsed := time.Since(start)
	mu.Unlock()

	assert.Equal(t, Expired, r)
	assert.GreaterOrEqual(t, elapsed, 25*time.Millisecond)
	assert.Equal(t, 0, c.Waiters())
}

func TestCond_PastDeadlineReturnsAtOnce(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)

	mu.Lock()
	start := time.Now()
	r := c.Wait(time.Now().Add(-time.Second), nil)
	mu.Unlock()

	assert.Equal(t, Expired, r)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestCond_DoneInterrupts(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)
	done := make(chan struct{})

	result := make(chan WaitResult, 1)
	go func() {
		mu.Lock()
		defer mu.Unlock()
		result <- c.Wait(time.Time{}, done)
	}()
	waitForWaiters(t, c, 1)

	close(done)

	select {
	case r := <-result:
		assert.Equal(t, Interrupted, r)
	case <-time.After(2 * time.Second):
		t.Fatal("done channel did not interrupt the wait")
	}
	assert.Equal(t, 0, c.Waiters())
}

func TestCond_RelocksOnReturn(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)

	mu.Lock()
	c.Wait(time.Now().Add(time.Millisecond), nil)
	assert.False(t, mu.TryLock(), "lock must be held after Wait returns")
	mu.Unlock()
}

func TestCond_SignalWithoutWaitersIsNoop(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)

	c.Signal()
	c.Broadcast()
	assert.Equal(t, 0, c.Waiters())
}
