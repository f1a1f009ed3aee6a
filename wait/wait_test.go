package wait

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeout_Validate(t *testing.T) {
	tests := []struct {
		name    string
		timeout Timeout
		wantErr bool
	}{
		{"infinite", Infinite, false},
		{"immediate", Immediate, false},
		{"zero relative", For(0), false},
		{"positive relative", For(time.Second), false},
		{"negative relative", For(-time.Millisecond), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.timeout.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMillis(t *testing.T) {
	assert.True(t, Millis(-1).IsInfinite())
	assert.True(t, Millis(0).IsImmediate())
	assert.Equal(t, 150*time.Millisecond, Millis(150).Duration())
	assert.ErrorIs(t, Millis(-2).Validate(), ErrInvalidArgument)
}

func TestTimeout_Deadline(t *testing.T) {
	t.Run("sentinels have no deadline", func(t *testing.T) {
		_, ok := Infinite.Deadline()
		assert.False(t, ok)
		_, ok = Immediate.Deadline()
		assert.False(t, ok)
	})

	t.Run("relative deadline is anchored at call time", func(t *testing.T) {
		before := time.Now()
		d, ok := For(200 * time.Millisecond).Deadline()
		require.True(t, ok)
		assert.False(t, d.Time().Before(before.Add(200*time.Millisecond)))
		assert.LessOrEqual(t, d.Remaining(), 200*time.Millisecond)
		assert.False(t, d.Expired())
	})
}

func TestNowPlus(t *testing.T) {
	before := time.Now()
	d := NowPlus(1500)
	after := time.Now()

	assert.False(t, d.Time().Before(before.Add(1500*time.Millisecond)))
	assert.False(t, d.Time().After(after.Add(1500*time.Millisecond)))
	assert.GreaterOrEqual(t, d.Nsec(), int64(0))
	assert.Less(t, d.Nsec(), int64(time.Second))
}

func TestAt_NormalizesCarry(t *testing.T) {
	tests := []struct {
		sec, nsec         int64
		wantSec, wantNsec int64
	}{
		{10, 0, 10, 0},
		{10, 999_999_999, 10, 999_999_999},
		{10, 1_000_000_000, 11, 0},
		{10, 2_500_000_000, 12, 500_000_000},
		{10, -1, 9, 999_999_999},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d", tt.sec, tt.nsec), func(t *testing.T) {
			d := At(tt.sec, tt.nsec)
			assert.Equal(t, tt.wantSec, d.Sec())
			assert.Equal(t, tt.wantNsec, d.Nsec())
		})
	}
}

func TestDeadline_Expired(t *testing.T) {
	var zero Deadline
	assert.True(t, zero.IsZero())
	assert.False(t, zero.Expired())
	assert.Equal(t, time.Duration(0), zero.Remaining())

	past := NowPlusDuration(-time.Second)
	assert.True(t, past.Expired())
	assert.Equal(t, time.Duration(0), past.Remaining())
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		err  error
		want Outcome
	}{
		{nil, Success},
		{ErrTimedOut, TimedOut},
		{fmt.Errorf("send: %w", ErrCanceled), Canceled},
		{For(-1).Validate(), InvalidArgument},
		{ErrOutOfMemory, OutOfMemory},
		{ErrDestroyed, Destroyed},
		{context.DeadlineExceeded, Interrupted},
		{context.Canceled, Interrupted},
		{errors.New("boom"), Failed},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, OutcomeOf(tt.err))
		})
	}

	assert.Equal(t, "unknown", Outcome(99).String())
}
