package wait

import (
	"fmt"
	"time"
)

type kind uint8

const (
	kindInfinite kind = iota
	kindImmediate
	kindRelative
)

// Timeout bounds a blocking operation
type Timeout struct {
	kind kind
	d    time.Duration
}

var (
	// Infinite blocks until the predicate holds or the primitive is reset
	Infinite = Timeout{kind: kindInfinite}
	// Immediate evaluates the predicate once and never blocks
	Immediate = Timeout{kind: kindImmediate}
)

// For returns a relative timeout of d. A negative d yields a Timeout that
// fails validation.
func For(d time.Duration) Timeout {
	return Timeout{kind: kindRelative, d: d}
}

// Millis maps the integer convention used by C-style callers: -1 waits
// forever, 0 does not wait, and a positive value waits that many
// milliseconds. Other negative values produce an invalid Timeout.
func Millis(ms int64) Timeout {
	switch {
	case ms == -1:
		return Infinite
	case ms == 0:
		return Immediate
	default:
		return For(time.Duration(ms) * time.Millisecond)
	}
}

// Validate reports ErrInvalidArgument for a negative relative duration
func (t Timeout) Validate() error {
	if t.kind == kindRelative && t.d < 0 {
		return fmt.Errorf("%w: negative timeout %v", ErrInvalidArgument, t.d)
	}
	return nil
}

// IsInfinite reports whether t never expires
func (t Timeout) IsInfinite() bool { return t.kind == kindInfinite }

// IsImmediate reports whether t forbids blocking
func (t Timeout) IsImmediate() bool { return t.kind == kindImmediate }

// Duration returns the relative duration, or zero for the sentinels
func (t Timeout) Duration() time.Duration {
	if t.kind != kindRelative {
		return 0
	}
	return t.d
}

// Deadline converts a relative timeout into an absolute deadline measured
// from now. ok is false for Infinite and Immediate.
func (t Timeout) Deadline() (d Deadline, ok bool) {
	if t.kind != kindRelative {
		return Deadline{}, false
	}
	return NowPlusDuration(t.d), true
}

func (t Timeout) String() string {
	switch t.kind {
	case kindInfinite:
		return "infinite"
	case kindImmediate:
		return "immediate"
	default:
		return t.d.String()
	}
}
