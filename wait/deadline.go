package wait

import "time"

const nanosPerSecond = int64(time.Second)

// Deadline is an absolute wake-up point.
//
// The zero Deadline means "no deadline".
type Deadline struct {
	at time.Time
}

// NowPlus returns the deadline ms milliseconds after the current time
func NowPlus(ms uint) Deadline {
	return NowPlusDuration(time.Duration(ms) * time.Millisecond)
}

// NowPlusDuration returns the deadline d after the current time
func NowPlusDuration(d time.Duration) Deadline {
	return Deadline{at: time.Now().Add(d)}
}

// At builds a deadline from seconds and nanoseconds since the Unix epoch,
// carrying any nanosecond overflow into the seconds field.
func At(sec, nsec int64) Deadline {
	sec, nsec = normalize(sec, nsec)
	return Deadline{at: time.Unix(sec, nsec)}
}

func normalize(sec, nsec int64) (int64, int64) {
	if nsec >= nanosPerSecond || nsec <= -nanosPerSecond {
		sec += nsec / nanosPerSecond
		nsec %= nanosPerSecond
	}
	if nsec < 0 {
		sec--
		nsec += nanosPerSecond
	}
	return sec, nsec
}

// IsZero reports whether d is the zero Deadline
func (d Deadline) IsZero() bool { return d.at.IsZero() }

// Sec returns the whole seconds since the Unix epoch
func (d Deadline) Sec() int64 { return d.at.Unix() }

// Nsec returns the sub-second remainder in [0, 1e9)
func (d Deadline) Nsec() int64 { return int64(d.at.Nanosecond()) }

// Time returns the deadline as a time.Time
func (d Deadline) Time() time.Time { return d.at }

// Remaining returns the time left before the deadline; it is never negative
func (d Deadline) Remaining() time.Duration {
	if d.at.IsZero() {
		return 0
	}
	if r := time.Until(d.at); r > 0 {
		return r
	}
	return 0
}

// Expired reports whether the deadline has passed
func (d Deadline) Expired() bool {
	return !d.at.IsZero() && !time.Now().Before(d.at)
}
