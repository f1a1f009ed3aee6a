package soak

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a2y-d5l/go-monitor/observability"
)

// Runner executes soak workloads against the monitor primitives
type Runner struct {
	cfg     *Config
	log     observability.Logger
	metrics observability.MetricsCollector
}

// NewRunner creates a runner. A nil logger discards output and a nil
// collector disables metrics.
func NewRunner(cfg *Config, log observability.Logger, metrics observability.MetricsCollector) *Runner {
	if log == nil {
		log = observability.Discard()
	}
	return &Runner{cfg: cfg, log: log, metrics: metrics}
}

// NewLogger builds the logger described by the logging section
func (c LoggingConfig) NewLogger(w io.Writer) (observability.Logger, error) {
	level, err := observability.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	format, err := observability.ParseFormat(c.Format)
	if err != nil {
		return nil, err
	}
	cfg := observability.LoggerConfig{
		Level:  level,
		Format: format,
		Output: w,
	}
	if c.Sampling.Enabled {
		cfg.Sampling = &observability.SamplingConfig{
			Enabled:      true,
			Rate:         c.Sampling.Rate,
			MaxPerSecond: c.Sampling.MaxPerSecond,
		}
	}
	return observability.NewLogger(cfg), nil
}

func newRunID() string {
	return fmt.Sprintf("%x", time.Now().UnixNano())
}

// resetOnDone calls reset when ctx ends before the returned stop func is
// called. Reset is how a soak run cancels its blocked workers.
func resetOnDone(ctx context.Context, reset func()) (stop func()) {
	finished := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			reset()
		case <-finished:
		}
	}()
	return func() { close(finished) }
}

func perSecond(n int64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(n) / elapsed.Seconds()
}
