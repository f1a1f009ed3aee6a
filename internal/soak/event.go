package soak

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/a2y-d5l/go-monitor/event"
	"github.com/a2y-d5l/go-monitor/internal/syncx"
	"github.com/a2y-d5l/go-monitor/observability"
	"github.com/a2y-d5l/go-monitor/wait"
)

// EventReport summarizes an event group soak run
type EventReport struct {
	Waiters          int           `yaml:"waiters"`
	Rounds           int           `yaml:"rounds"`
	Acknowledgements int64         `yaml:"acknowledgements"`
	Cancellations    int64         `yaml:"cancellations"`
	Timeouts         int64         `yaml:"timeouts"`
	Elapsed          time.Duration `yaml:"elapsed"`
	RoundsPerSecond  float64       `yaml:"rounds_per_sec"`
}

// Verify returns ErrVerification unless every waiter acknowledged every
// round and was then canceled by the final reset.
func (r *EventReport) Verify() error {
	switch {
	case r.Acknowledgements != int64(r.Rounds)*int64(r.Waiters):
		return fmt.Errorf("%w: %d acknowledgements for %d rounds of %d waiters",
			ErrVerification, r.Acknowledgements, r.Rounds, r.Waiters)
	case r.Cancellations != int64(r.Waiters):
		return fmt.Errorf("%w: %d of %d waiters canceled by reset",
			ErrVerification, r.Cancellations, r.Waiters)
	}
	return nil
}

// waiterMask returns the request bits for n waiters; waiter i acknowledges
// on bit 16+i.
func waiterMask(n int) event.Mask {
	return event.Mask(1)<<n - 1
}

// RunEvent runs request/acknowledge rounds over one event group, then resets
// it and checks every waiter was canceled.
func (r *Runner) RunEvent(ctx context.Context) (*EventReport, error) {
	cfg := r.cfg.Event
	runID := newRunID()
	ctx = observability.ContextWithRunID(observability.ContextWithOperation(ctx, "soak_event"), runID)
	log := r.log.WithContext(ctx)

	g := event.New(
		event.WithName("soak"),
		event.WithLogger(r.log),
		event.WithMetrics(r.metrics),
	)
	defer g.Destroy()

	requests := waiterMask(cfg.Waiters)
	acks := requests << 16
	log.Info("event soak started",
		slog.Int("waiters", cfg.Waiters),
		slog.Int("rounds", cfg.Rounds),
		observability.Mask("requests", uint32(requests)),
		observability.Mask("acks", uint32(acks)),
	)

	stopWatch := resetOnDone(ctx, g.Reset)
	defer stopWatch()

	var acknowledged, canceled, timeouts atomic.Int64
	crew := syncx.NewCrew(ctx)
	for i := 0; i < cfg.Waiters; i++ {
		bit := event.Mask(1) << i
		_ = crew.Go(fmt.Sprintf("waiter-%d", i), func(ctx context.Context) error {
			for {
				err := g.WaitContext(ctx, bit, event.Any, event.Clear)
				switch {
				case err == nil:
					acknowledged.Add(1)
					g.Set(bit << 16)
				case errors.Is(err, wait.ErrCanceled):
					canceled.Add(1)
					return nil
				case ctx.Err() != nil:
					return nil
				default:
					return err
				}
			}
		})
	}

	start := time.Now()
	timeout := wait.Millis(int64(cfg.WaitTimeoutMs))
	errs := syncx.NewMultiError()
	rounds := 0
	for ; rounds < cfg.Rounds; rounds++ {
		g.Set(requests)
		err := g.Wait(acks, event.All, event.Clear, timeout)
		if err == nil {
			continue
		}
		if errors.Is(err, wait.ErrTimedOut) {
			timeouts.Add(1)
			log.Warn("acknowledgements timed out",
				slog.Int("round", rounds),
				observability.Mask("current", uint32(g.Current())),
			)
		}
		errs.Add(fmt.Errorf("round %d: %w", rounds, err))
		break
	}
	elapsed := time.Since(start)

	g.Reset()
	if err := crew.Wait(); err != nil {
		errs.Add(err)
	}

	report := &EventReport{
		Waiters:          cfg.Waiters,
		Rounds:           rounds,
		Acknowledgements: acknowledged.Load(),
		Cancellations:    canceled.Load(),
		Timeouts:         timeouts.Load(),
		Elapsed:          elapsed,
		RoundsPerSecond:  perSecond(int64(rounds), elapsed),
	}

	log.Info("event soak finished",
		slog.Int("rounds", report.Rounds),
		slog.Int64("acknowledgements", report.Acknowledgements),
		slog.Int64("cancellations", report.Cancellations),
		observability.Duration("elapsed", elapsed),
	)

	if err := ctx.Err(); err != nil {
		errs.Add(err)
	}
	return report, errs.ToError()
}
