package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/a2y-d5l/go-monitor/wait"
)

// LogFormat represents the output format for logs
type LogFormat int

const (
	// JSON format outputs structured JSON logs
	JSON LogFormat = iota
	// Text format outputs human-readable text logs
	Text
)

// Logger is the logging contract used by the monitor primitives
type Logger interface {
	Debug(msg string, fields ...slog.Attr)
	Info(msg string, fields ...slog.Attr)
	Warn(msg string, fields ...slog.Attr)
	Error(msg string, fields ...slog.Attr)
	With(fields ...slog.Attr) Logger
	WithContext(ctx context.Context) Logger
	Log(ctx context.Context, level slog.Level, msg string, fields ...slog.Attr)
	Enabled(level slog.Level) bool
}

// LoggerConfig holds configuration for creating a logger
type LoggerConfig struct {
	Level    slog.Level
	Format   LogFormat
	Output   io.Writer
	Sampling *SamplingConfig
}

// SamplingConfig controls log sampling to reduce volume in high-throughput scenarios
type SamplingConfig struct {
	Enabled      bool
	Rate         float64 // 0.0-1.0, fraction of logs to keep
	MaxPerSecond int     // Maximum logs per second
}

// logger implements the Logger interface
type logger struct {
	slogger  *slog.Logger
	sampling *sampler
}

// NewLogger creates a new logger with the given configuration
func NewLogger(config LoggerConfig) Logger {
	if config.Output == nil {
		config.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: config.Level,
	}

	var handler slog.Handler
	switch config.Format {
	case JSON:
		handler = slog.NewJSONHandler(config.Output, opts)
	default:
		handler = slog.NewTextHandler(config.Output, opts)
	}

	var s *sampler
	if config.Sampling != nil && config.Sampling.Enabled {
		s = newSampler(config.Sampling)
	}

	return &logger{
		slogger:  slog.New(handler),
		sampling: s,
	}
}

// Discard returns a logger that drops everything. Primitives use it when no
// logger is injected.
func Discard() Logger {
	return NewLogger(LoggerConfig{Output: io.Discard, Level: slog.LevelError + 1})
}

// ParseLevel maps debug, info, warn and error (any case) to a slog level
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// ParseFormat maps json and text to a LogFormat
func ParseFormat(s string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "text", "":
		return Text, nil
	default:
		return Text, fmt.Errorf("unknown log format %q", s)
	}
}

func (l *logger) Debug(msg string, fields ...slog.Attr) {
	l.Log(context.Background(), slog.LevelDebug, msg, fields...)
}

func (l *logger) Info(msg string, fields ...slog.Attr) {
	l.Log(context.Background(), slog.LevelInfo, msg, fields...)
}

func (l *logger) Warn(msg string, fields ...slog.Attr) {
	l.Log(context.Background(), slog.LevelWarn, msg, fields...)
}

func (l *logger) Error(msg string, fields ...slog.Attr) {
	l.Log(context.Background(), slog.LevelError, msg, fields...)
}

// With creates a new logger with additional structured fields
func (l *logger) With(fields ...slog.Attr) Logger {
	return &logger{
		slogger:  l.slogger.With(attrsToArgs(fields)...),
		sampling: l.sampling,
	}
}

type contextKey int

const (
	operationKey contextKey = iota
	runIDKey
)

// ContextWithOperation tags ctx with an operation name picked up by WithContext
func ContextWithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey, op)
}

// ContextWithRunID tags ctx with a run identifier picked up by WithContext
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// WithContext creates a new logger carrying the fields tagged on ctx
func (l *logger) WithContext(ctx context.Context) Logger {
	var fields []slog.Attr

	if id, ok := ctx.Value(runIDKey).(string); ok {
		fields = append(fields, RunID(id))
	}
	if op, ok := ctx.Value(operationKey).(string); ok {
		fields = append(fields, Operation(op))
	}

	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// Enabled reports whether a record at level would be emitted
func (l *logger) Enabled(level slog.Level) bool {
	return l.slogger.Enabled(context.Background(), level)
}

// Log logs a message at the specified level with optional structured fields
func (l *logger) Log(ctx context.Context, level slog.Level, msg string, fields ...slog.Attr) {
	if l.sampling != nil && !l.sampling.shouldLog(level) {
		return
	}
	l.slogger.LogAttrs(ctx, level, msg, fields...)
}

func attrsToArgs(fields []slog.Attr) []any {
	args := make([]any, len(fields))
	for i, attr := range fields {
		args[i] = attr
	}
	return args
}

// sampler implements log sampling to control high-volume logging
type sampler struct {
	config   *SamplingConfig
	counter  atomic.Uint64
	lastSec  atomic.Int64
	secCount atomic.Uint64
}

func newSampler(config *SamplingConfig) *sampler {
	return &sampler{config: config}
}

// shouldLog applies the per-second cap, then the rate. Warnings and errors
// always pass.
func (s *sampler) shouldLog(level slog.Level) bool {
	if level >= slog.LevelWarn {
		return true
	}

	if s.config.MaxPerSecond > 0 {
		now := time.Now().Unix()
		lastSec := s.lastSec.Load()

		if now != lastSec {
			if s.lastSec.CompareAndSwap(lastSec, now) {
				s.secCount.Store(1)
			}
		} else if int(s.secCount.Add(1)) > s.config.MaxPerSecond {
			return false
		}
	}

	if s.config.Rate < 1.0 {
		count := s.counter.Add(1)
		if float64(count%100)/100.0 >= s.config.Rate {
			return false
		}
	}

	return true
}

// Field helpers for consistent logging

// Primitive names the kind of primitive ("event" or "mqueue")
func Primitive(kind string) slog.Attr {
	return slog.String("primitive", kind)
}

// Name identifies a primitive instance
func Name(name string) slog.Attr {
	return slog.String("name", name)
}

// Operation creates an operation field
func Operation(op string) slog.Attr {
	return slog.String("operation", op)
}

// RunID creates a run identifier field
func RunID(id string) slog.Attr {
	return slog.String("run_id", id)
}

// Mask renders an event mask in hex
func Mask(key string, mask uint32) slog.Attr {
	return slog.String(key, fmt.Sprintf("0x%08x", mask))
}

// QueueDepth creates a queue depth field
func QueueDepth(depth int) slog.Attr {
	return slog.Int("queue_depth", depth)
}

// Capacity creates a queue capacity field
func Capacity(n int) slog.Attr {
	return slog.Int("capacity", n)
}

// SlotSize creates a message slot size field
func SlotSize(n int) slog.Attr {
	return slog.Int("slot_size", n)
}

// Waiters creates a blocked waiter count field
func Waiters(n int) slog.Attr {
	return slog.Int("waiters", n)
}

// OutcomeField records the outcome of an operation
func OutcomeField(err error) slog.Attr {
	return slog.String("outcome", wait.OutcomeOf(err).String())
}

// Duration creates a duration field
func Duration(key string, d time.Duration) slog.Attr {
	return slog.Duration(key, d)
}

// ErrorField creates an error field
func ErrorField(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Discarded counts messages dropped by a reset
func Discarded(n int) slog.Attr {
	return slog.Int("discarded", n)
}
