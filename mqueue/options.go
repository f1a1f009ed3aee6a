package mqueue

import "github.com/a2y-d5l/go-monitor/observability"

// DefaultMaxBytes caps the buffer a queue may allocate (1 GiB)
const DefaultMaxBytes = 1 << 30

// Option configures a Queue
type Option func(*config)

type config struct {
	name     string
	maxBytes uint64
	log      observability.Logger
	metrics  observability.MetricsCollector
}

func defaultConfig() config {
	return config{
		name:     "mqueue",
		maxBytes: DefaultMaxBytes,
		log:      observability.Discard(),
	}
}

// WithName labels the queue in logs and metrics (default "mqueue")
func WithName(name string) Option { return func(c *config) { c.name = name } }

// WithMaxBytes changes the largest buffer New will allocate. Larger requests
// fail with wait.ErrOutOfMemory.
func WithMaxBytes(n uint64) Option { return func(c *config) { c.maxBytes = n } }

// WithLogger injects a logger. Queues are silent by default.
func WithLogger(l observability.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics records operation outcomes and queue depth into collector
func WithMetrics(collector observability.MetricsCollector) Option {
	return func(c *config) { c.metrics = collector }
}
