package event

import "github.com/a2y-d5l/go-monitor/observability"

// Option configures a Group
type Option func(*config)

type config struct {
	name    string
	log     observability.Logger
	metrics observability.MetricsCollector
}

func defaultConfig() config {
	return config{
		name: "event",
		log:  observability.Discard(),
	}
}

// WithName labels the group in logs and metrics (default "event")
func WithName(name string) Option { return func(c *config) { c.name = name } }

// WithLogger injects a logger. Groups are silent by default.
func WithLogger(l observability.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics records operation outcomes into collector
func WithMetrics(collector observability.MetricsCollector) Option {
	return func(c *config) { c.metrics = collector }
}
