package observability

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/a2y-d5l/go-monitor/wait"
)

// MetricType represents the type of metric
type MetricType int

const (
	// Counter metrics only increase
	Counter MetricType = iota
	// Gauge metrics can go up or down
	Gauge
	// Histogram metrics track distributions
	Histogram
)

func (t MetricType) String() string {
	switch t {
	case Counter:
		return "counter"
	case Gauge:
		return "gauge"
	case Histogram:
		return "histogram"
	default:
		return "unknown"
	}
}

// MarshalText renders the type by name in JSON and YAML reports
func (t MetricType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Metric represents a single metric series. For histograms Value is the sum
// of observations and Count their number.
type Metric struct {
	Name      string            `json:"name" yaml:"name"`
	Type      MetricType        `json:"type" yaml:"type"`
	Value     float64           `json:"value" yaml:"value"`
	Count     uint64            `json:"count,omitempty" yaml:"count,omitempty"`
	Labels    map[string]string `json:"labels" yaml:"labels"`
	Timestamp time.Time         `json:"timestamp" yaml:"timestamp"`
}

// MetricsCollector defines the contract for metrics collection
type MetricsCollector interface {
	IncrementCounter(name string, labels map[string]string)
	IncrementCounterBy(name string, value float64, labels map[string]string)

	SetGauge(name string, value float64, labels map[string]string)

	RecordHistogram(name string, value float64, labels map[string]string)

	GetMetrics() []Metric
	GetMetric(name string, labels map[string]string) (*Metric, bool)

	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// InMemoryMetricsCollector is a simple in-memory metrics collector. It records
// from construction on; Start and Stop exist to satisfy MetricsCollector and do
// not gate recording.
type InMemoryMetricsCollector struct {
	mu      sync.RWMutex
	metrics map[string]*Metric
}

// NewInMemoryMetricsCollector creates a new in-memory metrics collector
func NewInMemoryMetricsCollector() *InMemoryMetricsCollector {
	return &InMemoryMetricsCollector{
		metrics: make(map[string]*Metric),
	}
}

// IncrementCounter increments a counter metric by 1
func (c *InMemoryMetricsCollector) IncrementCounter(name string, labels map[string]string) {
	c.IncrementCounterBy(name, 1.0, labels)
}

// IncrementCounterBy increments a counter metric by the specified value
func (c *InMemoryMetricsCollector) IncrementCounterBy(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	metric := c.series(name, Counter, labels)
	metric.Value += value
	metric.Timestamp = time.Now()
}

// SetGauge sets a gauge metric to the specified value
func (c *InMemoryMetricsCollector) SetGauge(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	metric := c.series(name, Gauge, labels)
	metric.Value = value
	metric.Timestamp = time.Now()
}

// RecordHistogram adds an observation to a histogram metric
func (c *InMemoryMetricsCollector) RecordHistogram(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	metric := c.series(name, Histogram, labels)
	metric.Value += value
	metric.Count++
	metric.Timestamp = time.Now()
}

// GetMetrics returns a copy of every series, ordered by key
func (c *InMemoryMetricsCollector) GetMetrics() []Metric {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := slices.Sorted(maps.Keys(c.metrics))
	metrics := make([]Metric, 0, len(keys))
	for _, k := range keys {
		m := *c.metrics[k]
		m.Labels = copyLabels(m.Labels)
		metrics = append(metrics, m)
	}
	return metrics
}

// GetMetric returns a copy of a specific series
func (c *InMemoryMetricsCollector) GetMetric(name string, labels map[string]string) (*Metric, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	metric, exists := c.metrics[metricKey(name, labels)]
	if !exists {
		return nil, false
	}

	m := *metric
	m.Labels = copyLabels(metric.Labels)
	return &m, true
}

// Start is a no-op; the collector has nothing to flush or export
func (c *InMemoryMetricsCollector) Start(ctx context.Context) error {
	return nil
}

// Stop is a no-op. Series recorded before or after Stop stay readable.
func (c *InMemoryMetricsCollector) Stop(ctx context.Context) error {
	return nil
}

// series returns the metric for name and labels, creating it if needed.
// Must be called with c.mu held.
func (c *InMemoryMetricsCollector) series(name string, typ MetricType, labels map[string]string) *Metric {
	key := metricKey(name, labels)
	metric, exists := c.metrics[key]
	if !exists {
		metric = &Metric{
			Name:   name,
			Type:   typ,
			Labels: copyLabels(labels),
		}
		c.metrics[key] = metric
	}
	return metric
}

// metricKey generates a stable key from name and sorted labels
func metricKey(name string, labels map[string]string) string {
	var sb strings.Builder
	sb.WriteString(name)
	for _, k := range slices.Sorted(maps.Keys(labels)) {
		sb.WriteString(":")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(labels[k])
	}
	return sb.String()
}

func copyLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}
	return maps.Clone(labels)
}

// Metric names recorded by PrimitiveMetrics
const (
	OperationsTotal = "monitor_operations_total"
	WaitDurationMs  = "monitor_wait_duration_ms"
	QueueDepthGauge = "monitor_queue_depth"
	ResetsTotal     = "monitor_resets_total"
)

// PrimitiveMetrics records standard metrics for one primitive instance. A nil
// *PrimitiveMetrics records nothing.
type PrimitiveMetrics struct {
	collector MetricsCollector
	primitive string
	name      string
}

// NewPrimitiveMetrics binds collector to a primitive kind and instance name.
// It returns nil when collector is nil.
func NewPrimitiveMetrics(collector MetricsCollector, primitive, name string) *PrimitiveMetrics {
	if collector == nil {
		return nil
	}
	return &PrimitiveMetrics{collector: collector, primitive: primitive, name: name}
}

// RecordOperation counts an operation by outcome and records how long it took
func (m *PrimitiveMetrics) RecordOperation(op string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.collector.IncrementCounter(OperationsTotal, map[string]string{
		"primitive": m.primitive,
		"name":      m.name,
		"op":        op,
		"outcome":   wait.OutcomeOf(err).String(),
	})
	m.collector.RecordHistogram(WaitDurationMs, float64(elapsed.Nanoseconds())/1e6, map[string]string{
		"primitive": m.primitive,
		"name":      m.name,
		"op":        op,
	})
}

// RecordDepth records the current queue depth
func (m *PrimitiveMetrics) RecordDepth(depth int) {
	if m == nil {
		return
	}
	m.collector.SetGauge(QueueDepthGauge, float64(depth), map[string]string{"name": m.name})
}

// RecordReset counts a reset of the primitive
func (m *PrimitiveMetrics) RecordReset() {
	if m == nil {
		return
	}
	m.collector.IncrementCounter(ResetsTotal, map[string]string{
		"primitive": m.primitive,
		"name":      m.name,
	})
}
