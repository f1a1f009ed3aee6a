// Package observability provides structured logging and metrics for the
// monitor primitives.
//
// # Structured Logging
//
// Logging is built on log/slog. Primitives are silent by default; inject a
// logger to see lifecycle events such as reset and destroy:
//
//	logger := observability.NewLogger(observability.LoggerConfig{
//		Level:  slog.LevelDebug,
//		Format: observability.JSON,
//		Output: os.Stdout,
//	})
//
//	q, err := mqueue.New(64, 16, mqueue.WithName("ingest"), mqueue.WithLogger(logger))
//
// For very chatty debug output, sampling caps the volume:
//
//	observability.LoggerConfig{
//		Level: slog.LevelDebug,
//		Sampling: &observability.SamplingConfig{
//			Enabled:      true,
//			Rate:         0.1,
//			MaxPerSecond: 100,
//		},
//	}
//
// # Metrics
//
// MetricsCollector is a small counter/gauge/histogram contract with an
// in-memory implementation. PrimitiveMetrics records
// monitor_operations_total by operation and outcome,
// monitor_wait_duration_ms, monitor_queue_depth and monitor_resets_total.
package observability
