package metrics

import "github.com/stallkit/stallwatch/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	det, err := stallwatch.New(&cfg, stallwatch.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// SetMonitoredWorkers discards the worker gauge update.
func (n *NopMetrics) SetMonitoredWorkers(_ /* count */ int) {
	// No-op
}

// ObserveScanDuration discards the scan duration observation.
func (n *NopMetrics) ObserveScanDuration(_ /* seconds */ float64) {
	// No-op
}

// IncrementDetection discards the detection count.
func (n *NopMetrics) IncrementDetection(_ /* reReport */ bool) {
	// No-op
}

// RecordCapture discards the capture outcome.
func (n *NopMetrics) RecordCapture(_ /* result */ string) {
	// No-op
}

// ObserveCaptureLatency discards the capture latency observation.
func (n *NopMetrics) ObserveCaptureLatency(_ /* seconds */ float64) {
	// No-op
}

// ObserveBlockedDuration discards the blocked duration observation.
func (n *NopMetrics) ObserveBlockedDuration(_ /* seconds */ float64) {
	// No-op
}

// IncrementSinkError discards the sink error count.
func (n *NopMetrics) IncrementSinkError() {
	// No-op
}
