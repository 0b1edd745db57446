package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewNop(t *testing.T) {
	metrics := NewNop()

	require.NotNil(t, metrics)
	require.IsType(t, &NopMetrics{}, metrics)
}

func TestNopMetrics_AllMethods(t *testing.T) {
	metrics := NewNop()

	// Should not panic with various inputs
	require.NotPanics(t, func() {
		metrics.SetMonitoredWorkers(10)
		metrics.SetMonitoredWorkers(0)
		metrics.SetMonitoredWorkers(-1)
		metrics.ObserveScanDuration(0.001)
		metrics.ObserveScanDuration(0)
		metrics.IncrementDetection(true)
		metrics.IncrementDetection(false)
		metrics.RecordCapture("ok")
		metrics.RecordCapture("timeout")
		metrics.RecordCapture("")
		metrics.ObserveCaptureLatency(0.5)
		metrics.ObserveBlockedDuration(120.0)
		metrics.IncrementSinkError()
	})
}

func BenchmarkNopMetrics_IncrementDetection(b *testing.B) {
	metrics := NewNop()
	for b.Loop() {
		metrics.IncrementDetection(false)
	}
}

func BenchmarkNopMetrics_ObserveScanDuration(b *testing.B) {
	metrics := NewNop()
	for b.Loop() {
		metrics.ObserveScanDuration(0.001)
	}
}
