package types

// MetricsCollector receives instrumentation from the detector's components.
//
// Methods are invoked from the monitor goroutine (scans, detections, the
// worker gauge) and the capture goroutine (capture latency), so
// implementations must be safe for concurrent use and must not block.
//
// The detector falls back to a no-op collector when none is supplied;
// provide a custom implementation via WithMetrics to export the counters
// and histograms to your metrics system.
type MetricsCollector interface {
	// SetMonitoredWorkers sets the current number of registered workers.
	SetMonitoredWorkers(count int)

	// ObserveScanDuration observes one monitor scan's duration in seconds,
	// including any bounded capture wait performed during the scan.
	ObserveScanDuration(seconds float64)

	// IncrementDetection counts an emitted detection event.
	// reReport distinguishes periodic re-reports of an ongoing stall.
	IncrementDetection(reReport bool)

	// RecordCapture counts a stack capture outcome ("ok" or "timeout").
	RecordCapture(result string)

	// ObserveCaptureLatency observes the latency of a completed capture in seconds.
	ObserveCaptureLatency(seconds float64)

	// ObserveBlockedDuration observes a reported worker's blocked duration in seconds.
	ObserveBlockedDuration(seconds float64)

	// IncrementSinkError counts a sink callback failure or panic.
	IncrementSinkError()
}
