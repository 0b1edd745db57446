package types

// Logger is the structured logging interface used across the detector's
// components. Messages carry alternating key-value pairs, so any kv-style
// logger (log/slog, zap's SugaredLogger) adapts with a thin wrapper.
//
// The detector logs from its monitor and capture goroutines concurrently;
// implementations must be safe for concurrent use.
type Logger interface {
	// Debug logs fine-grained diagnostics: worker churn, skipped captures,
	// superseded sequences.
	Debug(msg string, keysAndValues ...any)

	// Info logs lifecycle events such as detector start/stop and worker
	// recovery.
	Info(msg string, keysAndValues ...any)

	// Warn logs detections and degraded operations (capture timeouts, sink
	// failures). This is the level operators typically alert on.
	Warn(msg string, keysAndValues ...any)

	// Error logs component failures the detector survives, such as a
	// panicking event sink.
	Error(msg string, keysAndValues ...any)

	// Fatal logs an unrecoverable condition and terminates the process.
	// Implementations that must not exit (tests, embedded use) may treat it
	// as Error; the detector itself never calls Fatal.
	Fatal(msg string, keysAndValues ...any)
}
