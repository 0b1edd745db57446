package stallwatch

// Option configures a Detector with optional dependencies.
type Option func(*detectorOptions)

// detectorOptions holds optional Detector configuration.
type detectorOptions struct {
	logger  Logger
	metrics MetricsCollector
	sinks   []EventSink
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	logger := myZapLogger.Sugar()
//	det, err := stallwatch.New(&cfg, stallwatch.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *detectorOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	collector := myPrometheusCollector
//	det, err := stallwatch.New(&cfg, stallwatch.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *detectorOptions) {
		o.metrics = metrics
	}
}

// WithSinks registers detection event sinks.
//
// Sinks are invoked in registration order from the monitor goroutine; each
// sink's errors and panics are isolated from the others. May be passed
// multiple times; sinks accumulate.
//
// Parameters:
//   - sinks: EventSink implementations
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	ch := sink.NewChannel(128)
//	det, err := stallwatch.New(&cfg, stallwatch.WithSinks(ch, sink.NewLog(logger)))
func WithSinks(sinks ...EventSink) Option {
	return func(o *detectorOptions) {
		o.sinks = append(o.sinks, sinks...)
	}
}
