package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/stallkit/stallwatch/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Metric registration is deferred until first use so a collector can be
// constructed before the registry is final, and constructing one that is
// never exercised registers nothing.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	monitoredWorkers prometheus.Gauge
	scanDuration     prometheus.Histogram
	detections       *prometheus.CounterVec
	captureResults   *prometheus.CounterVec
	captureLatency   prometheus.Histogram
	blockedDuration  prometheus.Histogram
	sinkErrors       prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "stallwatch" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "stallwatch"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.monitoredWorkers = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "monitor",
			Name:      "workers_current",
			Help:      "Current number of registered workers under monitoring.",
		})

		p.scanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "monitor",
			Name:      "scan_duration_seconds",
			Help:      "Duration of one monitor scan in seconds, including capture waits.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 14), // 50us .. ~400ms
		})

		p.detections = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "monitor",
			Name:      "detections_total",
			Help:      "Total detection events emitted, by kind (initial|re_report).",
		}, []string{"kind"})

		p.captureResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "capture",
			Name:      "results_total",
			Help:      "Total stack capture outcomes (ok|timeout).",
		}, []string{"result"})

		p.captureLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "capture",
			Name:      "latency_seconds",
			Help:      "Latency of completed stack captures in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 100us .. ~400ms
		})

		p.blockedDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "monitor",
			Name:      "blocked_duration_seconds",
			Help:      "Blocked duration of reported workers in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms .. ~200s
		})

		p.sinkErrors = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "monitor",
			Name:      "sink_errors_total",
			Help:      "Total event sink failures and panics.",
		})

		p.reg.MustRegister(p.monitoredWorkers)
		p.reg.MustRegister(p.scanDuration)
		p.reg.MustRegister(p.detections)
		p.reg.MustRegister(p.captureResults)
		p.reg.MustRegister(p.captureLatency)
		p.reg.MustRegister(p.blockedDuration)
		p.reg.MustRegister(p.sinkErrors)
	})
}

// SetMonitoredWorkers sets the registered worker gauge.
func (p *PrometheusCollector) SetMonitoredWorkers(count int) {
	p.ensureRegistered()
	p.monitoredWorkers.Set(float64(count))
}

// ObserveScanDuration observes one scan's duration.
func (p *PrometheusCollector) ObserveScanDuration(seconds float64) {
	p.ensureRegistered()
	p.scanDuration.Observe(seconds)
}

// IncrementDetection counts an emitted detection event by kind.
func (p *PrometheusCollector) IncrementDetection(reReport bool) {
	p.ensureRegistered()
	kind := "initial"
	if reReport {
		kind = "re_report"
	}
	p.detections.WithLabelValues(kind).Inc()
}

// RecordCapture counts a capture outcome.
func (p *PrometheusCollector) RecordCapture(result string) {
	p.ensureRegistered()
	p.captureResults.WithLabelValues(result).Inc()
}

// ObserveCaptureLatency observes a completed capture's latency.
func (p *PrometheusCollector) ObserveCaptureLatency(seconds float64) {
	p.ensureRegistered()
	p.captureLatency.Observe(seconds)
}

// ObserveBlockedDuration observes a reported worker's blocked duration.
func (p *PrometheusCollector) ObserveBlockedDuration(seconds float64) {
	p.ensureRegistered()
	p.blockedDuration.Observe(seconds)
}

// IncrementSinkError counts a sink failure.
func (p *PrometheusCollector) IncrementSinkError() {
	p.ensureRegistered()
	p.sinkErrors.Inc()
}
