package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewPrometheus(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		p := NewPrometheus(nil, "")

		require.NotNil(t, p)
		require.Equal(t, "stallwatch", p.namespace)
		require.Equal(t, prometheus.DefaultRegisterer, p.reg)
	})

	t.Run("nothing registered before first use", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		_ = NewPrometheus(reg, "test")

		families, err := reg.Gather()
		require.NoError(t, err)
		require.Empty(t, families)
	})
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.SetMonitoredWorkers(7)
	require.Equal(t, 7.0, testutil.ToFloat64(p.monitoredWorkers))

	p.IncrementDetection(false)
	p.IncrementDetection(false)
	p.IncrementDetection(true)
	require.Equal(t, 2.0, testutil.ToFloat64(p.detections.WithLabelValues("initial")))
	require.Equal(t, 1.0, testutil.ToFloat64(p.detections.WithLabelValues("re_report")))

	p.RecordCapture("ok")
	p.RecordCapture("timeout")
	require.Equal(t, 1.0, testutil.ToFloat64(p.captureResults.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(p.captureResults.WithLabelValues("timeout")))

	p.IncrementSinkError()
	require.Equal(t, 1.0, testutil.ToFloat64(p.sinkErrors))

	// Histograms only need to accept observations here.
	require.NotPanics(t, func() {
		p.ObserveScanDuration(0.001)
		p.ObserveCaptureLatency(0.002)
		p.ObserveBlockedDuration(0.150)
	})

	// All metric families land in the provided registry under the namespace.
	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
	for _, f := range families {
		require.Contains(t, f.GetName(), "test_")
	}
}

func TestPrometheusCollectorRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	// Repeated use must not attempt duplicate registration.
	require.NotPanics(t, func() {
		p.SetMonitoredWorkers(1)
		p.SetMonitoredWorkers(2)
		p.IncrementSinkError()
	})
}
