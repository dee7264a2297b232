package bridge

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the bridge's prometheus collectors. Each Metrics has its own registry.
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	DeviceErrors    *prometheus.CounterVec
	Measurements    prometheus.Counter
	Monitoring      prometheus.Gauge
}

// NewMetrics creates and registers the bridge collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ut181a_bridge_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"route", "method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ut181a_bridge_request_duration_seconds",
			Help:    "HTTP request duration, including the device round trip",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		DeviceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ut181a_bridge_device_errors_total",
			Help: "Failed device operations by error kind",
		}, []string{"kind"}),
		Measurements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ut181a_bridge_measurements_total",
			Help: "Measurements fetched from the DMM",
		}),
		Monitoring: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ut181a_bridge_monitoring",
			Help: "1 while the DMM streams readings",
		}),
	}
	m.registry.MustRegister(
		m.Requests,
		m.RequestDuration,
		m.DeviceErrors,
		m.Measurements,
		m.Monitoring,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
