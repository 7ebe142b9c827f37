package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	recordOps        *prometheus.CounterVec
}

// New creates a registry with the Go/process collectors and the service metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_journal_upstream_requests_total",
			Help: "Outbound requests to weather/geocoding providers by service and outcome.",
		}, []string{"service", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "weather_journal_upstream_request_duration_seconds",
			Help:    "Latency of outbound provider requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
		recordOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_journal_record_operations_total",
			Help: "Record store operations by kind and result.",
		}, []string{"op", "result"}),
	}
	reg.MustRegister(m.upstreamRequests, m.upstreamLatency, m.recordOps)
	return m
}

// ObserveUpstream records one outbound call. outcome is e.g. "ok", "status_4xx", "error".
func (m *Metrics) ObserveUpstream(service, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(service, outcome).Inc()
	m.upstreamLatency.WithLabelValues(service).Observe(elapsed.Seconds())
}

// RecordOp counts a record store operation.
func (m *Metrics) RecordOp(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.recordOps.WithLabelValues(op, result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
