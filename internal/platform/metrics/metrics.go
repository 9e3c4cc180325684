package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus collectors for the highlights service.
type Metrics struct {
	registry           *prometheus.Registry
	requestsTotal      prometheus.Counter
	errorsTotal        prometheus.Counter
	extractionsTotal   *prometheus.CounterVec
	extractionDuration prometheus.Histogram
	inFlight           prometheus.Gauge
	sweptFilesTotal    prometheus.Counter
}

// New creates and registers Prometheus metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hlgrab_http_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hlgrab_http_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	extractionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hlgrab_extractions_total",
		Help: "Highlight extractions by outcome (ok or failure kind)",
	}, []string{"result"})
	extractionDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hlgrab_extraction_duration_seconds",
		Help:    "Wall time of fetch plus extract",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hlgrab_extractions_in_flight",
		Help: "Extractions currently running",
	})
	sweptFilesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hlgrab_retention_removed_files_total",
		Help: "Files removed by the retention sweeper",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		extractionsTotal,
		extractionDuration,
		inFlight,
		sweptFilesTotal,
	)

	return &Metrics{
		registry:           registry,
		requestsTotal:      requestsTotal,
		errorsTotal:        errorsTotal,
		extractionsTotal:   extractionsTotal,
		extractionDuration: extractionDuration,
		inFlight:           inFlight,
		sweptFilesTotal:    sweptFilesTotal,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// ExtractionStarted marks one extraction in flight and returns the func
// that records its outcome.
func (m *Metrics) ExtractionStarted() func(result string) {
	start := time.Now()
	m.inFlight.Inc()
	return func(result string) {
		m.inFlight.Dec()
		m.extractionsTotal.WithLabelValues(result).Inc()
		m.extractionDuration.Observe(time.Since(start).Seconds())
	}
}

// AddSwept records files removed by the retention sweeper.
func (m *Metrics) AddSwept(n int) {
	m.sweptFilesTotal.Add(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
