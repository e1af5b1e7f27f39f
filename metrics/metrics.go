// Package metrics provides the Prometheus metrics of the destination API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "destination_api"

// Recorder owns a registry so that tests and the server never share global
// collectors.
type Recorder struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	destinationWrites   *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint, method and status code.",
		}, []string{"endpoint", "method", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by endpoint, method and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "method", "status"}),
		destinationWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "destination_writes_total",
			Help:      "Successful destination mutations by operation.",
		}, []string{"operation"}),
	}
}

func (r *Recorder) RecordHTTPRequest(endpoint, method, status string, seconds float64) {
	r.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	r.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(seconds)
}

// RecordWrite counts a committed create, update or delete.
func (r *Recorder) RecordWrite(operation string) {
	r.destinationWrites.WithLabelValues(operation).Inc()
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
