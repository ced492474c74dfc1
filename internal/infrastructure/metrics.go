package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors the application exposes.
type Metrics struct {
	registry *prometheus.Registry

	PipelineRuns  *prometheus.CounterVec
	RowsProcessed prometheus.Counter
	KPIRequests   *prometheus.CounterVec
	RunDuration   prometheus.Histogram
}

// NewMetrics creates the collectors on a private registry so tests can
// build isolated instances.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		PipelineRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ficaetl",
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		RowsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ficaetl",
			Name:      "rows_processed_total",
			Help:      "Source rows accepted after course filtering.",
		}),
		KPIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ficaetl",
			Name:      "kpi_requests_total",
			Help:      "KPI calculations requested, by indicator id.",
		}, []string{"kpi"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ficaetl",
			Name:      "pipeline_run_duration_seconds",
			Help:      "Wall-clock duration of full pipeline runs.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
