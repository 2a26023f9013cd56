package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "parking_dashboard"

// Metrics holds the Prometheus collectors for dataset loading, rendering, and sessions.
type Metrics struct {
	PageRenders *prometheus.CounterVec // labels: outcome={success,error}
	ViewCache   *prometheus.CounterVec // labels: result={hit,miss}

	// Dataset loading metrics.
	DatasetLoadDuration *prometheus.HistogramVec // labels: dataset={geo,monthly,hourly}
	DatasetRows         *prometheus.GaugeVec     // labels: dataset
	DatasetLoadErrors   *prometheus.CounterVec   // labels: dataset

	ActiveSessions prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates all dashboard metrics and registers them with reg.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	m := newMetrics()

	reg.MustRegister(
		m.PageRenders,
		m.ViewCache,
		m.DatasetLoadDuration,
		m.DatasetRows,
		m.DatasetLoadErrors,
		m.ActiveSessions,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PageRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_renders_total",
			Help:      "Dashboard page renders by outcome.",
		}, []string{"outcome"}),
		ViewCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_cache_total",
			Help:      "Session view cache lookups by result.",
		}, []string{"result"}),
		DatasetLoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Time spent reading and validating a dataset.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}, []string{"dataset"}),
		DatasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Number of records in the most recently loaded dataset.",
		}, []string{"dataset"}),
		DatasetLoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_load_errors_total",
			Help:      "Dataset loads that failed with a missing or malformed table.",
		}, []string{"dataset"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently holding a view cache.",
		}),
	}
}
