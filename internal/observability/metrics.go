package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Dataset loading.
	DatasetLoads        *prometheus.CounterVec // labels: outcome={success,error}
	DatasetLoadDuration prometheus.Histogram
	DatasetRecords      *prometheus.GaugeVec   // labels: dataset={counties,wildfires,landslides}, stage={raw,prepared}
	RemoteFetches       *prometheus.CounterVec // labels: dataset, outcome={success,error}
	RemoteFetchDuration *prometheus.HistogramVec

	// Rendering.
	Renders         *prometheus.CounterVec // labels: surface={page,api,cli}
	RenderDuration  prometheus.Histogram
	VisibleFeatures *prometheus.HistogramVec // labels: layer={counties,wildfires,landslides}

	ActiveSessions prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DatasetLoads,
		m.DatasetLoadDuration,
		m.DatasetRecords,
		m.RemoteFetches,
		m.RemoteFetchDuration,
		m.Renders,
		m.RenderDuration,
		m.VisibleFeatures,
		m.ActiveSessions,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_dashboard",
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by outcome.",
		}, []string{"outcome"}),
		DatasetLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hazard_dashboard",
			Name:      "dataset_load_duration_seconds",
			Help:      "Duration of a full three-dataset load.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		DatasetRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hazard_dashboard",
			Name:      "dataset_records",
			Help:      "Records per dataset before and after cleaning and sampling.",
		}, []string{"dataset", "stage"}),
		RemoteFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_dashboard",
			Name:      "remote_fetches_total",
			Help:      "Remote file fetches by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		RemoteFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hazard_dashboard",
			Name:      "remote_fetch_duration_seconds",
			Help:      "Remote file fetch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"dataset"}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_dashboard",
			Name:      "renders_total",
			Help:      "Full map rebuilds by surface.",
		}, []string{"surface"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hazard_dashboard",
			Name:      "render_duration_seconds",
			Help:      "Duration of a filter-and-render pass.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
		VisibleFeatures: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hazard_dashboard",
			Name:      "visible_features",
			Help:      "Features drawn per layer in a render pass.",
			Buckets:   []float64{0, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"layer"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hazard_dashboard",
			Name:      "active_sessions",
			Help:      "Sessions currently holding filter state.",
		}),
	}
}
