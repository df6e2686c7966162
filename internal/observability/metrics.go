package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rainfall_recurrence"

// Metrics holds the Prometheus collectors for one analysis run. A run is a
// short-lived batch job, so the values are written to a node-exporter
// textfile instead of being scraped.
type Metrics struct {
	ObservationsRead   prometheus.Counter
	YearsAnalyzed      prometheus.Gauge
	SelectionFallbacks prometheus.Counter
	AnalysisFailures   *prometheus.CounterVec // labels: kind={input,fit_degenerate,fit_failure,...}
	Exports            *prometheus.CounterVec // labels: exporter, outcome={success,error}

	// Fitted distribution of the last successful run.
	GumbelLocation prometheus.Gauge
	GumbelScale    prometheus.Gauge

	RunDuration prometheus.Gauge
	LastSuccess prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates the run metrics on a dedicated registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ObservationsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observations_read_total",
			Help:      "Periodic rainfall observations read from the input workbook.",
		}),
		YearsAnalyzed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "years_analyzed",
			Help:      "Number of annual totals in the last analysis.",
		}),
		SelectionFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_fallbacks_total",
			Help:      "Runs where an invalid year selection fell back to all years.",
		}),
		AnalysisFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_failures_total",
			Help:      "Aborted runs by failure kind.",
		}, []string{"kind"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Exporter invocations by exporter and outcome.",
		}, []string{"exporter", "outcome"}),
		GumbelLocation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gumbel_location",
			Help:      "Fitted Gumbel location parameter (mm).",
		}),
		GumbelScale: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gumbel_scale",
			Help:      "Fitted Gumbel scale parameter (mm).",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ObservationsRead,
		m.YearsAnalyzed,
		m.SelectionFallbacks,
		m.AnalysisFailures,
		m.Exports,
		m.GumbelLocation,
		m.GumbelScale,
		m.RunDuration,
		m.LastSuccess,
	}
}

// WriteTextfile writes the registered metrics in the text exposition format
// for the node-exporter textfile collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(m.collectors()...)
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
