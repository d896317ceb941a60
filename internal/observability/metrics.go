package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "climate_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for one ETL run.
type Metrics struct {
	FilesParsed     *prometheus.CounterVec // labels: format
	RecordsParsed   *prometheus.CounterVec // labels: format
	BlankLines      prometheus.Counter
	RaggedRows      prometheus.Counter
	IDSubstitutions prometheus.Counter
	DatasetsEmitted prometheus.Gauge
	CitiesResolved  prometheus.Gauge
	PipelineRunning prometheus.Gauge

	ParseDuration *prometheus.HistogramVec // labels: format
	RunDuration   prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.FilesParsed,
		m.RecordsParsed,
		m.BlankLines,
		m.RaggedRows,
		m.IDSubstitutions,
		m.DatasetsEmitted,
		m.CitiesResolved,
		m.PipelineRunning,
		m.ParseDuration,
		m.RunDuration,
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
		FilesParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_parsed_total",
			Help:      "Source files parsed, by format.",
		}, []string{"format"}),
		RecordsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_parsed_total",
			Help:      "Station rows parsed, by format.",
		}, []string{"format"}),
		BlankLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blank_lines_total",
			Help:      "Blank lines skipped after file headers.",
		}),
		RaggedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ragged_rows_total",
			Help:      "Comma-delimited normals rows without exactly twelve monthly values.",
		}),
		IDSubstitutions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "id_substitutions_total",
			Help:      "Rows whose station id was replaced by an earlier id for the same city.",
		}),
		DatasetsEmitted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "datasets_emitted",
			Help:      "Datasets in the last assembled document.",
		}),
		CitiesResolved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cities_resolved",
			Help:      "Distinct cities seen in the last run.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
		ParseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time to read and parse one source file.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"format"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete assemble-and-load run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}
}
