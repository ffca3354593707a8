package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dashboard service.
type Metrics struct {
	DatasetReady        prometheus.Gauge
	DatasetRecords      prometheus.Gauge
	DatasetLoadDuration prometheus.Histogram
	DatasetLoads        *prometheus.CounterVec // labels: outcome={success,error}
	DecodeAttempts      *prometheus.CounterVec // labels: encoding={cp949,euc-kr,utf-8,xlsx}, outcome={success,error}
	MalformedRegions    prometheus.Counter

	QueryRequests prometheus.Counter
	QueryDuration prometheus.Histogram
	QueryCache    *prometheus.CounterVec // labels: result={hit,miss}

	ExportRequests *prometheus.CounterVec // labels: format={csv,xlsx,png}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "accident_insight",
			Name:      "dataset_ready",
			Help:      "1 when the derived table is loaded and servable, 0 otherwise.",
		}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "accident_insight",
			Name:      "dataset_records",
			Help:      "Number of derived records in the cached table.",
		}),
		DatasetLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "accident_insight",
			Name:      "dataset_load_duration_seconds",
			Help:      "Duration of a complete load-decode-derive cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accident_insight",
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by outcome.",
		}, []string{"outcome"}),
		DecodeAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accident_insight",
			Name:      "decode_attempts_total",
			Help:      "Source file decode attempts by encoding and outcome.",
		}, []string{"encoding", "outcome"}),
		MalformedRegions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_insight",
			Name:      "derive_malformed_regions_total",
			Help:      "Records whose region label yielded no province token.",
		}),
		QueryRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_insight",
			Name:      "query_requests_total",
			Help:      "Filtered view computations requested by the UI or API.",
		}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "accident_insight",
			Name:      "query_duration_seconds",
			Help:      "Duration of a filter-aggregate cycle.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		QueryCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accident_insight",
			Name:      "query_cache_total",
			Help:      "Aggregate-result cache lookups by result.",
		}, []string{"result"}),
		ExportRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accident_insight",
			Name:      "export_requests_total",
			Help:      "Download requests by format.",
		}, []string{"format"}),
	}

	prometheus.MustRegister(
		m.DatasetReady,
		m.DatasetRecords,
		m.DatasetLoadDuration,
		m.DatasetLoads,
		m.DecodeAttempts,
		m.MalformedRegions,
		m.QueryRequests,
		m.QueryDuration,
		m.QueryCache,
		m.ExportRequests,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DatasetReady:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "accident_insight", Name: "dataset_ready"}),
		DatasetRecords:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "accident_insight", Name: "dataset_records"}),
		DatasetLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "accident_insight", Name: "dataset_load_duration_seconds"}),
		DatasetLoads:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "accident_insight", Name: "dataset_loads_total"}, []string{"outcome"}),
		DecodeAttempts:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "accident_insight", Name: "decode_attempts_total"}, []string{"encoding", "outcome"}),
		MalformedRegions:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "accident_insight", Name: "derive_malformed_regions_total"}),
		QueryRequests:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "accident_insight", Name: "query_requests_total"}),
		QueryDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "accident_insight", Name: "query_duration_seconds"}),
		QueryCache:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "accident_insight", Name: "query_cache_total"}, []string{"result"}),
		ExportRequests:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "accident_insight", Name: "export_requests_total"}, []string{"format"}),
	}
}
