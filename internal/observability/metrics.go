package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hazard_risk"

// Metrics holds the Prometheus collectors for the refresh pipeline.
type Metrics struct {
	RefreshCycles    *prometheus.CounterVec // labels: outcome={committed,stale,cancelled}
	RefreshCoalesced prometheus.Counter
	RefreshDuration  prometheus.Histogram
	RefreshLoading   prometheus.Gauge

	FetchDuration *prometheus.HistogramVec // labels: source
	FetchRecords  *prometheus.CounterVec   // labels: source
	FetchFailures *prometheus.CounterVec   // labels: source

	SnapshotRecords prometheus.Gauge
	ActiveRisk      prometheus.Gauge

	ArchiveInserts prometheus.Counter
	ArchiveErrors  prometheus.Counter

	GeocodeCache *prometheus.CounterVec // labels: result={hit,miss}

	StreamSubscribers prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting returns unregistered metrics so tests can create as
// many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RefreshCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_cycles_total",
			Help:      "Refresh cycles by outcome.",
		}, []string{"outcome"}),
		RefreshCoalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_coalesced_total",
			Help:      "Refresh triggers that joined an in-flight cycle.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a full fetch-merge-annotate cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}),
		RefreshLoading: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "refresh_loading",
			Help:      "1 while a refresh cycle is in flight.",
		}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Hazard feed request duration by source.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"source"}),
		FetchRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_records_total",
			Help:      "Records produced by each hazard feed.",
		}, []string{"source"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Hazard feed fetches that failed and were replaced by an empty result.",
		}, []string{"source"}),
		SnapshotRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_records",
			Help:      "Records in the committed snapshot.",
		}),
		ActiveRisk: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_alert_risk",
			Help:      "Risk score of the active alert, 0 when there is none.",
		}),
		ArchiveInserts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_inserts_total",
			Help:      "First-seen records written to the archive.",
		}),
		ArchiveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_errors_total",
			Help:      "Archive writes that failed.",
		}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Reverse geocoding cache lookups by result.",
		}, []string{"result"}),
		StreamSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_subscribers",
			Help:      "Connected server-sent event clients.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RefreshCycles,
		m.RefreshCoalesced,
		m.RefreshDuration,
		m.RefreshLoading,
		m.FetchDuration,
		m.FetchRecords,
		m.FetchFailures,
		m.SnapshotRecords,
		m.ActiveRisk,
		m.ArchiveInserts,
		m.ArchiveErrors,
		m.GeocodeCache,
		m.StreamSubscribers,
	}
}
