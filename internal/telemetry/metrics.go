// Package telemetry defines the Prometheus collectors used by the
// relevance services. The engine core stays metric-free; instrumentation
// lives at the service boundary.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for relevanced.
type Metrics struct {
	registry *prometheus.Registry

	SearchesTotal      *prometheus.CounterVec
	SearchResultsCount prometheus.Histogram
	IndexRebuildsTotal prometheus.Counter
	IndexSize          prometheus.Gauge
	CompactionsTotal   *prometheus.CounterVec
	EntriesEvicted     prometheus.Counter
	RiskReportsTotal   prometheus.Counter
}

// New creates and registers all collectors on a private registry, so
// independent instances (one per test, typically) never collide.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relevanced_searches_total",
				Help: "Total relevance searches by kind (plain, boosted, keyword) and outcome (hit, empty).",
			},
			[]string{"kind", "outcome"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "relevanced_search_results_count",
				Help:    "Number of results returned per search.",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
			},
		),
		IndexRebuildsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "relevanced_index_rebuilds_total",
				Help: "Total relevance index rebuilds.",
			},
		),
		IndexSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "relevanced_index_documents",
				Help: "Documents in the current relevance index snapshot.",
			},
		),
		CompactionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relevanced_compactions_total",
				Help: "Log compaction runs by store (eventlog, patternbank).",
			},
			[]string{"store"},
		),
		EntriesEvicted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "relevanced_entries_evicted_total",
				Help: "Entries discarded by relevance-based compaction.",
			},
		),
		RiskReportsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "relevanced_risk_reports_total",
				Help: "Composite risk reports produced.",
			},
		),
	}

	m.registry.MustRegister(
		m.SearchesTotal,
		m.SearchResultsCount,
		m.IndexRebuildsTotal,
		m.IndexSize,
		m.CompactionsTotal,
		m.EntriesEvicted,
		m.RiskReportsTotal,
	)
	return m
}

// Registry exposes the underlying registry for scrape handlers.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
