package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RecomputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_recomputations_total",
			Help: "Total number of analytics computations requested",
		},
		[]string{"operation"},
	)

	RecomputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "journal_recompute_duration_seconds",
			Help:    "Analytics computation duration",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"operation"},
	)

	EmptyResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_empty_results_total",
			Help: "Computations that produced no data (no closed trades or an empty filter window)",
		},
		[]string{"operation"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_cache_lookups_total",
			Help: "Memoized analytics lookups by result",
		},
		[]string{"result"},
	)

	LedgerTradesLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "journal_ledger_trades",
			Help: "Trades returned by the last ledger load",
		},
		[]string{"source", "status"},
	)

	LedgerSkippedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_ledger_skipped_records_total",
			Help: "Ledger records that could not be parsed",
		},
		[]string{"source"},
	)
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
