// Package metrics declares the node's prometheus instrumentation,
// mirroring quidnug's promauto package-level var block.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tangled_transactions_total",
		Help: "Total number of transactions processed, by outcome",
	}, []string{"outcome"})

	TipSetSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tangled_tip_set_size",
		Help: "Current number of tips in the tangle",
	})

	NodeCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tangled_node_count",
		Help: "Current number of transactions in the tangle",
	})

	MiningDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tangled_mining_duration_seconds",
		Help:    "Duration of successful proof-of-work mining attempts",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})

	ConnectedPeers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tangled_connected_peers",
		Help: "Current number of connected peers",
	})
)

// RecordAdded increments the outcome counter for a transaction that
// finished processing through the engine.
func RecordAdded(outcome string) {
	TransactionsTotal.WithLabelValues(outcome).Inc()
}

// RecordMined observes how long a successful Mine call took.
func RecordMined(d time.Duration) {
	MiningDuration.Observe(d.Seconds())
}
