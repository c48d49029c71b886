package sapling

import "github.com/prometheus/client_golang/prometheus"

var nodesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sapling_nodes_total",
		Help: "number of tree nodes developed, by kind (leaf or internal)",
	}, []string{"kind"})

var degenerateSplitsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "sapling_degenerate_splits_total",
		Help: "number of splits that sent every sample of a node to the same side",
	})

func init() {
	prometheus.MustRegister(nodesTotal, degenerateSplitsTotal)
}
