package boardsync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskboard",
			Subsystem: "sync",
			Name:      "cache_reads_total",
			Help:      "Cache reads by outcome: hit, stale or miss",
		},
		[]string{"outcome"},
	)

	refetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "taskboard",
			Subsystem: "sync",
			Name:      "refetch_failures_total",
			Help:      "Background refetches that failed and kept serving stale data",
		},
	)

	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskboard",
			Subsystem: "sync",
			Name:      "mutations_total",
			Help:      "Mutations by operation and result",
		},
		[]string{"op", "result"},
	)
)
