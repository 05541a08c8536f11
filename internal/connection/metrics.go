package connection

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	classifiedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "editor_connections_classified_total",
		Help: "Connection gestures classified, by rule kind.",
	}, []string{"rule"})

	appliedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "editor_connections_applied_total",
		Help: "Connection gestures applied, by rule kind.",
	}, []string{"rule"})

	rejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "editor_connections_rejected_total",
		Help: "Connection gestures rejected or unmatched.",
	})
)
