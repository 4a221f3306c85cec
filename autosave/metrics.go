package autosave

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_autosave_transitions_total",
		Help: "Autosave state transitions by target state",
	}, []string{"state"})

	writesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_autosave_writes_total",
		Help: "Snapshot writes by result",
	}, []string{"result"})

	writeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "workflow_autosave_write_duration_seconds",
		Help:    "Time to write a snapshot to the sink",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1},
	})

	blockedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workflow_autosave_blocked_total",
		Help: "Cycles skipped because the graph had validation errors",
	})
)
