package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ticksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tickbridge_ticks_total",
			Help: "Total number of dispatcher ticks.",
		},
	)

	firedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickbridge_continuations_fired_total",
			Help: "Total number of continuations fired, by kind.",
		},
		[]string{"kind"},
	)

	panicsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tickbridge_continuation_panics_total",
			Help: "Total number of continuation panics recovered at the dispatcher boundary.",
		},
	)

	drainedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tickbridge_work_drained_total",
			Help: "Total number of cross-goroutine work items drained.",
		},
	)

	pendingItems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tickbridge_pending_items",
			Help: "Currently pending items, by kind.",
		},
		[]string{"kind"},
	)
)

const (
	kindWork  = "work"
	kindWatch = "watch"
	kindTimer = "timer"
	kindFrame = "frame"
)

func init() {
	prometheus.MustRegister(ticksTotal)
	prometheus.MustRegister(firedTotal)
	prometheus.MustRegister(panicsTotal)
	prometheus.MustRegister(drainedTotal)
	prometheus.MustRegister(pendingItems)
}
