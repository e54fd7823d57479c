package broadcast

import "github.com/prometheus/client_golang/prometheus"

var (
	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pntools",
			Subsystem: "broadcast",
			Name:      "dispatch_total",
			Help:      "Notifications sent to non-empty channels",
		},
		[]string{"namespace", "timing"},
	)

	listenerErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pntools",
			Subsystem: "broadcast",
			Name:      "listener_errors_total",
			Help:      "Listener errors that aborted a dispatch",
		},
		[]string{"namespace"},
	)

	duplicateReceiversTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pntools",
			Subsystem: "broadcast",
			Name:      "duplicate_receivers_total",
			Help:      "Rejected duplicate receiver registrations",
		},
		[]string{"namespace"},
	)
)

func init() {
	prometheus.MustRegister(dispatchTotal, listenerErrorsTotal, duplicateReceiversTotal)
}
