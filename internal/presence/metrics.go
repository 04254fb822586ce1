package presence

import "github.com/prometheus/client_golang/prometheus"

var presenceFailures = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "quiz_relay_presence_failures_total",
		Help: "Presence updates that could not be delivered to the backend.",
	},
)

func init() {
	prometheus.MustRegister(presenceFailures)
}

func incFailures() {
	presenceFailures.Inc()
}
