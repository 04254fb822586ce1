package websocket

import "github.com/prometheus/client_golang/prometheus"

var (
	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "quiz_relay_ws_connections",
			Help: "Current number of active websocket connections.",
		},
	)
	wsRooms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "quiz_relay_ws_rooms",
			Help: "Current number of rooms with at least one member.",
		},
	)
	wsEventsDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_relay_ws_events_delivered_total",
			Help: "Total events delivered to clients.",
		},
	)
	wsClientsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_relay_ws_clients_dropped_total",
			Help: "Clients dropped because their send buffer was full.",
		},
	)
)

func init() {
	prometheus.MustRegister(wsConnections, wsRooms, wsEventsDelivered, wsClientsDropped)
}

func incConnections() {
	wsConnections.Inc()
}

func decConnections() {
	wsConnections.Dec()
}

func setRooms(count int) {
	wsRooms.Set(float64(count))
}

func addDelivered(count int) {
	wsEventsDelivered.Add(float64(count))
}

func incDropped() {
	wsClientsDropped.Inc()
}
