package api

import (
	"fmt"
	"net/http"

	"quiz-relay-backend/internal/queue"
	"quiz-relay-backend/internal/websocket"

	"github.com/prometheus/client_golang/prometheus"
)

type RouteRegistrar func(mux *http.ServeMux, s *APIServer)

// Config carries the startup settings the HTTP server and its routes need.
// Values are read once from the environment in main; there is no reload.
type Config struct {
	ListenAddr    string
	AllowedOrigin string
	ControlSecret string
}

type APIServer struct {
	config              Config
	requestQueueManager *queue.RequestQueueManager
	routeRegistrars     []RouteRegistrar
	handler             *websocket.Handler
	metrics             *metrics
}

func NewAPIServer(config Config, rqm *queue.RequestQueueManager, handler *websocket.Handler, registrars ...RouteRegistrar) *APIServer {
	return &APIServer{
		config:              config,
		requestQueueManager: rqm,
		handler:             handler,
		routeRegistrars:     registrars,
		metrics:             newMetrics(prometheus.DefaultRegisterer, config.ListenAddr, rqm),
	}
}

func (s *APIServer) Run() {
	mux := http.NewServeMux()

	for _, reg := range s.routeRegistrars {
		reg(mux, s)
	}

	mux.Handle("/metrics", s.metrics.metricsHandler())

	fmt.Printf("Relay listening on http://localhost%s\n", s.config.ListenAddr)

	if err := http.ListenAndServe(s.config.ListenAddr, s.metrics.instrument(mux)); err != nil {
		fmt.Printf("server stopped: %v\n", err)
	}
}

func (s *APIServer) Config() Config {
	return s.config
}

func (s *APIServer) Handler() *websocket.Handler {
	return s.handler
}
