package router

import (
	"net/http"

	"quiz-relay-backend/internal/api"
	"quiz-relay-backend/internal/api/endpoints"
	"quiz-relay-backend/internal/api/middleware"
)

// RelayRoutes wires the control plane the application backend calls.
func RelayRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		relayEndpoints := endpoints.NewRelayEndpoints(s.Handler())
		auth := middleware.ValidateControlToken(s.Config().ControlSecret)

		mux.HandleFunc(prefix+"/broadcast", s.MakeHTTPHandleFunc(relayEndpoints.Broadcast, auth))
		mux.HandleFunc(prefix+"/rooms", s.MakeHTTPHandleFunc(relayEndpoints.Rooms, auth))
	}
}

// ClientSocketRoutes registers the websocket upgrade endpoint directly on
// the mux: the upgrade must not run through the request queue or the
// logging recorder, which would interfere with connection hijacking.
func ClientSocketRoutes() api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
			s.Handler().ServeWS(w, r)
		})
	}
}
