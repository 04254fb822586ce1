package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"quiz-relay-backend/internal/websocket"
)

type RelayEndpoints interface {
	Broadcast(http.ResponseWriter, *http.Request) error
	Rooms(http.ResponseWriter, *http.Request) error
}

type relayEndpoints struct {
	handler *websocket.Handler
}

func NewRelayEndpoints(handler *websocket.Handler) RelayEndpoints {
	return &relayEndpoints{handler: handler}
}

// BroadcastRequest is the control-plane body. The payload is passed through
// untouched; the relay never inspects it.
type BroadcastRequest struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Channel string          `json:"channel"`
}

func (h *relayEndpoints) Broadcast(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.broadcast,
	})
}

func (h *relayEndpoints) broadcast(w http.ResponseWriter, r *http.Request) error {
	var req BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request body.",
			ErrorLog:   err,
		}
	}

	if req.Event == "" || req.Channel == "" || len(req.Payload) == 0 {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Fields event, payload and channel are required.",
			ErrorLog:   fmt.Errorf("incomplete broadcast request: event=%q channel=%q", req.Event, req.Channel),
		}
	}

	// Zero deliveries is a success: broadcasting to an empty room is fine.
	h.handler.Broadcast(&websocket.Event{
		Event:   req.Event,
		Payload: req.Payload,
		Channel: req.Channel,
	})

	return WriteJSON(w, http.StatusOK, ApiMessageResponse{
		Message: fmt.Sprintf("Event %s broadcast to channel %s.", req.Event, req.Channel),
	})
}

func (h *relayEndpoints) Rooms(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: func(w http.ResponseWriter, r *http.Request) error {
			return WriteJSON(w, http.StatusOK, h.handler.Hub().Rooms())
		},
	})
}
