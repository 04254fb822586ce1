package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler wires the hub to an HTTP upgrade endpoint. allowedOrigin is the
// web client address; "*" disables the origin check and an absent Origin
// header (non-browser client) is always accepted.
func NewHandler(h *Hub, allowedOrigin string) *Handler {
	return &Handler{
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "*" || origin == allowedOrigin
			},
		},
	}
}

func (h *Handler) Hub() *Hub {
	return h.hub
}

// ServeWS upgrades the request and starts the client pumps. The connection
// stays unregistered until the client sends a register frame.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cl := &WSClient{
		Conn: conn,
		Send: make(chan *Event, 10),
		ID:   uuid.NewString(),
		done: make(chan struct{}),
	}

	h.hub.AddClient(cl)
	log.Printf("Client %s connected", cl.ID)

	go cl.keepAlive()
	go cl.writeMessage()
	go cl.readMessage(h.hub)
}

// Broadcast stamps and fans out an event, returning the delivery count.
// Broadcasting to a room nobody joined is not an error.
func (h *Handler) Broadcast(ev *Event) int {
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().Unix()
	}
	return h.hub.Broadcast(ev)
}
