package websocket

import "encoding/json"

// Event is a single named event fanned out to every member of a room. The
// payload is opaque to the relay; its shape is a contract between the
// application backend and the clients.
type Event struct {
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
	Channel   string          `json:"channel"`
	Timestamp int64           `json:"ts"`
}

// ClientFrame is an inbound message on the client plane.
type ClientFrame struct {
	Type   string `json:"type"`
	UserID string `json:"userId,omitempty"`
	Room   string `json:"room,omitempty"`
}

const (
	FrameRegister = "register"
	FrameJoin     = "join"
)

type RoomRes struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}
