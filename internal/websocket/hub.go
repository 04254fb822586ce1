package websocket

import (
	"log"
	"sync"
)

// StatusNotifier receives presence transitions. Implementations must not
// block; delivery is best-effort.
type StatusNotifier interface {
	Notify(userID, status string)
}

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Hub tracks live connections, the userId -> connectionId presence mapping
// and room membership. Rooms and the per-connection room list are kept as a
// bidirectional index so connection teardown is a bounded lookup instead of
// a scan over every room.
type Hub struct {
	mu        sync.Mutex
	clients   map[string]*WSClient
	rooms     map[string]map[string]*WSClient
	connRooms map[string]map[string]bool
	users     map[string]string

	notifier StatusNotifier
}

func NewHub(notifier StatusNotifier) *Hub {
	return &Hub{
		clients:   make(map[string]*WSClient),
		rooms:     make(map[string]map[string]*WSClient),
		connRooms: make(map[string]map[string]bool),
		users:     make(map[string]string),
		notifier:  notifier,
	}
}

// AddClient makes a freshly upgraded connection known to the hub. The
// connection is unregistered until a register frame arrives; it may still
// join rooms.
func (h *Hub) AddClient(cl *WSClient) {
	h.mu.Lock()
	h.clients[cl.ID] = cl
	h.mu.Unlock()
	incConnections()
}

// Register binds userID to the given connection. Last registration wins: a
// newer registration for the same user silently supersedes the previous
// one. The "online" notification is only sent on the transition from no
// recorded connection to a recorded one, so reconnects do not re-announce.
func (h *Hub) Register(connID, userID string) {
	if userID == "" {
		return
	}

	h.mu.Lock()
	if _, ok := h.clients[connID]; !ok {
		h.mu.Unlock()
		return
	}
	_, hadEntry := h.users[userID]
	h.users[userID] = connID
	h.mu.Unlock()

	if !hadEntry && h.notifier != nil {
		h.notifier.Notify(userID, StatusOnline)
	}
}

// Join adds the connection to a room, creating the room on first join.
// Joining twice is a no-op.
func (h *Hub) Join(connID, roomName string) {
	if roomName == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	cl, ok := h.clients[connID]
	if !ok {
		return
	}

	room, ok := h.rooms[roomName]
	if !ok {
		room = make(map[string]*WSClient)
		h.rooms[roomName] = room
		setRooms(len(h.rooms))
	}
	room[connID] = cl

	joined, ok := h.connRooms[connID]
	if !ok {
		joined = make(map[string]bool)
		h.connRooms[connID] = joined
	}
	joined[roomName] = true
}

// RemoveClient tears down a disconnected connection: membership in every
// joined room is dropped, and every presence entry still pointing at this
// connection id is removed. The removal is keyed on the stored connection
// id, so a belated disconnect from a superseded connection cannot evict a
// newer session, and no "offline" is sent for it.
func (h *Hub) RemoveClient(connID string) {
	h.mu.Lock()
	cl, ok := h.clients[connID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, connID)

	for roomName := range h.connRooms[connID] {
		room, ok := h.rooms[roomName]
		if !ok {
			continue
		}
		delete(room, connID)
		if len(room) == 0 {
			delete(h.rooms, roomName)
		}
	}
	delete(h.connRooms, connID)
	setRooms(len(h.rooms))

	// A connection may have registered more than one userId over its life;
	// release every entry it still backs.
	var offline []string
	for userID, id := range h.users {
		if id == connID {
			delete(h.users, userID)
			offline = append(offline, userID)
		}
	}
	h.mu.Unlock()

	cl.closeSend()
	decConnections()

	if h.notifier != nil {
		for _, userID := range offline {
			h.notifier.Notify(userID, StatusOffline)
		}
	}
}

// Broadcast emits the event to every current member of its channel and
// returns the delivery count. Delivery is fire-and-forget: a member whose
// outbound buffer is full is dropped from the hub rather than blocking the
// fan-out, and its own disconnect path finishes the teardown.
func (h *Hub) Broadcast(ev *Event) int {
	h.mu.Lock()
	room, ok := h.rooms[ev.Channel]
	if !ok {
		h.mu.Unlock()
		return 0
	}

	delivered := 0
	var stale []*WSClient
	for _, cl := range room {
		select {
		case cl.Send <- ev:
			delivered++
		default:
			stale = append(stale, cl)
		}
	}
	h.mu.Unlock()

	for _, cl := range stale {
		log.Printf("Dropping client %s: send buffer full", cl.ID)
		h.RemoveClient(cl.ID)
		incDropped()
	}

	if delivered > 0 {
		addDelivered(delivered)
	}
	return delivered
}

// UserConnection reports the connection id currently recorded for a user.
func (h *Hub) UserConnection(userID string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	connID, ok := h.users[userID]
	return connID, ok
}

// Rooms returns a snapshot of room names and member counts.
func (h *Hub) Rooms() []RoomRes {
	h.mu.Lock()
	defer h.mu.Unlock()

	rooms := make([]RoomRes, 0, len(h.rooms))
	for name, members := range h.rooms {
		rooms = append(rooms, RoomRes{Name: name, Members: len(members)})
	}
	return rooms
}
