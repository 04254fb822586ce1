package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startRelay(t *testing.T, allowedOrigin string) (*Handler, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil)
	handler := NewHandler(hub, allowedOrigin)
	ts := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	t.Cleanup(ts.Close)
	return handler, ts
}

func dialRelay(t *testing.T, ts *httptest.Server, header http.Header) (*websocket.Conn, error) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err == nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, err
}

func sendFrame(t *testing.T, conn *websocket.Conn, frame ClientFrame) {
	t.Helper()
	if err := conn.WriteJSON(frame); err != nil {
		t.Fatalf("writing %s frame: %v", frame.Type, err)
	}
}

// waitFor polls until the condition holds; the client frames are processed
// asynchronously by the read pump.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not reached before deadline")
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	return ev
}

func TestPrivateRoomEndToEnd(t *testing.T) {
	handler, ts := startRelay(t, "*")

	connA, err := dialRelay(t, ts, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	connB, err := dialRelay(t, ts, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	sendFrame(t, connA, ClientFrame{Type: FrameRegister, UserID: "u1"})
	sendFrame(t, connA, ClientFrame{Type: FrameJoin, Room: "private-user-u1"})

	waitFor(t, func() bool {
		_, ok := handler.Hub().UserConnection("u1")
		return ok
	})
	waitFor(t, func() bool {
		for _, room := range handler.Hub().Rooms() {
			if room.Name == "private-user-u1" && room.Members == 1 {
				return true
			}
		}
		return false
	})

	delivered := handler.Broadcast(&Event{
		Event:   "challenge.created",
		Payload: json.RawMessage(`{"id":"c1"}`),
		Channel: "private-user-u1",
	})
	if delivered != 1 {
		t.Fatalf("expected exactly one delivery, got %d", delivered)
	}

	ev := readEvent(t, connA)
	if ev.Event != "challenge.created" {
		t.Fatalf("unexpected event %q", ev.Event)
	}
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(ev.Payload, &payload); err != nil || payload.ID != "c1" {
		t.Fatalf("unexpected payload %s (err=%v)", ev.Payload, err)
	}
	if ev.Timestamp == 0 {
		t.Fatalf("expected a timestamp on the emitted event")
	}

	// No further emission for A, and nothing at all for B.
	connA.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if err := connA.ReadJSON(&ev); err == nil {
		t.Fatalf("expected a single emission, got a second event %q", ev.Event)
	}
	connB.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if err := connB.ReadJSON(&ev); err == nil {
		t.Fatalf("connection outside the room received %q", ev.Event)
	}
}

func TestSharedRoomEndToEnd(t *testing.T) {
	handler, ts := startRelay(t, "*")

	connA, err := dialRelay(t, ts, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	connB, err := dialRelay(t, ts, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	sendFrame(t, connA, ClientFrame{Type: FrameJoin, Room: "posts"})
	sendFrame(t, connB, ClientFrame{Type: FrameJoin, Room: "posts"})

	waitFor(t, func() bool {
		for _, room := range handler.Hub().Rooms() {
			if room.Name == "posts" && room.Members == 2 {
				return true
			}
		}
		return false
	})

	if delivered := handler.Broadcast(&Event{
		Event:   "post.created",
		Payload: json.RawMessage(`{"postId":"p7"}`),
		Channel: "posts",
	}); delivered != 2 {
		t.Fatalf("expected two deliveries, got %d", delivered)
	}

	evA := readEvent(t, connA)
	evB := readEvent(t, connB)
	if evA.Event != "post.created" || evB.Event != "post.created" {
		t.Fatalf("unexpected events %q and %q", evA.Event, evB.Event)
	}
	if string(evA.Payload) != string(evB.Payload) {
		t.Fatalf("expected identical payloads, got %s and %s", evA.Payload, evB.Payload)
	}
}

func TestDisconnectedClientGetsNothing(t *testing.T) {
	handler, ts := startRelay(t, "*")

	conn, err := dialRelay(t, ts, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	sendFrame(t, conn, ClientFrame{Type: FrameJoin, Room: "posts"})
	waitFor(t, func() bool { return len(handler.Hub().Rooms()) == 1 })

	conn.Close()
	waitFor(t, func() bool { return len(handler.Hub().Rooms()) == 0 })

	if delivered := handler.Broadcast(&Event{
		Event:   "post.created",
		Payload: json.RawMessage(`{}`),
		Channel: "posts",
	}); delivered != 0 {
		t.Fatalf("expected zero deliveries after disconnect, got %d", delivered)
	}
}

func TestMalformedFrameDoesNotKillConnection(t *testing.T) {
	handler, ts := startRelay(t, "*")

	conn, err := dialRelay(t, ts, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	sendFrame(t, conn, ClientFrame{Type: FrameJoin, Room: "posts"})

	waitFor(t, func() bool {
		for _, room := range handler.Hub().Rooms() {
			if room.Name == "posts" && room.Members == 1 {
				return true
			}
		}
		return false
	})
}

func TestDisallowedOriginRejected(t *testing.T) {
	_, ts := startRelay(t, "http://app.example.com")

	header := http.Header{}
	header.Set("Origin", "http://evil.example.com")
	if _, err := dialRelay(t, ts, header); err == nil {
		t.Fatalf("expected the handshake to be rejected")
	}

	header = http.Header{}
	header.Set("Origin", "http://app.example.com")
	if _, err := dialRelay(t, ts, header); err != nil {
		t.Fatalf("expected the allowed origin to connect: %v", err)
	}
}
