package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type WSClient struct {
	Conn     *websocket.Conn
	Send     chan *Event
	ID       string
	done     chan struct{} // Signal for coordinating goroutine shutdown
	mu       sync.Mutex    // Mutex for connection access
	isClosed bool          // Flag to track connection state
	sendOnce sync.Once
}

// closeSend is safe to call from both the hub and the pump teardown paths.
func (cl *WSClient) closeSend() {
	cl.sendOnce.Do(func() {
		close(cl.Send)
	})
}

func (cl *WSClient) keepAlive() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-cl.done:
			return
		case <-ticker.C:
			cl.mu.Lock()
			if cl.isClosed {
				cl.mu.Unlock()
				return
			}
			err := cl.Conn.WriteMessage(websocket.PingMessage, nil)
			cl.mu.Unlock()

			if err != nil {
				log.Printf("Ping error for client %s: %v", cl.ID, err)
				cl.mu.Lock()
				cl.isClosed = true
				cl.Conn.Close()
				cl.mu.Unlock()
				return
			}
		}
	}
}

func (cl *WSClient) writeMessage() {
	defer func() {
		cl.mu.Lock()
		cl.isClosed = true
		cl.Conn.Close()
		cl.mu.Unlock()
	}()

	for {
		select {
		case <-cl.done:
			return
		case ev, ok := <-cl.Send:
			if !ok {
				log.Printf("Client %s send channel closed", cl.ID)
				return
			}

			cl.mu.Lock()
			if cl.isClosed {
				cl.mu.Unlock()
				return
			}
			err := cl.Conn.WriteJSON(ev)
			cl.mu.Unlock()

			if err != nil {
				log.Printf("Error sending event to client %s: %v", cl.ID, err)
				return
			}
		}
	}
}

func (cl *WSClient) readMessage(hub *Hub) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in readMessage: %v", r)
		}

		if cl.done != nil {
			close(cl.done)
		}

		hub.RemoveClient(cl.ID)
		log.Printf("Client %s disconnected", cl.ID)
	}()

	cl.Conn.SetReadLimit(512 * 1024) // Set a reasonable read limit

	for {
		_, message, err := cl.Conn.ReadMessage()
		if err != nil {
			if closeErr, ok := err.(*websocket.CloseError); ok {
				if closeErr.Code == websocket.CloseNormalClosure ||
					closeErr.Code == websocket.CloseGoingAway ||
					closeErr.Code == websocket.CloseNoStatusReceived {
					break
				}
			}
			log.Printf("Error reading message from client %s: %v", cl.ID, err)
			break
		}

		var frame ClientFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			log.Printf("Client %s sent an unparseable frame: %v", cl.ID, err)
			continue
		}

		switch frame.Type {
		case FrameRegister:
			hub.Register(cl.ID, frame.UserID)
		case FrameJoin:
			hub.Join(cl.ID, frame.Room)
		default:
			log.Printf("Client %s sent unknown frame type %q", cl.ID, frame.Type)
		}
	}
}
