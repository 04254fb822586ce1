package websocket

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-redis/redis/v8"
)

// BroadcastChannel is the pub/sub channel the backend publishes to when it
// reaches the relay through Redis instead of the HTTP control plane.
const BroadcastChannel = "relay:broadcast"

// Subscriber feeds broadcast requests published on Redis through the same
// validation and fan-out path as the HTTP control plane.
type Subscriber struct {
	client  *redis.Client
	handler *Handler
}

func NewSubscriber(client *redis.Client, handler *Handler) *Subscriber {
	return &Subscriber{
		client:  client,
		handler: handler,
	}
}

// Run blocks consuming the broadcast channel until ctx is cancelled.
// Malformed messages are logged and skipped; they never stop the bridge.
func (s *Subscriber) Run(ctx context.Context) {
	subscriber := s.client.Subscribe(ctx, BroadcastChannel)
	defer subscriber.Close()

	log.Printf("Subscribed to Redis channel: %s", BroadcastChannel)

	ch := subscriber.Channel()
	for {
		select {
		case <-ctx.Done():
			log.Printf("Unsubscribed from Redis channel: %s", BroadcastChannel)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("Skipping unparseable broadcast from Redis: %v", err)
				continue
			}
			if ev.Event == "" || ev.Channel == "" || len(ev.Payload) == 0 {
				log.Printf("Skipping incomplete broadcast from Redis: event=%q channel=%q", ev.Event, ev.Channel)
				continue
			}
			s.handler.Broadcast(&ev)
		}
	}
}
