package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func TestSubscriberFeedsFanout(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	hub := NewHub(nil)
	handler := NewHandler(hub, "*")

	member := newTestClient("conn-1")
	hub.AddClient(member)
	hub.Join("conn-1", "posts")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go NewSubscriber(client, handler).Run(ctx)

	// Wait for the subscription to be established before publishing.
	waitFor(t, func() bool {
		return client.PubSubNumSub(ctx, BroadcastChannel).Val()[BroadcastChannel] > 0
	})

	// A malformed and an incomplete message must both be skipped without
	// stopping the bridge.
	if err := client.Publish(ctx, BroadcastChannel, "not json").Err(); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := client.Publish(ctx, BroadcastChannel, `{"event":"post.created","channel":""}`).Err(); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := client.Publish(ctx, BroadcastChannel, `{"event":"post.created","payload":{"postId":"p1"},"channel":"posts"}`).Err(); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case ev := <-member.Send:
		if ev.Event != "post.created" || ev.Channel != "posts" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected the published broadcast to reach the room member")
	}

	select {
	case ev := <-member.Send:
		t.Fatalf("skipped message was delivered: %+v", ev)
	default:
	}
}
