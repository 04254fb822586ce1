package main

import (
	"context"

	"quiz-relay-backend/internal/api"
	"quiz-relay-backend/internal/api/router"
	"quiz-relay-backend/internal/env"
	"quiz-relay-backend/internal/presence"
	"quiz-relay-backend/internal/queue"
	"quiz-relay-backend/internal/websocket"

	"github.com/go-redis/redis/v8"
)

func main() {
	env.MustValidate()

	queueManager := queue.NewRequestQueueManager(10, 10)

	notifier := presence.NewNotifier(env.MustGet(env.BackendURL), queueManager)
	hub := websocket.NewHub(notifier)
	handler := websocket.NewHandler(hub, env.MustGet(env.WebUrl))

	if redisURL := env.Get(env.RedisURL); redisURL != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisURL,
			Password: env.Get(env.RedisPass),
			DB:       0,
		})
		subscriber := websocket.NewSubscriber(redisClient, handler)
		go subscriber.Run(context.Background())
	}

	server := api.NewAPIServer(
		api.Config{
			ListenAddr:    env.GetOrDefault(env.ListenAddr, ":84"),
			AllowedOrigin: env.MustGet(env.WebUrl),
			ControlSecret: env.Get(env.ControlSecret),
		},
		queueManager,
		handler,
		router.UtilsRoutes(""),
		router.RelayRoutes(""),
		router.ClientSocketRoutes(),
	)

	server.Run()
}
