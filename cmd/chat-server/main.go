package main

import (
	"chat-admin-backend/internal/api"
	"chat-admin-backend/internal/api/router"
	"chat-admin-backend/internal/database"
	"chat-admin-backend/internal/env"
	"chat-admin-backend/internal/queue"
	"chat-admin-backend/internal/websocket"
	"log"
)

func main() {
	env.MustLoad()

	queueManager := queue.NewRequestQueueManager(10, 10)
	db, err := database.NewDatabase()
	if err != nil {
		log.Fatalf("db init failed: %v", err)
	}

	handler := websocket.NewHandler(websocket.NewRegistry())

	server := api.NewAPIServer(
		":83",
		queueManager,
		db,
		handler,
		router.UtilsRoutes("/api/ws/v1"),
		router.WebsocketRoutes("/api/ws/v1"),
	)

	server.Run()
}
