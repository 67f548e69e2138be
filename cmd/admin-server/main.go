package main

import (
	"chat-admin-backend/internal/api"
	"chat-admin-backend/internal/api/router"
	"chat-admin-backend/internal/database"
	"chat-admin-backend/internal/env"
	"chat-admin-backend/internal/queue"
	"log"
)

func main() {
	env.MustLoad()

	queueManager := queue.NewRequestQueueManager(10, 10)
	db, err := database.NewDatabase()
	if err != nil {
		log.Fatalf("db init failed: %v", err)
	}

	server := api.NewAPIServer(
		":81",
		queueManager,
		db,
		nil,
		router.UtilsRoutes("/api/admin/v1"),
		router.AuthRoutes("/api/admin/v1"),
		router.UserRoutes("/api/admin/v1"),
		router.ChatRoutes("/api/admin/v1"),
	)

	server.Run()
}
