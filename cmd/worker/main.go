package main // Notification worker entry point

import (
	"log" // Logging library

	"github.com/joho/godotenv" // Loads .env files into the environment

	"github.com/matchsquad/field-session-booking/internal/queue" // RabbitMQ consumer
)

// The worker drains the session-full queue and records each event in
// logs/notifications.log. It runs separately from the API server so a
// broker outage or slow consumer can never touch booking latency.
func main() {
	_ = godotenv.Load() // Load .env when present; real env vars win

	log.Println("notification worker starting")
	if err := queue.StartSessionFullConsumer(); err != nil {
		log.Fatalf("consumer stopped: %v", err)
	}
}
