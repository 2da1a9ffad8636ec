// The notifier consumes booking events from RabbitMQ and sends confirmation
// and cancellation emails. It runs as a separate process so a slow SMTP
// server never blocks the API.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/hardeep74644/Library-Room-Booking-App/internal/mailer"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/queue"
)

func main() {
	_ = godotenv.Load()

	log.Println("notifier starting")
	if err := queue.StartNotificationConsumer(mailer.NewFromEnv()); err != nil {
		log.Fatalf("notifier: %v", err)
	}
}
