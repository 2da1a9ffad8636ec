package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/hardeep74644/Library-Room-Booking-App/internal/config"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/database"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/queue"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/repository"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/router"
	"github.com/hardeep74644/Library-Room-Booking-App/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	reservations := service.NewReservation(
		repository.NewRoomRepo(db),
		repository.NewBookingRepo(db),
		repository.NewUserRepo(db),
		queue.NewPublisher(),
		service.SystemClock{},
	)

	e := router.New(cfg, db, rdb, reservations)

	log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
