package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking-console/internal/alert"
	"github.com/iliyamo/venue-booking-console/internal/config"
	"github.com/iliyamo/venue-booking-console/internal/database"
	"github.com/iliyamo/venue-booking-console/internal/handler"
	"github.com/iliyamo/venue-booking-console/internal/queue"
	"github.com/iliyamo/venue-booking-console/internal/repository"
	"github.com/iliyamo/venue-booking-console/internal/router"
	"github.com/iliyamo/venue-booking-console/internal/service"
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

	// Redis holds the durable alert-resolution record.  A nil client
	// degrades to in-memory resolutions for this session only.
	var kv alert.KVStore
	if rdb := config.NewRedisClient(); rdb != nil {
		kv = alert.NewRedisKVStore(rdb)
	} else {
		log.Println("redis unavailable; alert resolutions will not survive restarts")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := alert.NewResolutionStore(ctx, kv, cfg.ResolutionKey)
	bookings := repository.NewBookingRepo(db)
	alerts := service.NewAlertService(bookings, store)
	if err := alerts.Refresh(ctx); err != nil {
		log.Fatalf("initial alert build: %v", err)
	}
	alerts.Start(ctx, cfg.AlertRefresh)

	// Background consumer mirroring booking.changed events into the
	// operational audit log file.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	managers := repository.NewManagerRepo(db)
	tokens := repository.NewTokenRepo(db)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, managers, tokens), cfg.JWTSecret)
	router.RegisterConsole(e,
		handler.NewBookingHandler(bookings, alerts),
		handler.NewAlertHandler(alerts),
		cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
