package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"electrostore/internal/config"
	"electrostore/internal/events"
	"electrostore/internal/http/handlers"
	"electrostore/internal/repos"
	"electrostore/web"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.Open(cfg.DBDSN, repos.Options{Seed: cfg.SeedDemo, BcryptCost: cfg.BcryptCost})
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	var pub events.Publisher = events.Nop{}
	if cfg.RabbitMQURL != "" {
		conn, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()
		p, err := events.NewAMQPPublisher(conn)
		if err != nil {
			log.Fatal(err)
		}
		defer p.Close()
		pub = p
		log.Printf("[events] publishing to exchange %s", events.EventsExchange)
	} else {
		log.Printf("[events] RABBITMQ_URL not set, order events are dropped")
	}

	deps := handlers.NewDeps(db, pub)
	app := handlers.NewApp(deps, web.Engine())

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal(err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Printf("[server] shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("[server] shutdown: %v", err)
	}
}
