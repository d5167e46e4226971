package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"visaforge-be/internal/bootstrap"
	"visaforge-be/internal/config"
	"visaforge-be/internal/server"
	"visaforge-be/internal/tracer"
	"visaforge-be/pkg/database"
)

func main() {
	cfg := config.Load()

	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled)
	defer shutdownTracer(context.Background())

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.Verbose)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(ctx); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	srv := server.New(cfg, container)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down...")
		stop()
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
