// Command worker consumes notification jobs without serving HTTP.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"billing_reconciler/internal/config"
	"billing_reconciler/internal/infrastructure/bootstrap"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.QueueDriver == config.DriverMemory {
		log.Printf("[worker] QUEUE_DRIVER=memory: only jobs published by this process are seen")
	}

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to startup the worker: %v", err)
	}
	defer app.Close()

	if err := app.Workers.Run(ctx); err != nil {
		log.Printf("[worker] stopped err=%v", err)
	}
}
