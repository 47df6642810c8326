package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	_ "billing_reconciler/docs"
	"billing_reconciler/internal/adapter/http/routes"
	"billing_reconciler/internal/config"
	"billing_reconciler/internal/infrastructure/bootstrap"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"
)

// @title           Billing Reconciler API
// @version         1.0
// @description     Mercado Pago notification intake, checkout and plan catalog. Reconciliation runs in background workers.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err)
	}
	defer app.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.ForwardRealtime(gctx) })
	if cfg.RunWorkers {
		g.Go(func() error { return app.Workers.Run(gctx) })
	}
	g.Go(func() error { return routes.Run(gctx, app) })

	if err := g.Wait(); err != nil {
		log.Printf("[api] stopped err=%v", err)
	}
}
