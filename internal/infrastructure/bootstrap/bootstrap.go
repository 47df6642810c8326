// Package bootstrap builds the dependency graph shared by the api and worker
// binaries from a loaded configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"

	"billing_reconciler/internal/adapter/persistence/memory"
	"billing_reconciler/internal/adapter/persistence/repository"
	"billing_reconciler/internal/config"
	"billing_reconciler/internal/infrastructure/database"
	"billing_reconciler/internal/infrastructure/messaging"
	"billing_reconciler/internal/infrastructure/payments"
	"billing_reconciler/internal/infrastructure/realtime"
	"billing_reconciler/internal/jobs"
	"billing_reconciler/internal/usecase"
	"billing_reconciler/internal/usecase/interfaces"
)

// App holds every long-lived component. Relay is nil unless jobs go through
// RabbitMQ.
type App struct {
	Config config.Config

	Ledger     interfaces.ILedger
	Cache      interfaces.ICacheStore
	FailedJobs interfaces.IFailedJobStore
	Broker     jobs.Broker
	Gateway    interfaces.IProviderGateway
	Hub        *realtime.Hub
	Relay      *messaging.RealtimeRelay

	Processor *usecase.NotificationProcessor
	Workers   *jobs.WorkerPool

	Webhook      usecase.IWebhookUseCase
	Checkout     usecase.ICheckoutUseCase
	PlanCatalog  usecase.IPlanCatalogUseCase
	FailedJobsUC usecase.IFailedJobUseCase

	closers []func() error
}

// New connects every backend selected in cfg. On error the backends opened so
// far are closed again.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg, Hub: realtime.NewHub()}
	if err := app.open(ctx); err != nil {
		app.Close()
		return nil, err
	}
	log.Printf("[bootstrap] ready ledger=%s queue=%s cache=%s workers=%d", cfg.LedgerDriver, cfg.QueueDriver, cfg.CacheDriver, cfg.WorkerCount)
	return app, nil
}

func (a *App) open(ctx context.Context) error {
	cfg := a.Config
	if err := a.openLedger(ctx); err != nil {
		return err
	}
	if err := a.openCache(ctx); err != nil {
		return err
	}

	outbox, publisher, err := a.openMessaging()
	if err != nil {
		return err
	}

	gateway, err := payments.NewMercadoPagoGateway(payments.GatewayConfig{
		AccessToken:       cfg.MercadoPagoAccessToken,
		BaseURL:           cfg.MercadoPagoBaseURL,
		RequestsPerSecond: cfg.MercadoPagoRateLimit,
		Mock:              cfg.PaymentGatewayMock,
	})
	if err != nil {
		return fmt.Errorf("payment gateway: %w", err)
	}
	a.Gateway = gateway

	versions := usecase.NewCacheVersions(a.Cache)
	dispatcher := usecase.NewEffectDispatcher(outbox, publisher, a.Cache, versions)
	a.Processor = usecase.NewReconciliationProcessor(a.Ledger, a.Gateway, dispatcher)
	a.Workers = jobs.NewWorkerPool(a.Broker, a.Processor, a.FailedJobs,
		jobs.WithWorkers(cfg.WorkerCount),
		jobs.WithJobTimeout(cfg.JobTimeout),
		jobs.WithRetryPolicy(jobs.RetryPolicy{MaxRetries: cfg.JobMaxRetries, Delay: cfg.JobRetryDelay}),
	)

	a.Webhook = usecase.NewWebhookUseCase(jobs.NewQueue(a.Broker), cfg.MercadoPagoWebhookSecret)
	a.Checkout = usecase.NewCheckoutUseCase(a.Ledger, a.Gateway, usecase.NewIdempotencyCache(a.Cache), cfg.IdempotencyTTL)
	a.PlanCatalog = usecase.NewPlanCatalogUseCase(a.Ledger, a.Cache, versions, cfg.PlanCacheTTL)
	a.FailedJobsUC = usecase.NewFailedJobUseCase(a.FailedJobs)
	return nil
}

func (a *App) openLedger(ctx context.Context) error {
	if a.Config.LedgerDriver != config.DriverPostgres {
		a.Ledger = memory.NewLedger()
		a.FailedJobs = memory.NewFailedJobStore()
		return nil
	}

	pool, err := database.NewDB(ctx, a.Config.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	a.closers = append(a.closers, func() error { pool.Close(); return nil })

	if a.Config.RunMigrations {
		if err := database.RunMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}
	a.Ledger = repository.NewPostgresLedger(pool, a.Config.LedgerLockWait)
	a.FailedJobs = repository.NewFailedJobPostgresRepository(pool)
	return nil
}

func (a *App) openCache(ctx context.Context) error {
	if a.Config.CacheDriver != config.DriverDynamoDB {
		a.Cache = memory.NewCacheStore()
		return nil
	}

	ddb, err := database.ConnectDynamoDB(ctx, database.DynamoDBConfig{
		Region:          a.Config.AWSRegion,
		AccessKeyID:     a.Config.AWSAccessKeyID,
		SecretAccessKey: a.Config.AWSSecretKey,
		Endpoint:        a.Config.DynamoEndpoint,
	})
	if err != nil {
		return fmt.Errorf("connect dynamodb: %w", err)
	}
	if a.Config.CreateCacheTable {
		if err := database.EnsureCacheTable(ctx, ddb, a.Config.CacheTable); err != nil {
			return fmt.Errorf("ensure cache table: %w", err)
		}
	}
	a.Cache = repository.NewCacheDynamoRepository(ddb, a.Config.CacheTable)
	return nil
}

// openMessaging picks the job broker and where effects go. Without RabbitMQ
// everything stays in process and emails are only logged.
func (a *App) openMessaging() (interfaces.IEmailOutbox, interfaces.IRealtimePublisher, error) {
	if a.Config.QueueDriver != config.DriverRabbitMQ {
		broker := jobs.NewMemoryBroker(0)
		a.Broker = broker
		a.closers = append(a.closers, broker.Close)
		return messaging.NewLogOutbox(a.Config.AdminEmail), a.Hub, nil
	}

	client, err := messaging.NewRabbitMQClient(a.Config.RabbitMQURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	a.closers = append(a.closers, client.Close)

	broker, err := messaging.NewRabbitMQBroker(client, messaging.NewJobQueues(a.Config.JobsQueue), a.Config.WorkerCount)
	if err != nil {
		return nil, nil, err
	}
	a.Broker = broker

	outbox, err := messaging.NewRabbitMQOutbox(client, a.Config.EmailQueue, a.Config.AdminEmail)
	if err != nil {
		return nil, nil, err
	}
	relay, err := messaging.NewRealtimeRelay(client, a.Config.RealtimeFanout)
	if err != nil {
		return nil, nil, err
	}
	a.Relay = relay
	return outbox, relay, nil
}

// ForwardRealtime feeds notices published by any process into the local
// websocket hub. It returns at once when there is no relay.
func (a *App) ForwardRealtime(ctx context.Context) error {
	if a.Relay == nil {
		return nil
	}
	return a.Relay.Forward(ctx, a.Hub)
}

// Close releases backends in reverse opening order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
