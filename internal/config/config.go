// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRabbitMQ = "rabbitmq"
	DriverDynamoDB = "dynamodb"
)

type Config struct {
	Port string `validate:"required,numeric"`

	LedgerDriver   string        `validate:"oneof=postgres memory"`
	DatabaseURL    string        `validate:"required_if=LedgerDriver postgres"`
	LedgerLockWait time.Duration `validate:"gte=0"`
	RunMigrations  bool

	QueueDriver    string `validate:"oneof=rabbitmq memory"`
	RabbitMQURL    string `validate:"required_if=QueueDriver rabbitmq"`
	JobsQueue      string `validate:"required"`
	EmailQueue     string `validate:"required"`
	RealtimeFanout string `validate:"required"`

	CacheDriver      string `validate:"oneof=dynamodb memory"`
	CacheTable       string `validate:"required_if=CacheDriver dynamodb"`
	DynamoEndpoint   string `validate:"omitempty,url"`
	CreateCacheTable bool
	AWSRegion        string
	AWSAccessKeyID   string
	AWSSecretKey     string

	WorkerCount   int           `validate:"gte=1,lte=256"`
	JobMaxRetries int           `validate:"gte=0"`
	JobRetryDelay time.Duration `validate:"gte=0"`
	JobTimeout    time.Duration `validate:"gt=0"`
	RunWorkers    bool

	MercadoPagoBaseURL       string  `validate:"omitempty,url"`
	MercadoPagoRateLimit     float64 `validate:"gt=0"`
	MercadoPagoAccessToken   string
	MercadoPagoWebhookSecret string
	PaymentGatewayMock       bool

	IdempotencyTTL time.Duration `validate:"gt=0"`
	PlanCacheTTL   time.Duration `validate:"gt=0"`
	AdminEmail     string        `validate:"omitempty,email"`
}

// Load reads the environment and validates the result. Invalid numbers and
// durations are reported instead of silently defaulted.
func Load() (Config, error) {
	p := &parser{}
	cfg := Config{
		Port: getenvDefault("PORT", "8080"),

		LedgerDriver:     strings.ToLower(getenvDefault("LEDGER_DRIVER", DriverMemory)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		LedgerLockWait:   p.duration("LEDGER_LOCK_TIMEOUT", 5*time.Second),
		RunMigrations:    p.boolean("RUN_MIGRATIONS", true),
		QueueDriver:      strings.ToLower(getenvDefault("QUEUE_DRIVER", DriverMemory)),
		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		JobsQueue:        getenvDefault("JOBS_QUEUE", "notifications.jobs"),
		EmailQueue:       getenvDefault("EMAIL_QUEUE", "notifications.emails"),
		RealtimeFanout:   getenvDefault("REALTIME_EXCHANGE", "notifications.realtime"),
		CacheDriver:      strings.ToLower(getenvDefault("CACHE_DRIVER", DriverMemory)),
		CacheTable:       getenvDefault("IDEMPOTENCY_TABLE", "idempotency_cache"),
		CreateCacheTable: p.boolean("CREATE_CACHE_TABLE", false),
		AWSRegion:        getenvDefault("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:   os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:     os.Getenv("AWS_SECRET_ACCESS_KEY"),
		DynamoEndpoint:   os.Getenv("DYNAMODB_ENDPOINT"),

		WorkerCount:   p.integer("WORKER_COUNT", 4),
		JobMaxRetries: p.integer("JOB_MAX_RETRIES", 3),
		JobRetryDelay: p.duration("JOB_RETRY_DELAY", 60*time.Second),
		JobTimeout:    p.duration("JOB_TIMEOUT", 30*time.Second),
		RunWorkers:    p.boolean("RUN_WORKERS", true),

		MercadoPagoAccessToken:   os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
		MercadoPagoBaseURL:       getenvDefault("MERCADOPAGO_BASE_URL", "https://api.mercadopago.com"),
		MercadoPagoWebhookSecret: os.Getenv("MERCADOPAGO_WEBHOOK_SECRET"),
		MercadoPagoRateLimit:     p.float("MERCADOPAGO_RATE_LIMIT", 10),
		PaymentGatewayMock:       enabled("PAYMENT_GATEWAY_MOCK") || enabled("MERCADOPAGO_MOCK"),

		IdempotencyTTL: p.duration("IDEMPOTENCY_TTL", 24*time.Hour),
		PlanCacheTTL:   p.duration("PLAN_CACHE_TTL", time.Hour),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
	}
	if p.err != nil {
		return Config{}, p.err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// parser keeps the first parse error so Load can report it once.
type parser struct {
	err error
}

func (p *parser) fail(key, raw string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return d
}

func (p *parser) integer(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return f
}

func (p *parser) boolean(key string, def bool) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch raw {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	p.fail(key, raw, strconv.ErrSyntax)
	return def
}

// enabled accepts the loose spellings used by the mock switches.
func enabled(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
