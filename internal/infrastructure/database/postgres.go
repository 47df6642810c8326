package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewDB creates a PostgreSQL connection pool.
func NewDB(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// RunMigrations creates the ledger and failed job schema.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS plans (
			id                 TEXT PRIMARY KEY,
			external_plan_id   TEXT NOT NULL UNIQUE,
			name               TEXT NOT NULL,
			description        TEXT NOT NULL DEFAULT '',
			transaction_amount NUMERIC(12,2) NOT NULL,
			currency_id        TEXT NOT NULL DEFAULT 'BRL',
			frequency_interval INTEGER NOT NULL,
			frequency_type     TEXT NOT NULL,
			is_active          BOOLEAN NOT NULL DEFAULT TRUE,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS subscriptions (
			id                        TEXT PRIMARY KEY,
			external_id               TEXT NOT NULL DEFAULT '',
			user_id                   TEXT NOT NULL,
			plan_id                   TEXT NOT NULL,
			status                    TEXT NOT NULL,
			current_period_start_date TIMESTAMPTZ NOT NULL,
			current_period_end_date   TIMESTAMPTZ NOT NULL,
			card_token_id             TEXT NOT NULL DEFAULT '',
			last_four_card_digits     TEXT NOT NULL DEFAULT '',
			payment_id                TEXT NOT NULL DEFAULT '',
			customer_id               TEXT NOT NULL DEFAULT '',
			created_at                TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at                TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_subscriptions_external_id ON subscriptions(external_id) WHERE external_id <> '';
		CREATE INDEX IF NOT EXISTS idx_subscriptions_payment_id ON subscriptions(payment_id);
		CREATE INDEX IF NOT EXISTS idx_subscriptions_customer_id ON subscriptions(customer_id);
		CREATE INDEX IF NOT EXISTS idx_subscriptions_user_id ON subscriptions(user_id);

		CREATE TABLE IF NOT EXISTS payments (
			id               TEXT PRIMARY KEY,
			external_id      TEXT NOT NULL DEFAULT '',
			payment_id       TEXT NOT NULL DEFAULT '',
			user_id          TEXT NOT NULL,
			plan_id          TEXT NOT NULL DEFAULT '',
			status           TEXT NOT NULL,
			amount           NUMERIC(12,2) NOT NULL DEFAULT 0,
			method           TEXT NOT NULL DEFAULT '',
			last_four_digits TEXT NOT NULL DEFAULT '',
			subscription_id  TEXT NOT NULL DEFAULT '',
			idempotency_key  TEXT NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_external_id ON payments(external_id) WHERE external_id <> '';
		CREATE INDEX IF NOT EXISTS idx_payments_user_id ON payments(user_id);

		CREATE TABLE IF NOT EXISTS chargebacks (
			id            TEXT PRIMARY KEY,
			chargeback_id BIGINT NOT NULL UNIQUE,
			payment_id    BIGINT NOT NULL,
			user_id       TEXT NOT NULL DEFAULT '',
			status        TEXT NOT NULL,
			amount        NUMERIC(12,2) NOT NULL DEFAULT 0,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS claims (
			id            TEXT PRIMARY KEY,
			mp_claim_id   BIGINT NOT NULL UNIQUE,
			resource_id   TEXT NOT NULL DEFAULT '',
			resource_type TEXT NOT NULL DEFAULT '',
			type          TEXT NOT NULL DEFAULT '',
			user_id       TEXT NOT NULL DEFAULT '',
			status        TEXT NOT NULL,
			current_stage TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS failed_jobs (
			job_id      TEXT PRIMARY KEY,
			kind        TEXT NOT NULL,
			resource_id TEXT NOT NULL,
			attempts    INTEGER NOT NULL,
			last_error  TEXT NOT NULL,
			failed_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_failed_jobs_failed_at ON failed_jobs(failed_at DESC);
	`
	_, err := pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
