package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrRowNotFound     = errors.New("row not found")
	ErrUniqueViolation = errors.New("unique constraint violation")
)

const pgUniqueViolation = "23505"

// PostgresLedger opens one transaction per unit of work. ForUpdate reads use
// SELECT ... FOR UPDATE; LockKey uses transaction scoped advisory locks. Both
// give up after lockTimeout.
type PostgresLedger struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

var _ interfaces.ILedger = (*PostgresLedger)(nil)

func NewPostgresLedger(pool *pgxpool.Pool, lockTimeout time.Duration) *PostgresLedger {
	return &PostgresLedger{pool: pool, lockTimeout: lockTimeout}
}

func (l *PostgresLedger) Begin(ctx context.Context) (interfaces.IUnitOfWork, error) {
	tx, err := l.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	if l.lockTimeout > 0 {
		// SET LOCAL does not take bind parameters.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", l.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return nil, fmt.Errorf("set lock timeout: %w", err)
		}
	}
	return &pgUnitOfWork{tx: tx}, nil
}

type pgUnitOfWork struct {
	tx pgx.Tx
}

var _ interfaces.IUnitOfWork = (*pgUnitOfWork)(nil)

func (u *pgUnitOfWork) Payments() interfaces.IPaymentRepository { return pgPaymentRepo{u.tx} }

func (u *pgUnitOfWork) Subscriptions() interfaces.ISubscriptionRepository {
	return pgSubscriptionRepo{u.tx}
}

func (u *pgUnitOfWork) Plans() interfaces.IPlanRepository { return pgPlanRepo{u.tx} }

func (u *pgUnitOfWork) Chargebacks() interfaces.IChargebackRepository {
	return pgChargebackRepo{u.tx}
}

func (u *pgUnitOfWork) Claims() interfaces.IClaimRepository { return pgClaimRepo{u.tx} }

func (u *pgUnitOfWork) LockKey(ctx context.Context, key string) error {
	if _, err := u.tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	return nil
}

func (u *pgUnitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(ctx); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (u *pgUnitOfWork) Rollback(ctx context.Context) error {
	err := u.tx.Rollback(ctx)
	if err == nil || errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrUniqueViolation, pgErr.ConstraintName)
	}
	return err
}

// execOne runs a write that must touch exactly one row.
func execOne(ctx context.Context, tx pgx.Tx, sql string, args ...any) error {
	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRowNotFound
	}
	return nil
}

// queryOne scans at most one row; no row yields the zero value and nil.
func queryOne[T any](ctx context.Context, tx pgx.Tx, scan func(pgx.Row) (T, error), sql string, args ...any) (T, error) {
	row, err := scan(tx.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		var zero T
		return zero, nil
	}
	return row, err
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

const paymentColumns = `id, external_id, payment_id, user_id, plan_id, status, amount::text, method,
	last_four_digits, subscription_id, idempotency_key, created_at, updated_at`

type pgPaymentRepo struct{ tx pgx.Tx }

func scanPayment(row pgx.Row) (entities.Payment, error) {
	var p entities.Payment
	var status, amount string
	err := row.Scan(&p.ID, &p.ExternalID, &p.PaymentID, &p.UserID, &p.PlanID, &status, &amount, &p.Method,
		&p.LastFourDigits, &p.SubscriptionID, &p.IdempotencyKey, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return entities.Payment{}, err
	}
	p.Status = entities.PaymentStatus(status)
	if p.Amount, err = parseAmount(amount); err != nil {
		return entities.Payment{}, err
	}
	return p, nil
}

func (r pgPaymentRepo) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	return queryOne(ctx, r.tx, scanPayment, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

func (r pgPaymentRepo) GetByExternalID(ctx context.Context, externalID string) (entities.Payment, error) {
	if externalID == "" {
		return entities.Payment{}, nil
	}
	return queryOne(ctx, r.tx, scanPayment, `SELECT `+paymentColumns+` FROM payments WHERE external_id = $1`, externalID)
}

func (r pgPaymentRepo) GetByExternalIDForUpdate(ctx context.Context, externalID string) (entities.Payment, error) {
	if externalID == "" {
		return entities.Payment{}, nil
	}
	return queryOne(ctx, r.tx, scanPayment, `SELECT `+paymentColumns+` FROM payments WHERE external_id = $1 FOR UPDATE`, externalID)
}

func (r pgPaymentRepo) Add(ctx context.Context, p entities.Payment) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO payments (id, external_id, payment_id, user_id, plan_id, status, amount, method,
			last_four_digits, subscription_id, idempotency_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.ExternalID, p.PaymentID, p.UserID, p.PlanID, string(p.Status), p.Amount.String(), p.Method,
		p.LastFourDigits, p.SubscriptionID, p.IdempotencyKey, p.CreatedAt, p.UpdatedAt)
	return mapPgError(err)
}

func (r pgPaymentRepo) Update(ctx context.Context, p entities.Payment) error {
	return execOne(ctx, r.tx, `
		UPDATE payments SET external_id = $2, payment_id = $3, user_id = $4, plan_id = $5, status = $6,
			amount = $7::numeric, method = $8, last_four_digits = $9, subscription_id = $10,
			idempotency_key = $11, updated_at = $12
		WHERE id = $1`,
		p.ID, p.ExternalID, p.PaymentID, p.UserID, p.PlanID, string(p.Status), p.Amount.String(), p.Method,
		p.LastFourDigits, p.SubscriptionID, p.IdempotencyKey, p.UpdatedAt)
}

func (r pgPaymentRepo) Remove(ctx context.Context, id string) error {
	return execOne(ctx, r.tx, `DELETE FROM payments WHERE id = $1`, id)
}

const subscriptionColumns = `id, external_id, user_id, plan_id, status, current_period_start_date,
	current_period_end_date, card_token_id, last_four_card_digits, payment_id, customer_id, created_at, updated_at`

type pgSubscriptionRepo struct{ tx pgx.Tx }

func scanSubscription(row pgx.Row) (entities.Subscription, error) {
	var s entities.Subscription
	var status string
	err := row.Scan(&s.ID, &s.ExternalID, &s.UserID, &s.PlanID, &status, &s.CurrentPeriodStartDate,
		&s.CurrentPeriodEndDate, &s.CardTokenID, &s.LastFourCardDigits, &s.PaymentID, &s.CustomerID,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return entities.Subscription{}, err
	}
	s.Status = entities.SubscriptionStatus(status)
	return s, nil
}

func (r pgSubscriptionRepo) get(ctx context.Context, where string, arg string) (entities.Subscription, error) {
	if arg == "" {
		return entities.Subscription{}, nil
	}
	return queryOne(ctx, r.tx, scanSubscription, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE `+where, arg)
}

func (r pgSubscriptionRepo) GetByExternalID(ctx context.Context, externalID string) (entities.Subscription, error) {
	return r.get(ctx, `external_id = $1`, externalID)
}

func (r pgSubscriptionRepo) GetByIDForUpdate(ctx context.Context, id string) (entities.Subscription, error) {
	return r.get(ctx, `id = $1 FOR UPDATE`, id)
}

func (r pgSubscriptionRepo) GetByExternalIDForUpdate(ctx context.Context, externalID string) (entities.Subscription, error) {
	return r.get(ctx, `external_id = $1 FOR UPDATE`, externalID)
}

func (r pgSubscriptionRepo) GetByPaymentIDForUpdate(ctx context.Context, paymentID string) (entities.Subscription, error) {
	return r.get(ctx, `payment_id = $1 ORDER BY id LIMIT 1 FOR UPDATE`, paymentID)
}

func (r pgSubscriptionRepo) GetActiveByCustomerIDForUpdate(ctx context.Context, customerID string) (entities.Subscription, error) {
	return r.get(ctx, `customer_id = $1 AND status IN ('active', 'paused') ORDER BY id LIMIT 1 FOR UPDATE`, customerID)
}

func (r pgSubscriptionRepo) GetActiveByUserID(ctx context.Context, userID string) (entities.Subscription, error) {
	return r.get(ctx, `user_id = $1 AND status = 'active' ORDER BY id LIMIT 1`, userID)
}

func (r pgSubscriptionRepo) Add(ctx context.Context, s entities.Subscription) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO subscriptions (id, external_id, user_id, plan_id, status, current_period_start_date,
			current_period_end_date, card_token_id, last_four_card_digits, payment_id, customer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		s.ID, s.ExternalID, s.UserID, s.PlanID, string(s.Status), s.CurrentPeriodStartDate,
		s.CurrentPeriodEndDate, s.CardTokenID, s.LastFourCardDigits, s.PaymentID, s.CustomerID, s.CreatedAt, s.UpdatedAt)
	return mapPgError(err)
}

func (r pgSubscriptionRepo) Update(ctx context.Context, s entities.Subscription) error {
	return execOne(ctx, r.tx, `
		UPDATE subscriptions SET external_id = $2, user_id = $3, plan_id = $4, status = $5,
			current_period_start_date = $6, current_period_end_date = $7, card_token_id = $8,
			last_four_card_digits = $9, payment_id = $10, customer_id = $11, updated_at = $12
		WHERE id = $1`,
		s.ID, s.ExternalID, s.UserID, s.PlanID, string(s.Status), s.CurrentPeriodStartDate,
		s.CurrentPeriodEndDate, s.CardTokenID, s.LastFourCardDigits, s.PaymentID, s.CustomerID, s.UpdatedAt)
}

const planColumns = `id, external_plan_id, name, description, transaction_amount::text, currency_id,
	frequency_interval, frequency_type, is_active, created_at, updated_at`

type pgPlanRepo struct{ tx pgx.Tx }

func scanPlan(row pgx.Row) (entities.Plan, error) {
	var p entities.Plan
	var amount, freq string
	err := row.Scan(&p.ID, &p.ExternalPlanID, &p.Name, &p.Description, &amount, &p.CurrencyID,
		&p.FrequencyInterval, &freq, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return entities.Plan{}, err
	}
	p.FrequencyType = entities.FrequencyType(freq)
	if p.TransactionAmount, err = parseAmount(amount); err != nil {
		return entities.Plan{}, err
	}
	return p, nil
}

func (r pgPlanRepo) GetByID(ctx context.Context, id string) (entities.Plan, error) {
	return queryOne(ctx, r.tx, scanPlan, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id)
}

func (r pgPlanRepo) GetByExternalIDForUpdate(ctx context.Context, externalPlanID string) (entities.Plan, error) {
	return queryOne(ctx, r.tx, scanPlan, `SELECT `+planColumns+` FROM plans WHERE external_plan_id = $1 FOR UPDATE`, externalPlanID)
}

func (r pgPlanRepo) ListActive(ctx context.Context) ([]entities.Plan, error) {
	rows, err := r.tx.Query(ctx, `SELECT `+planColumns+` FROM plans WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]entities.Plan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r pgPlanRepo) Add(ctx context.Context, p entities.Plan) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO plans (id, external_plan_id, name, description, transaction_amount, currency_id,
			frequency_interval, frequency_type, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.ExternalPlanID, p.Name, p.Description, p.TransactionAmount.String(), p.CurrencyID,
		p.FrequencyInterval, string(p.FrequencyType), p.IsActive, p.CreatedAt, p.UpdatedAt)
	return mapPgError(err)
}

func (r pgPlanRepo) Update(ctx context.Context, p entities.Plan) error {
	return execOne(ctx, r.tx, `
		UPDATE plans SET external_plan_id = $2, name = $3, description = $4, transaction_amount = $5::numeric,
			currency_id = $6, frequency_interval = $7, frequency_type = $8, is_active = $9, updated_at = $10
		WHERE id = $1`,
		p.ID, p.ExternalPlanID, p.Name, p.Description, p.TransactionAmount.String(), p.CurrencyID,
		p.FrequencyInterval, string(p.FrequencyType), p.IsActive, p.UpdatedAt)
}

const chargebackColumns = `id, chargeback_id, payment_id, user_id, status, amount::text, created_at, updated_at`

type pgChargebackRepo struct{ tx pgx.Tx }

func scanChargeback(row pgx.Row) (entities.Chargeback, error) {
	var c entities.Chargeback
	var status, amount string
	if err := row.Scan(&c.ID, &c.ChargebackID, &c.PaymentID, &c.UserID, &status, &amount, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return entities.Chargeback{}, err
	}
	c.Status = entities.ChargebackStatus(status)
	var err error
	if c.Amount, err = parseAmount(amount); err != nil {
		return entities.Chargeback{}, err
	}
	return c, nil
}

func (r pgChargebackRepo) GetByChargebackID(ctx context.Context, chargebackID int64) (entities.Chargeback, error) {
	return queryOne(ctx, r.tx, scanChargeback, `SELECT `+chargebackColumns+` FROM chargebacks WHERE chargeback_id = $1`, chargebackID)
}

func (r pgChargebackRepo) Add(ctx context.Context, c entities.Chargeback) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO chargebacks (id, chargeback_id, payment_id, user_id, status, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8)`,
		c.ID, c.ChargebackID, c.PaymentID, c.UserID, string(c.Status), c.Amount.String(), c.CreatedAt, c.UpdatedAt)
	return mapPgError(err)
}

func (r pgChargebackRepo) Update(ctx context.Context, c entities.Chargeback) error {
	return execOne(ctx, r.tx, `
		UPDATE chargebacks SET payment_id = $2, user_id = $3, status = $4, amount = $5::numeric, updated_at = $6
		WHERE id = $1`,
		c.ID, c.PaymentID, c.UserID, string(c.Status), c.Amount.String(), c.UpdatedAt)
}

const claimColumns = `id, mp_claim_id, resource_id, resource_type, type, user_id, status, current_stage, created_at, updated_at`

type pgClaimRepo struct{ tx pgx.Tx }

func scanClaim(row pgx.Row) (entities.Claim, error) {
	var c entities.Claim
	var resourceType, status, stage string
	err := row.Scan(&c.ID, &c.MPClaimID, &c.ResourceID, &resourceType, &c.Type, &c.UserID, &status, &stage,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return entities.Claim{}, err
	}
	c.ResourceType = entities.ClaimResourceType(resourceType)
	c.Status = entities.ClaimStatus(status)
	c.CurrentStage = entities.ClaimStage(stage)
	return c, nil
}

func (r pgClaimRepo) GetByMPClaimID(ctx context.Context, mpClaimID int64) (entities.Claim, error) {
	return queryOne(ctx, r.tx, scanClaim, `SELECT `+claimColumns+` FROM claims WHERE mp_claim_id = $1`, mpClaimID)
}

func (r pgClaimRepo) Add(ctx context.Context, c entities.Claim) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO claims (id, mp_claim_id, resource_id, resource_type, type, user_id, status, current_stage,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.MPClaimID, c.ResourceID, string(c.ResourceType), c.Type, c.UserID, string(c.Status),
		string(c.CurrentStage), c.CreatedAt, c.UpdatedAt)
	return mapPgError(err)
}

func (r pgClaimRepo) Update(ctx context.Context, c entities.Claim) error {
	return execOne(ctx, r.tx, `
		UPDATE claims SET resource_id = $2, resource_type = $3, type = $4, user_id = $5, status = $6,
			current_stage = $7, updated_at = $8
		WHERE id = $1`,
		c.ID, c.ResourceID, string(c.ResourceType), c.Type, c.UserID, string(c.Status), string(c.CurrentStage),
		c.UpdatedAt)
}
