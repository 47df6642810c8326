package interfaces

import (
	"context"

	"billing_reconciler/internal/domain/entities"
)

// ILedger opens units of work over the payment ledger.
//
// Reads ending in ForUpdate take a pessimistic lock on the matched row that is
// held until Commit or Rollback. Like every repository in this service, a
// lookup that matches nothing returns the zero value and a nil error; callers
// check the ID.
type ILedger interface {
	Begin(ctx context.Context) (IUnitOfWork, error)
}

// IUnitOfWork stages writes across repositories and applies them atomically
// on Commit. Rollback after Commit is a no-op, so it is safe to defer.
type IUnitOfWork interface {
	Payments() IPaymentRepository
	Subscriptions() ISubscriptionRepository
	Plans() IPlanRepository
	Chargebacks() IChargebackRepository
	Claims() IClaimRepository

	// LockKey serializes units of work on an arbitrary key, for rows that may
	// not exist yet.
	LockKey(ctx context.Context, key string) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type IPaymentRepository interface {
	GetByID(ctx context.Context, id string) (entities.Payment, error)
	GetByExternalID(ctx context.Context, externalID string) (entities.Payment, error)
	GetByExternalIDForUpdate(ctx context.Context, externalID string) (entities.Payment, error)
	Add(ctx context.Context, p entities.Payment) error
	Update(ctx context.Context, p entities.Payment) error
	Remove(ctx context.Context, id string) error
}

type ISubscriptionRepository interface {
	GetByExternalID(ctx context.Context, externalID string) (entities.Subscription, error)
	GetByIDForUpdate(ctx context.Context, id string) (entities.Subscription, error)
	GetByExternalIDForUpdate(ctx context.Context, externalID string) (entities.Subscription, error)
	GetByPaymentIDForUpdate(ctx context.Context, paymentID string) (entities.Subscription, error)
	// GetActiveByCustomerIDForUpdate matches active or paused subscriptions.
	GetActiveByCustomerIDForUpdate(ctx context.Context, customerID string) (entities.Subscription, error)
	GetActiveByUserID(ctx context.Context, userID string) (entities.Subscription, error)
	Add(ctx context.Context, s entities.Subscription) error
	Update(ctx context.Context, s entities.Subscription) error
}

type IPlanRepository interface {
	GetByID(ctx context.Context, id string) (entities.Plan, error)
	GetByExternalIDForUpdate(ctx context.Context, externalPlanID string) (entities.Plan, error)
	ListActive(ctx context.Context) ([]entities.Plan, error)
	Add(ctx context.Context, p entities.Plan) error
	Update(ctx context.Context, p entities.Plan) error
}

type IChargebackRepository interface {
	GetByChargebackID(ctx context.Context, chargebackID int64) (entities.Chargeback, error)
	Add(ctx context.Context, c entities.Chargeback) error
	Update(ctx context.Context, c entities.Chargeback) error
}

type IClaimRepository interface {
	GetByMPClaimID(ctx context.Context, mpClaimID int64) (entities.Claim, error)
	Add(ctx context.Context, c entities.Claim) error
	Update(ctx context.Context, c entities.Claim) error
}
