package usecase

import (
	"context"
	"log"
	"time"

	"billing_reconciler/internal/domain/apperrors"
	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"
)

// SubscriptionRenewalUseCase extends a subscription by one plan interval when
// a recurring charge is approved.
//
// The gate is the period end: a subscription whose period has not elapsed was
// already renewed, so replays of the same notification are no-ops.
type SubscriptionRenewalUseCase struct {
	ledger  interfaces.ILedger
	gateway interfaces.IProviderGateway
	now     func() time.Time
}

var _ IReconciliationHandler = (*SubscriptionRenewalUseCase)(nil)

func NewSubscriptionRenewalUseCase(ledger interfaces.ILedger, gateway interfaces.IProviderGateway) *SubscriptionRenewalUseCase {
	return &SubscriptionRenewalUseCase{ledger: ledger, gateway: gateway, now: utcNow}
}

func (u *SubscriptionRenewalUseCase) Handle(ctx context.Context, resourceID string) (entities.Effects, error) {
	const op = "subscription.renewal"
	var effects entities.Effects

	paymentID, err := requireResourceID(op, resourceID)
	if err != nil {
		return effects, err
	}
	log.Printf("[renewal][usecase] start payment_id=%s", paymentID)

	uow, err := begin(ctx, u.ledger, op)
	if err != nil {
		return effects, err
	}
	defer uow.Rollback(ctx)

	sub, err := uow.Subscriptions().GetByPaymentIDForUpdate(ctx, paymentID)
	if err != nil {
		return effects, storeErr(op, "lock subscription", err)
	}
	if sub.ID == "" {
		return effects, apperrors.ResourceNotFound(op, "subscription for payment "+paymentID+" not found")
	}
	now := u.now()
	if !sub.DueForRenewal(now) {
		log.Printf("[renewal][usecase] already renewed subscription_id=%s end=%s", sub.ID, sub.CurrentPeriodEndDate.Format(time.RFC3339))
		return effects, nil
	}

	charge, err := u.gateway.GetAuthorizedPayment(ctx, paymentID)
	if err != nil {
		return effects, gatewayErr(op, "get authorized payment", err)
	}
	status, err := entities.MapProviderPaymentStatus(charge.PaymentStatus)
	if err != nil {
		return effects, apperrors.ExternalAPI(op, "map authorized payment status", err)
	}
	switch status {
	case entities.PaymentStatusApproved:
	case entities.PaymentStatusPending:
		return effects, apperrors.AppService(op, "authorized payment "+paymentID+" not settled yet", nil)
	default:
		log.Printf("[renewal][usecase] charge not approved subscription_id=%s status=%s", sub.ID, status)
		return effects, nil
	}

	plan, err := uow.Plans().GetByID(ctx, sub.PlanID)
	if err != nil {
		return effects, storeErr(op, "load plan", err)
	}
	if plan.ID == "" {
		return effects, apperrors.ResourceNotFound(op, "plan "+sub.PlanID+" not found")
	}

	previousEnd := sub.CurrentPeriodEndDate
	sub.CurrentPeriodStartDate = previousEnd
	sub.CurrentPeriodEndDate = plan.NextPeriodEnd(previousEnd)
	sub.Status = entities.SubscriptionStatusActive
	sub.UpdatedAt = now
	if err := uow.Subscriptions().Update(ctx, sub); err != nil {
		return effects, storeErr(op, "update subscription", err)
	}
	if err := commit(ctx, uow, op); err != nil {
		return effects, err
	}
	log.Printf("[renewal][usecase] renewed subscription_id=%s end=%s", sub.ID, sub.CurrentPeriodEndDate.Format(time.RFC3339))

	effects.Email(entities.EmailSubscriptionRenewal, sub.UserID, map[string]any{
		"subscription_id": sub.ID,
		"plan_name":       plan.Name,
		"amount":          charge.Amount.StringFixed(2),
		"period_end":      sub.CurrentPeriodEndDate.Format(time.RFC3339),
	})
	effects.Invalidate(entities.UserSubscriptionCacheKey(sub.UserID))
	return effects, nil
}
