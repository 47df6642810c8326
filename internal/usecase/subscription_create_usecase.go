package usecase

import (
	"context"
	"log"
	"time"

	"billing_reconciler/internal/domain/apperrors"
	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"
)

// SubscriptionCreateUseCase settles a pending preapproval once the provider
// authorizes, pauses or cancels it.
type SubscriptionCreateUseCase struct {
	ledger  interfaces.ILedger
	gateway interfaces.IProviderGateway
	now     func() time.Time
}

var _ IReconciliationHandler = (*SubscriptionCreateUseCase)(nil)

func NewSubscriptionCreateUseCase(ledger interfaces.ILedger, gateway interfaces.IProviderGateway) *SubscriptionCreateUseCase {
	return &SubscriptionCreateUseCase{ledger: ledger, gateway: gateway, now: utcNow}
}

func (u *SubscriptionCreateUseCase) Handle(ctx context.Context, resourceID string) (entities.Effects, error) {
	const op = "subscription.create"
	var effects entities.Effects

	preapprovalID, err := requireResourceID(op, resourceID)
	if err != nil {
		return effects, err
	}
	log.Printf("[subscription][usecase] create notification start preapproval_id=%s", preapprovalID)

	uow, err := begin(ctx, u.ledger, op)
	if err != nil {
		return effects, err
	}
	defer uow.Rollback(ctx)

	sub, err := uow.Subscriptions().GetByExternalIDForUpdate(ctx, preapprovalID)
	if err != nil {
		return effects, storeErr(op, "lock subscription", err)
	}
	if sub.ID == "" {
		return effects, apperrors.ResourceNotFound(op, "subscription "+preapprovalID+" not found")
	}
	if sub.Status != entities.SubscriptionStatusPending {
		log.Printf("[subscription][usecase] already processed subscription_id=%s status=%s", sub.ID, sub.Status)
		return effects, nil
	}

	details, err := u.gateway.GetSubscriptionByID(ctx, preapprovalID)
	if err != nil {
		return effects, gatewayErr(op, "get preapproval", err)
	}
	next, err := entities.MapProviderSubscriptionStatus(details.Status)
	if err != nil {
		return effects, apperrors.ExternalAPI(op, "map preapproval status", err)
	}
	if next == entities.SubscriptionStatusPending {
		log.Printf("[subscription][usecase] preapproval still pending subscription_id=%s", sub.ID)
		return effects, nil
	}

	now := u.now()
	sub.Status = next
	sub.UpdatedAt = now
	if next == entities.SubscriptionStatusActive {
		if err := u.activate(ctx, uow, &sub, details, now); err != nil {
			return effects, err
		}
	}
	if err := uow.Subscriptions().Update(ctx, sub); err != nil {
		return effects, storeErr(op, "update subscription", err)
	}
	if err := commit(ctx, uow, op); err != nil {
		return effects, err
	}
	log.Printf("[subscription][usecase] create notification applied subscription_id=%s status=%s", sub.ID, sub.Status)

	if next == entities.SubscriptionStatusActive {
		effects.Email(entities.EmailSubscriptionCreated, sub.UserID, map[string]any{
			"subscription_id":  sub.ID,
			"last_four_digits": sub.LastFourCardDigits,
			"period_end":       sub.CurrentPeriodEndDate.Format(time.RFC3339),
		})
	}
	effects.Invalidate(entities.UserSubscriptionCacheKey(sub.UserID))
	return effects, nil
}

// activate fills the card and the first period. Provider dates win; the plan
// interval is the fallback when the preapproval carries none.
func (u *SubscriptionCreateUseCase) activate(ctx context.Context, uow interfaces.IUnitOfWork, sub *entities.Subscription, details entities.SubscriptionDetails, now time.Time) error {
	const op = "subscription.create"

	if details.CardID != "" {
		sub.CardTokenID = details.CardID
	}
	if details.LastFourDigits != "" {
		sub.LastFourCardDigits = details.LastFourDigits
	}
	if details.PayerID != "" && sub.CustomerID == "" {
		sub.CustomerID = details.PayerID
	}

	start := now
	if details.StartDate != nil {
		start = details.StartDate.UTC()
	}
	sub.CurrentPeriodStartDate = start

	if details.NextPaymentDate != nil && !details.NextPaymentDate.Before(start) {
		sub.CurrentPeriodEndDate = details.NextPaymentDate.UTC()
		return nil
	}
	plan, err := uow.Plans().GetByID(ctx, sub.PlanID)
	if err != nil {
		return storeErr(op, "load plan", err)
	}
	if plan.ID == "" {
		return apperrors.ResourceNotFound(op, "plan "+sub.PlanID+" not found")
	}
	sub.CurrentPeriodEndDate = plan.NextPeriodEnd(start)
	return nil
}
