package usecase

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"billing_reconciler/internal/domain/apperrors"
	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// PaymentReference is the external_reference the checkout attaches to every
// payment so notifications can be tied back to a plan and a user.
type PaymentReference struct {
	PlanID string `json:"plan_id"`
	UserID string `json:"user_id"`
}

func parsePaymentReference(raw string) (PaymentReference, bool) {
	var ref PaymentReference
	raw = strings.TrimSpace(raw)
	if raw == "" || json.Unmarshal([]byte(raw), &ref) != nil {
		return PaymentReference{}, false
	}
	return ref, true
}

// PaymentNotificationUseCase settles a local payment from the provider's
// payment status.
type PaymentNotificationUseCase struct {
	ledger  interfaces.ILedger
	gateway interfaces.IProviderGateway
	now     func() time.Time
}

var _ IReconciliationHandler = (*PaymentNotificationUseCase)(nil)

func NewPaymentNotificationUseCase(ledger interfaces.ILedger, gateway interfaces.IProviderGateway) *PaymentNotificationUseCase {
	return &PaymentNotificationUseCase{ledger: ledger, gateway: gateway, now: utcNow}
}

func (u *PaymentNotificationUseCase) Handle(ctx context.Context, resourceID string) (entities.Effects, error) {
	const op = "payment.notification"
	var effects entities.Effects

	externalID, err := requireResourceID(op, resourceID)
	if err != nil {
		return effects, err
	}
	log.Printf("[payment][usecase] notification start external_id=%s", externalID)

	uow, err := begin(ctx, u.ledger, op)
	if err != nil {
		return effects, err
	}
	defer uow.Rollback(ctx)

	p, err := uow.Payments().GetByExternalIDForUpdate(ctx, externalID)
	if err != nil {
		return effects, storeErr(op, "lock payment", err)
	}
	if p.ID == "" {
		log.Printf("[payment][usecase] payment not found external_id=%s", externalID)
		return effects, apperrors.ResourceNotFound(op, "payment "+externalID+" not found")
	}
	if !p.Status.AwaitingProcessing() {
		log.Printf("[payment][usecase] already processed payment_id=%s status=%s", p.ID, p.Status)
		return effects, nil
	}

	details, err := u.gateway.GetPaymentStatus(ctx, externalID)
	if err != nil {
		log.Printf("[payment][usecase] gateway failed external_id=%s err=%v", externalID, err)
		return effects, gatewayErr(op, "get payment", err)
	}
	next, err := entities.MapProviderPaymentStatus(details.Status)
	if err != nil {
		return effects, apperrors.ExternalAPI(op, "map payment status", err)
	}

	now := u.now()
	switch next {
	case entities.PaymentStatusPending:
		if p.Status == entities.PaymentStatusPending {
			log.Printf("[payment][usecase] still pending payment_id=%s provider_status=%s", p.ID, details.Status)
			return effects, nil
		}
		p.Status = entities.PaymentStatusPending
		p.UpdatedAt = now
		if err := uow.Payments().Update(ctx, p); err != nil {
			return effects, storeErr(op, "update payment", err)
		}
		if err := commit(ctx, uow, op); err != nil {
			return effects, err
		}
		log.Printf("[payment][usecase] moved to pending payment_id=%s", p.ID)
		return effects, nil
	case entities.PaymentStatusChargeback:
		log.Printf("[payment][usecase] charged_back on awaiting payment left to chargeback handler payment_id=%s", p.ID)
		return effects, nil
	}

	p.Status = next
	p.UpdatedAt = now
	if p.LastFourDigits == "" {
		p.LastFourDigits = details.LastFourDigits
	}
	if p.Method == "" {
		p.Method = details.PaymentMethodID
	}

	sub, err := u.linkedSubscription(ctx, uow, p)
	if err != nil {
		return effects, err
	}
	switch {
	case sub.ID == "" && next == entities.PaymentStatusApproved:
		created, err := u.openSubscription(ctx, uow, &p, details, now)
		if err != nil {
			return effects, err
		}
		sub = created
	case sub.ID != "":
		if status, ok := entities.SubscriptionStatusForPayment(next); ok && sub.Status != status {
			sub.Status = status
			sub.UpdatedAt = now
			if err := uow.Subscriptions().Update(ctx, sub); err != nil {
				return effects, storeErr(op, "update subscription", err)
			}
		}
	}

	if err := uow.Payments().Update(ctx, p); err != nil {
		return effects, storeErr(op, "update payment", err)
	}
	if err := commit(ctx, uow, op); err != nil {
		log.Printf("[payment][usecase] commit failed payment_id=%s err=%v", p.ID, err)
		return effects, err
	}
	log.Printf("[payment][usecase] notification applied payment_id=%s status=%s subscription_id=%s", p.ID, p.Status, sub.ID)

	view := map[string]any{
		"payment_id": p.ExternalID,
		"amount":     p.Amount.StringFixed(2),
	}
	switch next {
	case entities.PaymentStatusApproved:
		if sub.ID != "" {
			view["subscription_end"] = sub.CurrentPeriodEndDate.Format(time.RFC3339)
		}
		effects.Email(entities.EmailPaymentConfirmation, p.UserID, view)
	case entities.PaymentStatusRejected, entities.PaymentStatusCancelled:
		view["status_detail"] = details.StatusDetail
		effects.Email(entities.EmailPaymentRejection, p.UserID, view)
	case entities.PaymentStatusRefunded:
		effects.Email(entities.EmailPaymentRefund, p.UserID, view)
		effects.Notify(p.UserID, entities.RealtimeEventRefundCompleted, map[string]any{"payment_id": p.ExternalID})
	}
	effects.Invalidate(entities.UserPaymentsCacheKey(p.UserID), entities.UserSubscriptionCacheKey(p.UserID))
	return effects, nil
}

func (u *PaymentNotificationUseCase) linkedSubscription(ctx context.Context, uow interfaces.IUnitOfWork, p entities.Payment) (entities.Subscription, error) {
	const op = "payment.notification"
	var (
		sub entities.Subscription
		err error
	)
	if p.SubscriptionID != "" {
		sub, err = uow.Subscriptions().GetByIDForUpdate(ctx, p.SubscriptionID)
	} else {
		sub, err = uow.Subscriptions().GetByExternalIDForUpdate(ctx, p.ExternalID)
	}
	if err != nil {
		return entities.Subscription{}, storeErr(op, "lock subscription", err)
	}
	return sub, nil
}

// openSubscription creates the subscription an approved payment paid for. The
// plan comes from the payment's external reference, falling back to the plan
// recorded at checkout. A payment with no plan is approved on its own.
func (u *PaymentNotificationUseCase) openSubscription(ctx context.Context, uow interfaces.IUnitOfWork, p *entities.Payment, details entities.PaymentDetails, now time.Time) (entities.Subscription, error) {
	const op = "payment.notification"

	planID := p.PlanID
	userID := p.UserID
	if ref, ok := parsePaymentReference(details.ExternalReference); ok {
		if ref.PlanID != "" {
			planID = ref.PlanID
		}
		if userID == "" {
			userID = ref.UserID
		}
	}
	if planID == "" {
		log.Printf("[payment][usecase] approved without plan reference payment_id=%s", p.ID)
		return entities.Subscription{}, nil
	}

	plan, err := uow.Plans().GetByID(ctx, planID)
	if err != nil {
		return entities.Subscription{}, storeErr(op, "load plan", err)
	}
	if plan.ID == "" {
		return entities.Subscription{}, apperrors.ResourceNotFound(op, "plan "+planID+" not found")
	}

	paymentID := p.PaymentID
	if paymentID == "" {
		paymentID = p.ExternalID
	}
	sub := entities.Subscription{
		ID:                     uuid.NewString(),
		ExternalID:             p.ExternalID,
		UserID:                 userID,
		PlanID:                 plan.ID,
		Status:                 entities.SubscriptionStatusActive,
		CurrentPeriodStartDate: now,
		CurrentPeriodEndDate:   plan.NextPeriodEnd(now),
		LastFourCardDigits:     p.LastFourDigits,
		CustomerID:             details.PayerID,
		CardTokenID:            details.CardID,
		PaymentID:              paymentID,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := uow.Subscriptions().Add(ctx, sub); err != nil {
		return entities.Subscription{}, storeErr(op, "add subscription", err)
	}
	p.SubscriptionID = sub.ID
	p.PlanID = plan.ID
	if p.UserID == "" {
		p.UserID = userID
	}
	log.Printf("[payment][usecase] subscription opened subscription_id=%s plan_id=%s end=%s", sub.ID, plan.ID, sub.CurrentPeriodEndDate.Format(time.RFC3339))
	return sub, nil
}
