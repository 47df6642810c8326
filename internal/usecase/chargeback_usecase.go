package usecase

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"billing_reconciler/internal/domain/apperrors"
	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// ChargebackUseCase records provider chargebacks. The first notification
// creates the row, flags the payment and cancels the linked subscription;
// later ones only refresh amount and status.
type ChargebackUseCase struct {
	ledger  interfaces.ILedger
	gateway interfaces.IProviderGateway
	now     func() time.Time
}

var _ IReconciliationHandler = (*ChargebackUseCase)(nil)

func NewChargebackUseCase(ledger interfaces.ILedger, gateway interfaces.IProviderGateway) *ChargebackUseCase {
	return &ChargebackUseCase{ledger: ledger, gateway: gateway, now: utcNow}
}

func (u *ChargebackUseCase) Handle(ctx context.Context, resourceID string) (entities.Effects, error) {
	const op = "chargeback"
	var effects entities.Effects

	chargebackID, err := parseProviderID(op, resourceID)
	if err != nil {
		return effects, err
	}
	idText := strconv.FormatInt(chargebackID, 10)
	log.Printf("[chargeback][usecase] start chargeback_id=%s", idText)

	uow, err := begin(ctx, u.ledger, op)
	if err != nil {
		return effects, err
	}
	defer uow.Rollback(ctx)

	if err := uow.LockKey(ctx, "chargeback:"+idText); err != nil {
		return effects, storeErr(op, "lock chargeback", err)
	}
	existing, err := uow.Chargebacks().GetByChargebackID(ctx, chargebackID)
	if err != nil {
		return effects, storeErr(op, "load chargeback", err)
	}

	details, err := u.gateway.GetChargebackDetails(ctx, idText)
	if err != nil {
		return effects, gatewayErr(op, "get chargeback", err)
	}
	status, err := entities.MapProviderChargebackStatus(details.DocumentationStatus)
	if err != nil {
		return effects, apperrors.ExternalAPI(op, "map chargeback status", err)
	}
	now := u.now()

	if existing.ID != "" {
		if existing.Amount.Equal(details.Amount) && existing.Status == status {
			log.Printf("[chargeback][usecase] unchanged chargeback_id=%s", idText)
			return effects, nil
		}
		existing.Amount = details.Amount
		existing.Status = status
		existing.UpdatedAt = now
		if err := uow.Chargebacks().Update(ctx, existing); err != nil {
			return effects, storeErr(op, "update chargeback", err)
		}
		if err := commit(ctx, uow, op); err != nil {
			return effects, err
		}
		log.Printf("[chargeback][usecase] updated chargeback_id=%s status=%s", idText, status)
		return effects, nil
	}

	if len(details.PaymentIDs) == 0 || strings.TrimSpace(details.PaymentIDs[0]) == "" {
		return effects, apperrors.InvalidPayload(op, "chargeback "+idText+" references no payment")
	}
	paymentExternalID := strings.TrimSpace(details.PaymentIDs[0])
	paymentNumericID, err := parseProviderID(op, paymentExternalID)
	if err != nil {
		return effects, err
	}

	p, err := uow.Payments().GetByExternalIDForUpdate(ctx, paymentExternalID)
	if err != nil {
		return effects, storeErr(op, "lock payment", err)
	}
	if p.ID == "" {
		return effects, apperrors.ResourceNotFound(op, "payment "+paymentExternalID+" not found")
	}
	if p.Status.CanTransitionTo(entities.PaymentStatusChargeback) {
		p.Status = entities.PaymentStatusChargeback
		p.UpdatedAt = now
		if err := uow.Payments().Update(ctx, p); err != nil {
			return effects, storeErr(op, "update payment", err)
		}
	} else {
		log.Printf("[chargeback][usecase] payment status kept payment_id=%s status=%s", p.ID, p.Status)
	}

	var sub entities.Subscription
	if p.SubscriptionID != "" {
		sub, err = uow.Subscriptions().GetByIDForUpdate(ctx, p.SubscriptionID)
	} else {
		sub, err = uow.Subscriptions().GetByExternalIDForUpdate(ctx, p.ExternalID)
	}
	if err != nil {
		return effects, storeErr(op, "lock subscription", err)
	}
	if sub.ID != "" && sub.Status != entities.SubscriptionStatusCancelled {
		sub.Status = entities.SubscriptionStatusCancelled
		sub.UpdatedAt = now
		if err := uow.Subscriptions().Update(ctx, sub); err != nil {
			return effects, storeErr(op, "update subscription", err)
		}
	}

	cb := entities.Chargeback{
		ID:           uuid.NewString(),
		ChargebackID: chargebackID,
		PaymentID:    paymentNumericID,
		UserID:       p.UserID,
		Status:       status,
		Amount:       details.Amount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.Chargebacks().Add(ctx, cb); err != nil {
		return effects, storeErr(op, "add chargeback", err)
	}
	if err := commit(ctx, uow, op); err != nil {
		return effects, err
	}
	log.Printf("[chargeback][usecase] created chargeback_id=%s payment_id=%s user_id=%s", idText, p.ID, p.UserID)

	effects.Email(entities.EmailChargebackReceived, p.UserID, map[string]any{
		"chargeback_id": idText,
		"payment_id":    paymentExternalID,
		"amount":        cb.Amount.StringFixed(2),
	})
	effects.Invalidate(entities.UserPaymentsCacheKey(p.UserID), entities.UserSubscriptionCacheKey(p.UserID))
	return effects, nil
}
