package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"billing_reconciler/internal/domain/apperrors"
	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"
)

// CardResourceID joins the identifiers a card update notification carries.
func CardResourceID(customerID, cardID string) string {
	return customerID + ":" + cardID
}

func splitCardResourceID(resourceID string) (customerID, cardID string, ok bool) {
	customerID, cardID, found := strings.Cut(strings.TrimSpace(resourceID), ":")
	customerID = strings.TrimSpace(customerID)
	cardID = strings.TrimSpace(cardID)
	return customerID, cardID, found && customerID != "" && cardID != ""
}

// CardUpdateUseCase moves a customer's billable subscription to a new card.
type CardUpdateUseCase struct {
	ledger  interfaces.ILedger
	gateway interfaces.IProviderGateway
	now     func() time.Time
}

var _ IReconciliationHandler = (*CardUpdateUseCase)(nil)

func NewCardUpdateUseCase(ledger interfaces.ILedger, gateway interfaces.IProviderGateway) *CardUpdateUseCase {
	return &CardUpdateUseCase{ledger: ledger, gateway: gateway, now: utcNow}
}

func (u *CardUpdateUseCase) Handle(ctx context.Context, resourceID string) (entities.Effects, error) {
	const op = "card.update"
	var effects entities.Effects

	customerID, cardID, ok := splitCardResourceID(resourceID)
	if !ok {
		return effects, apperrors.InvalidPayload(op, "resource id must be <customer_id>:<card_id>, got "+resourceID)
	}
	log.Printf("[card][usecase] start customer_id=%s card_id=%s", customerID, cardID)

	uow, err := begin(ctx, u.ledger, op)
	if err != nil {
		return effects, err
	}
	defer uow.Rollback(ctx)

	sub, err := uow.Subscriptions().GetActiveByCustomerIDForUpdate(ctx, customerID)
	if err != nil {
		return effects, storeErr(op, "lock subscription", err)
	}
	if sub.ID == "" {
		log.Printf("[card][usecase] no billable subscription customer_id=%s", customerID)
		return effects, nil
	}
	if sub.CardTokenID == cardID {
		log.Printf("[card][usecase] card already recorded subscription_id=%s", sub.ID)
		return effects, nil
	}

	card, err := u.gateway.GetCard(ctx, customerID, cardID)
	if err != nil {
		return effects, gatewayErr(op, "get card", err)
	}
	if card.LastFourDigits == "" {
		return effects, apperrors.AppService(op, "card "+cardID+" has no last four digits", nil)
	}

	cardToken := card.ID
	if cardToken == "" {
		cardToken = cardID
	}
	sub.CardTokenID = cardToken
	sub.LastFourCardDigits = card.LastFourDigits
	sub.UpdatedAt = u.now()
	if err := uow.Subscriptions().Update(ctx, sub); err != nil {
		return effects, storeErr(op, "update subscription", err)
	}
	if err := commit(ctx, uow, op); err != nil {
		return effects, err
	}
	log.Printf("[card][usecase] card updated subscription_id=%s last_four=%s", sub.ID, card.LastFourDigits)

	effects.Email(entities.EmailCardUpdated, sub.UserID, map[string]any{"last_four_digits": card.LastFourDigits})
	effects.Invalidate(entities.UserSubscriptionCacheKey(sub.UserID))
	return effects, nil
}
