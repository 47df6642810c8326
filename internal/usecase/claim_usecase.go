package usecase

import (
	"context"
	"log"
	"strconv"
	"time"

	"billing_reconciler/internal/domain/apperrors"
	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// ClaimUseCase mirrors buyer claims. Same create-or-update discipline as
// chargebacks: the owner is notified only when the claim is first seen.
type ClaimUseCase struct {
	ledger  interfaces.ILedger
	gateway interfaces.IProviderGateway
	now     func() time.Time
}

var _ IReconciliationHandler = (*ClaimUseCase)(nil)

func NewClaimUseCase(ledger interfaces.ILedger, gateway interfaces.IProviderGateway) *ClaimUseCase {
	return &ClaimUseCase{ledger: ledger, gateway: gateway, now: utcNow}
}

func (u *ClaimUseCase) Handle(ctx context.Context, resourceID string) (entities.Effects, error) {
	const op = "claim"
	var effects entities.Effects

	claimID, err := parseProviderID(op, resourceID)
	if err != nil {
		log.Printf("[claim][usecase] dropping notification with invalid id raw=%q", resourceID)
		return effects, err
	}
	idText := strconv.FormatInt(claimID, 10)
	log.Printf("[claim][usecase] start claim_id=%s", idText)

	uow, err := begin(ctx, u.ledger, op)
	if err != nil {
		return effects, err
	}
	defer uow.Rollback(ctx)

	if err := uow.LockKey(ctx, "claim:"+idText); err != nil {
		return effects, storeErr(op, "lock claim", err)
	}
	existing, err := uow.Claims().GetByMPClaimID(ctx, claimID)
	if err != nil {
		return effects, storeErr(op, "load claim", err)
	}

	details, err := u.gateway.GetClaimByID(ctx, claimID)
	if err != nil {
		return effects, gatewayErr(op, "get claim", err)
	}
	status, stage, err := entities.MapProviderClaimState(details.Status, details.Stage)
	if err != nil {
		return effects, apperrors.ExternalAPI(op, "map claim state", err)
	}
	now := u.now()

	if existing.ID != "" {
		if existing.Status == status && existing.CurrentStage == stage {
			log.Printf("[claim][usecase] unchanged claim_id=%s", idText)
			return effects, nil
		}
		existing.Status = status
		existing.CurrentStage = stage
		existing.UpdatedAt = now
		if err := uow.Claims().Update(ctx, existing); err != nil {
			return effects, storeErr(op, "update claim", err)
		}
		if err := commit(ctx, uow, op); err != nil {
			return effects, err
		}
		log.Printf("[claim][usecase] updated claim_id=%s status=%s stage=%s", idText, status, stage)
		return effects, nil
	}

	userID, resourceType, err := u.resolveOwner(ctx, uow, details)
	if err != nil {
		return effects, err
	}
	claim := entities.Claim{
		ID:           uuid.NewString(),
		MPClaimID:    claimID,
		ResourceID:   details.ResourceID,
		ResourceType: resourceType,
		Type:         details.Type,
		UserID:       userID,
		Status:       status,
		CurrentStage: stage,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.Claims().Add(ctx, claim); err != nil {
		return effects, storeErr(op, "add claim", err)
	}
	if err := commit(ctx, uow, op); err != nil {
		return effects, err
	}
	log.Printf("[claim][usecase] created claim_id=%s resource_id=%s user_id=%s", idText, claim.ResourceID, userID)

	if userID == "" {
		effects.Admin = append(effects.Admin, entities.AdminIntent{
			Subject: "Claim " + idText + " opened for an unknown resource",
			Changes: []string{"resource_id=" + details.ResourceID, "type=" + details.Type},
		})
		return effects, nil
	}
	effects.Email(entities.EmailClaimReceived, userID, map[string]any{
		"claim_id":    idText,
		"resource_id": claim.ResourceID,
		"stage":       string(stage),
	})
	return effects, nil
}

// resolveOwner finds the user behind the claimed resource: a payment by
// provider id first, then a subscription by provider id or local id.
func (u *ClaimUseCase) resolveOwner(ctx context.Context, uow interfaces.IUnitOfWork, details entities.ClaimDetails) (string, entities.ClaimResourceType, error) {
	const op = "claim"

	fallback := entities.ClaimResourceTypePayment
	if details.Resource == string(entities.ClaimResourceTypeSubscription) {
		fallback = entities.ClaimResourceTypeSubscription
	}
	if details.ResourceID == "" {
		return "", fallback, nil
	}

	p, err := uow.Payments().GetByExternalID(ctx, details.ResourceID)
	if err != nil {
		return "", "", storeErr(op, "load payment", err)
	}
	if p.ID != "" {
		return p.UserID, entities.ClaimResourceTypePayment, nil
	}

	sub, err := uow.Subscriptions().GetByExternalID(ctx, details.ResourceID)
	if err != nil {
		return "", "", storeErr(op, "load subscription", err)
	}
	if sub.ID == "" {
		sub, err = uow.Subscriptions().GetByIDForUpdate(ctx, details.ResourceID)
		if err != nil {
			return "", "", storeErr(op, "load subscription", err)
		}
	}
	if sub.ID != "" {
		return sub.UserID, entities.ClaimResourceTypeSubscription, nil
	}
	log.Printf("[claim][usecase] owner not found resource_id=%s", details.ResourceID)
	return "", fallback, nil
}
