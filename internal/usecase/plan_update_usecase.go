package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"billing_reconciler/internal/domain/apperrors"
	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"
)

// PlanUpdateUseCase pulls drift on a preapproval plan back into the local
// catalog and tells operators what changed.
type PlanUpdateUseCase struct {
	ledger  interfaces.ILedger
	gateway interfaces.IProviderGateway
	now     func() time.Time
}

var _ IReconciliationHandler = (*PlanUpdateUseCase)(nil)

func NewPlanUpdateUseCase(ledger interfaces.ILedger, gateway interfaces.IProviderGateway) *PlanUpdateUseCase {
	return &PlanUpdateUseCase{ledger: ledger, gateway: gateway, now: utcNow}
}

func (u *PlanUpdateUseCase) Handle(ctx context.Context, resourceID string) (entities.Effects, error) {
	const op = "plan.update"
	var effects entities.Effects

	externalPlanID, err := requireResourceID(op, resourceID)
	if err != nil {
		return effects, err
	}
	log.Printf("[plan][usecase] start external_plan_id=%s", externalPlanID)

	uow, err := begin(ctx, u.ledger, op)
	if err != nil {
		return effects, err
	}
	defer uow.Rollback(ctx)

	plan, err := uow.Plans().GetByExternalIDForUpdate(ctx, externalPlanID)
	if err != nil {
		return effects, storeErr(op, "lock plan", err)
	}
	if plan.ID == "" {
		log.Printf("[plan][usecase] plan not tracked locally external_plan_id=%s", externalPlanID)
		return effects, nil
	}

	details, err := u.gateway.GetPlanByID(ctx, externalPlanID)
	if err != nil {
		return effects, gatewayErr(op, "get plan", err)
	}
	active, err := entities.MapProviderPlanStatus(details.Status)
	if err != nil {
		return effects, apperrors.ExternalAPI(op, "map plan status", err)
	}

	var changes []string
	if plan.IsActive != active {
		changes = append(changes, fmt.Sprintf("is_active: %t -> %t", plan.IsActive, active))
		plan.IsActive = active
	}
	if !plan.TransactionAmount.Equal(details.TransactionAmount) {
		changes = append(changes, fmt.Sprintf("transaction_amount: %s -> %s", plan.TransactionAmount.StringFixed(2), details.TransactionAmount.StringFixed(2)))
		plan.TransactionAmount = details.TransactionAmount
	}
	if details.FrequencyInterval > 0 && plan.FrequencyInterval != details.FrequencyInterval {
		changes = append(changes, fmt.Sprintf("frequency_interval: %d -> %d", plan.FrequencyInterval, details.FrequencyInterval))
		plan.FrequencyInterval = details.FrequencyInterval
	}
	if len(changes) == 0 {
		log.Printf("[plan][usecase] plan in sync plan_id=%s", plan.ID)
		return effects, nil
	}

	plan.UpdatedAt = u.now()
	if err := uow.Plans().Update(ctx, plan); err != nil {
		return effects, storeErr(op, "update plan", err)
	}
	if err := commit(ctx, uow, op); err != nil {
		return effects, err
	}
	log.Printf("[plan][usecase] plan updated plan_id=%s changes=%d", plan.ID, len(changes))

	effects.Admin = append(effects.Admin, entities.AdminIntent{
		Subject: fmt.Sprintf("Plan %q (%s) was updated from the provider", plan.Name, externalPlanID),
		Changes: changes,
	})
	effects.BumpVersions = append(effects.BumpVersions, entities.CacheVersionPlans)
	return effects, nil
}
