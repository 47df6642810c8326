package usecase

import (
	"context"
	"log"

	"billing_reconciler/internal/domain/apperrors"
	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"
)

// NotificationProcessor routes a job to its reconciliation handler and, once
// the handler committed, to the effect dispatcher.
type NotificationProcessor struct {
	handlers   map[entities.JobKind]IReconciliationHandler
	dispatcher *EffectDispatcher
}

var _ interfaces.IJobProcessor = (*NotificationProcessor)(nil)

func NewNotificationProcessor(dispatcher *EffectDispatcher) *NotificationProcessor {
	return &NotificationProcessor{handlers: make(map[entities.JobKind]IReconciliationHandler), dispatcher: dispatcher}
}

// Register binds kind to h, replacing any previous handler.
func (p *NotificationProcessor) Register(kind entities.JobKind, h IReconciliationHandler) *NotificationProcessor {
	p.handlers[kind] = h
	return p
}

func (p *NotificationProcessor) Process(ctx context.Context, kind entities.JobKind, resourceID string) error {
	h, ok := p.handlers[kind]
	if !ok {
		return apperrors.InvalidPayload("process", "no handler for job kind "+string(kind))
	}
	effects, err := h.Handle(ctx, resourceID)
	if err != nil {
		log.Printf("[jobs][processor] handler failed kind=%s resource_id=%s kind_of=%s err=%v", kind, resourceID, apperrors.KindOf(err), err)
		return err
	}
	if p.dispatcher != nil {
		p.dispatcher.Dispatch(ctx, effects)
	}
	return nil
}

// NewReconciliationProcessor wires every reconciliation handler.
func NewReconciliationProcessor(ledger interfaces.ILedger, gateway interfaces.IProviderGateway, dispatcher *EffectDispatcher) *NotificationProcessor {
	return NewNotificationProcessor(dispatcher).
		Register(entities.JobKindPayment, NewPaymentNotificationUseCase(ledger, gateway)).
		Register(entities.JobKindSubscriptionCreate, NewSubscriptionCreateUseCase(ledger, gateway)).
		Register(entities.JobKindSubscriptionRenewal, NewSubscriptionRenewalUseCase(ledger, gateway)).
		Register(entities.JobKindChargeback, NewChargebackUseCase(ledger, gateway)).
		Register(entities.JobKindClaim, NewClaimUseCase(ledger, gateway)).
		Register(entities.JobKindCardUpdate, NewCardUpdateUseCase(ledger, gateway)).
		Register(entities.JobKindPlanUpdate, NewPlanUpdateUseCase(ledger, gateway))
}
