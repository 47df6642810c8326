package request

import (
	"encoding/json"

	"billing_reconciler/internal/usecase"
)

// CheckoutRequest starts a plan payment. mp_payload is forwarded to the
// provider after the service sets amount and external reference.
type CheckoutRequest struct {
	UserID    string          `json:"user_id" binding:"required"`
	PlanID    string          `json:"plan_id" binding:"required"`
	MPPayload json.RawMessage `json:"mp_payload"`
}

func (r CheckoutRequest) ToInput(idempotencyKey string) usecase.CheckoutInput {
	return usecase.CheckoutInput{
		IdempotencyKey: idempotencyKey,
		UserID:         r.UserID,
		PlanID:         r.PlanID,
		Payload:        r.MPPayload,
	}
}
