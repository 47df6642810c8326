package response

import (
	"time"

	"billing_reconciler/internal/domain/entities"
)

type PaymentResponse struct {
	ID             string    `json:"id"`
	ExternalID     string    `json:"external_id"`
	UserID         string    `json:"user_id"`
	PlanID         string    `json:"plan_id,omitempty"`
	Status         string    `json:"status"`
	Amount         string    `json:"amount"`
	Method         string    `json:"method,omitempty"`
	LastFourDigits string    `json:"last_four_digits,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func FromPayment(p entities.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		ExternalID:     p.ExternalID,
		UserID:         p.UserID,
		PlanID:         p.PlanID,
		Status:         string(p.Status),
		Amount:         p.Amount.StringFixed(2),
		Method:         p.Method,
		LastFourDigits: p.LastFourDigits,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
