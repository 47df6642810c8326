package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the local lifecycle of a payment.
//
//	starting -> pending -> approved | rejected | cancelled | refunded
//	approved | refunded -> chargeback
type PaymentStatus string

const (
	PaymentStatusStarting   PaymentStatus = "starting"
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusApproved   PaymentStatus = "approved"
	PaymentStatusRejected   PaymentStatus = "rejected"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
	PaymentStatusRefunded   PaymentStatus = "refunded"
	PaymentStatusChargeback PaymentStatus = "chargeback"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusStarting: {PaymentStatusPending, PaymentStatusApproved, PaymentStatusRejected, PaymentStatusCancelled, PaymentStatusRefunded},
	PaymentStatusPending:  {PaymentStatusApproved, PaymentStatusRejected, PaymentStatusCancelled, PaymentStatusRefunded},
	PaymentStatusApproved: {PaymentStatusChargeback},
	PaymentStatusRefunded: {PaymentStatusChargeback},
}

// AwaitingProcessing reports whether the payment notification handler still
// has work to do for a payment in this status.
func (s PaymentStatus) AwaitingProcessing() bool {
	return s == PaymentStatusStarting || s == PaymentStatusPending
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Payment is a single charge made through the provider.
//
// ExternalID is the provider payment id notifications refer to. PaymentID is
// the provider-side payment object id kept for cross reference with
// subscriptions (it may equal ExternalID for one-off payments).
type Payment struct {
	ID             string          `json:"id"`
	ExternalID     string          `json:"external_id"`
	PaymentID      string          `json:"payment_id"`
	UserID         string          `json:"user_id"`
	PlanID         string          `json:"plan_id,omitempty"`
	Status         PaymentStatus   `json:"status"`
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method"`
	LastFourDigits string          `json:"last_four_digits,omitempty"`
	SubscriptionID string          `json:"subscription_id,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
