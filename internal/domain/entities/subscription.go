package entities

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusRejected  SubscriptionStatus = "rejected"
	SubscriptionStatusRefunded  SubscriptionStatus = "refunded"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// SubscriptionStatusForPayment is the status a linked subscription takes when
// its payment settles. ok is false for payment statuses that do not
// propagate.
func SubscriptionStatusForPayment(s PaymentStatus) (SubscriptionStatus, bool) {
	switch s {
	case PaymentStatusApproved:
		return SubscriptionStatusActive, true
	case PaymentStatusRejected:
		return SubscriptionStatusRejected, true
	case PaymentStatusCancelled:
		return SubscriptionStatusCancelled, true
	case PaymentStatusRefunded:
		return SubscriptionStatusRefunded, true
	case PaymentStatusChargeback:
		return SubscriptionStatusCancelled, true
	}
	return "", false
}

// Subscription grants access for [CurrentPeriodStartDate, CurrentPeriodEndDate].
//
// ExternalID is the provider preapproval id for recurring subscriptions, or the
// provider payment id when the subscription was opened by a one-off payment.
// PaymentID links the subscription to the provider payment that renews it.
type Subscription struct {
	ID                     string             `json:"id"`
	ExternalID             string             `json:"external_id"`
	UserID                 string             `json:"user_id"`
	PlanID                 string             `json:"plan_id"`
	Status                 SubscriptionStatus `json:"status"`
	CurrentPeriodStartDate time.Time          `json:"current_period_start_date"`
	CurrentPeriodEndDate   time.Time          `json:"current_period_end_date"`
	CardTokenID            string             `json:"card_token_id,omitempty"`
	LastFourCardDigits     string             `json:"last_four_card_digits,omitempty"`
	PaymentID              string             `json:"payment_id,omitempty"`
	CustomerID             string             `json:"customer_id,omitempty"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// DueForRenewal is true once the paid period has elapsed.
func (s Subscription) DueForRenewal(now time.Time) bool {
	return !s.CurrentPeriodEndDate.After(now)
}
