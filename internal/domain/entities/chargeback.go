package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type ChargebackStatus string

const (
	ChargebackStatusNew         ChargebackStatus = "new"
	ChargebackStatusUnderReview ChargebackStatus = "under_review"
	ChargebackStatusWon         ChargebackStatus = "won"
	ChargebackStatusLost        ChargebackStatus = "lost"
)

// Chargeback is created at most once per provider ChargebackID.
type Chargeback struct {
	ID           string           `json:"id"`
	ChargebackID int64            `json:"chargeback_id"`
	PaymentID    int64            `json:"payment_id"`
	UserID       string           `json:"user_id,omitempty"`
	Status       ChargebackStatus `json:"status"`
	Amount       decimal.Decimal  `json:"amount"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
