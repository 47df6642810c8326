package payments

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"billing_reconciler/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// flexID accepts ids the provider sends either as numbers or as strings.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

func (f flexID) String() string { return string(f) }

type paymentPayload struct {
	ID                flexID          `json:"id"`
	Status            string          `json:"status"`
	StatusDetail      string          `json:"status_detail"`
	ExternalReference string          `json:"external_reference"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	PaymentMethodID   string          `json:"payment_method_id"`
	DateApproved      *time.Time      `json:"date_approved"`
	Card              struct {
		ID             flexID `json:"id"`
		LastFourDigits string `json:"last_four_digits"`
	} `json:"card"`
	Payer struct {
		ID    flexID `json:"id"`
		Email string `json:"email"`
	} `json:"payer"`
}

func (p paymentPayload) toDetails() entities.PaymentDetails {
	if p.DateApproved != nil && p.DateApproved.IsZero() {
		p.DateApproved = nil
	}
	return entities.PaymentDetails{
		ID:                p.ID.String(),
		Status:            p.Status,
		StatusDetail:      p.StatusDetail,
		ExternalReference: p.ExternalReference,
		Amount:            p.TransactionAmount,
		PaymentMethodID:   p.PaymentMethodID,
		LastFourDigits:    p.Card.LastFourDigits,
		CardID:            p.Card.ID.String(),
		PayerID:           p.Payer.ID.String(),
		PayerEmail:        p.Payer.Email,
		DateApproved:      p.DateApproved,
	}
}

type preapprovalPayload struct {
	ID              flexID     `json:"id"`
	Status          string     `json:"status"`
	PlanID          string     `json:"preapproval_plan_id"`
	PayerID         flexID     `json:"payer_id"`
	CardID          flexID     `json:"card_id"`
	NextPaymentDate *time.Time `json:"next_payment_date"`
	AutoRecurring   struct {
		StartDate *time.Time `json:"start_date"`
	} `json:"auto_recurring"`
	LastFourDigits string `json:"last_four_digits"`
}

func (p preapprovalPayload) toDetails() entities.SubscriptionDetails {
	return entities.SubscriptionDetails{
		ID:              p.ID.String(),
		Status:          p.Status,
		PlanID:          p.PlanID,
		PayerID:         p.PayerID.String(),
		CardID:          p.CardID.String(),
		LastFourDigits:  p.LastFourDigits,
		NextPaymentDate: p.NextPaymentDate,
		StartDate:       p.AutoRecurring.StartDate,
	}
}

type authorizedPaymentPayload struct {
	ID                flexID          `json:"id"`
	PreapprovalID     string          `json:"preapproval_id"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	Payment           struct {
		ID     flexID `json:"id"`
		Status string `json:"status"`
	} `json:"payment"`
}

func (p authorizedPaymentPayload) toDetails() entities.AuthorizedPaymentDetails {
	return entities.AuthorizedPaymentDetails{
		ID:            p.ID.String(),
		PreapprovalID: p.PreapprovalID,
		PaymentID:     p.Payment.ID.String(),
		PaymentStatus: p.Payment.Status,
		Amount:        p.TransactionAmount,
	}
}

type chargebackPayload struct {
	ID                  flexID          `json:"id"`
	Payments            []flexID        `json:"payments"`
	Amount              decimal.Decimal `json:"amount"`
	DocumentationStatus string          `json:"documentation_status"`
}

func (p chargebackPayload) toDetails() entities.ChargebackDetails {
	ids := make([]string, 0, len(p.Payments))
	for _, id := range p.Payments {
		if id != "" {
			ids = append(ids, id.String())
		}
	}
	return entities.ChargebackDetails{
		ID:                  p.ID.String(),
		PaymentIDs:          ids,
		Amount:              p.Amount,
		DocumentationStatus: p.DocumentationStatus,
	}
}

type claimPayload struct {
	ID         flexID `json:"id"`
	ResourceID flexID `json:"resource_id"`
	Resource   string `json:"resource"`
	Type       string `json:"type"`
	Stage      string `json:"stage"`
	Status     string `json:"status"`
}

func (p claimPayload) toDetails() entities.ClaimDetails {
	id, _ := strconv.ParseInt(p.ID.String(), 10, 64)
	return entities.ClaimDetails{
		ID:         id,
		ResourceID: p.ResourceID.String(),
		Resource:   p.Resource,
		Type:       p.Type,
		Stage:      p.Stage,
		Status:     p.Status,
	}
}

type cardPayload struct {
	ID              flexID `json:"id"`
	CustomerID      string `json:"customer_id"`
	LastFourDigits  string `json:"last_four_digits"`
	ExpirationMonth int    `json:"expiration_month"`
	ExpirationYear  int    `json:"expiration_year"`
	PaymentMethod   struct {
		ID string `json:"id"`
	} `json:"payment_method"`
}

func (p cardPayload) toDetails() entities.CardDetails {
	return entities.CardDetails{
		ID:              p.ID.String(),
		CustomerID:      p.CustomerID,
		LastFourDigits:  p.LastFourDigits,
		PaymentMethodID: p.PaymentMethod.ID,
		ExpirationMonth: p.ExpirationMonth,
		ExpirationYear:  p.ExpirationYear,
	}
}

type planPayload struct {
	ID            flexID `json:"id"`
	Status        string `json:"status"`
	Reason        string `json:"reason"`
	AutoRecurring struct {
		Frequency         int             `json:"frequency"`
		FrequencyType     string          `json:"frequency_type"`
		TransactionAmount decimal.Decimal `json:"transaction_amount"`
		CurrencyID        string          `json:"currency_id"`
	} `json:"auto_recurring"`
}

func (p planPayload) toDetails() entities.PlanDetails {
	return entities.PlanDetails{
		ID:                p.ID.String(),
		Status:            p.Status,
		Reason:            p.Reason,
		TransactionAmount: p.AutoRecurring.TransactionAmount,
		CurrencyID:        p.AutoRecurring.CurrencyID,
		FrequencyInterval: p.AutoRecurring.Frequency,
		FrequencyType:     p.AutoRecurring.FrequencyType,
	}
}
