package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnknownProviderStatus is returned when the provider answers with a status
// string that has no entry in the mapping tables below.
var ErrUnknownProviderStatus = errors.New("unknown provider status")

// ProviderPaymentStatus is the provider's payment vocabulary.
type ProviderPaymentStatus string

const (
	ProviderPaymentPending     ProviderPaymentStatus = "pending"
	ProviderPaymentApproved    ProviderPaymentStatus = "approved"
	ProviderPaymentAuthorized  ProviderPaymentStatus = "authorized"
	ProviderPaymentInProcess   ProviderPaymentStatus = "in_process"
	ProviderPaymentInMediation ProviderPaymentStatus = "in_mediation"
	ProviderPaymentRejected    ProviderPaymentStatus = "rejected"
	ProviderPaymentCancelled   ProviderPaymentStatus = "cancelled"
	ProviderPaymentRefunded    ProviderPaymentStatus = "refunded"
	ProviderPaymentChargedBack ProviderPaymentStatus = "charged_back"
)

// ProviderPaymentStatusTable lists every provider payment status. A missing
// entry is a mapping error, never a silent default.
var ProviderPaymentStatusTable = map[ProviderPaymentStatus]PaymentStatus{
	ProviderPaymentPending:     PaymentStatusPending,
	ProviderPaymentAuthorized:  PaymentStatusPending,
	ProviderPaymentInProcess:   PaymentStatusPending,
	ProviderPaymentInMediation: PaymentStatusPending,
	ProviderPaymentApproved:    PaymentStatusApproved,
	ProviderPaymentRejected:    PaymentStatusRejected,
	ProviderPaymentCancelled:   PaymentStatusCancelled,
	ProviderPaymentRefunded:    PaymentStatusRefunded,
	ProviderPaymentChargedBack: PaymentStatusChargeback,
}

func MapProviderPaymentStatus(raw string) (PaymentStatus, error) {
	s, ok := ProviderPaymentStatusTable[ProviderPaymentStatus(raw)]
	if !ok {
		return "", fmt.Errorf("%w: payment status %q", ErrUnknownProviderStatus, raw)
	}
	return s, nil
}

// ProviderSubscriptionStatus is the provider's preapproval vocabulary.
type ProviderSubscriptionStatus string

const (
	ProviderSubscriptionPending    ProviderSubscriptionStatus = "pending"
	ProviderSubscriptionAuthorized ProviderSubscriptionStatus = "authorized"
	ProviderSubscriptionPaused     ProviderSubscriptionStatus = "paused"
	ProviderSubscriptionCancelled  ProviderSubscriptionStatus = "cancelled"
)

var ProviderSubscriptionStatusTable = map[ProviderSubscriptionStatus]SubscriptionStatus{
	ProviderSubscriptionPending:    SubscriptionStatusPending,
	ProviderSubscriptionAuthorized: SubscriptionStatusActive,
	ProviderSubscriptionPaused:     SubscriptionStatusPaused,
	ProviderSubscriptionCancelled:  SubscriptionStatusCancelled,
}

func MapProviderSubscriptionStatus(raw string) (SubscriptionStatus, error) {
	s, ok := ProviderSubscriptionStatusTable[ProviderSubscriptionStatus(raw)]
	if !ok {
		return "", fmt.Errorf("%w: preapproval status %q", ErrUnknownProviderStatus, raw)
	}
	return s, nil
}

// ProviderPlanStatusTable maps preapproval plan status to Plan.IsActive.
var ProviderPlanStatusTable = map[string]bool{
	"active":    true,
	"inactive":  false,
	"cancelled": false,
}

func MapProviderPlanStatus(raw string) (bool, error) {
	active, ok := ProviderPlanStatusTable[raw]
	if !ok {
		return false, fmt.Errorf("%w: plan status %q", ErrUnknownProviderStatus, raw)
	}
	return active, nil
}

// ProviderChargebackDocumentationTable derives the chargeback dispute status
// from the provider's documentation_status field.
var ProviderChargebackDocumentationTable = map[string]ChargebackStatus{
	"pending":        ChargebackStatusNew,
	"not_supplied":   ChargebackStatusNew,
	"review_pending": ChargebackStatusUnderReview,
	"valid":          ChargebackStatusWon,
	"invalid":        ChargebackStatusLost,
}

func MapProviderChargebackStatus(documentationStatus string) (ChargebackStatus, error) {
	if documentationStatus == "" {
		return ChargebackStatusNew, nil
	}
	s, ok := ProviderChargebackDocumentationTable[documentationStatus]
	if !ok {
		return "", fmt.Errorf("%w: chargeback documentation status %q", ErrUnknownProviderStatus, documentationStatus)
	}
	return s, nil
}

var ProviderClaimStageTable = map[string]ClaimStage{
	"claim":     ClaimStageClaim,
	"dispute":   ClaimStageDispute,
	"recontact": ClaimStageRecontact,
	"none":      ClaimStageNone,
	"":          ClaimStageNone,
}

// MapProviderClaimState turns the provider's (status, stage) pair into the
// local claim status and stage.
func MapProviderClaimState(status, stage string) (ClaimStatus, ClaimStage, error) {
	st, ok := ProviderClaimStageTable[stage]
	if !ok {
		return "", "", fmt.Errorf("%w: claim stage %q", ErrUnknownProviderStatus, stage)
	}
	switch status {
	case "opened":
		if st == ClaimStageDispute || st == ClaimStageRecontact {
			return ClaimStatusUnderReview, st, nil
		}
		return ClaimStatusNew, st, nil
	case "closed":
		return ClaimStatusResolved, st, nil
	}
	return "", "", fmt.Errorf("%w: claim status %q", ErrUnknownProviderStatus, status)
}

// PaymentDetails is the provider's current view of a payment.
type PaymentDetails struct {
	ID                string
	Status            string
	StatusDetail      string
	ExternalReference string
	Amount            decimal.Decimal
	PaymentMethodID   string
	LastFourDigits    string
	CardID            string
	PayerID           string
	PayerEmail        string
	DateApproved      *time.Time
}

type SubscriptionDetails struct {
	ID              string
	Status          string
	PlanID          string
	PayerID         string
	CardID          string
	LastFourDigits  string
	NextPaymentDate *time.Time
	StartDate       *time.Time
}

// AuthorizedPaymentDetails is one recurring charge of a preapproval.
type AuthorizedPaymentDetails struct {
	ID            string
	PreapprovalID string
	PaymentID     string
	PaymentStatus string
	Amount        decimal.Decimal
}

type ChargebackDetails struct {
	ID                  string
	PaymentIDs          []string
	Amount              decimal.Decimal
	DocumentationStatus string
}

type ClaimDetails struct {
	ID         int64
	ResourceID string
	Resource   string
	Type       string
	Stage      string
	Status     string
}

type CardDetails struct {
	ID              string
	CustomerID      string
	LastFourDigits  string
	PaymentMethodID string
	ExpirationMonth int
	ExpirationYear  int
}

type PlanDetails struct {
	ID                string
	Status            string
	Reason            string
	TransactionAmount decimal.Decimal
	CurrencyID        string
	FrequencyInterval int
	FrequencyType     string
}
