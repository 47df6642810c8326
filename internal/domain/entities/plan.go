package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type FrequencyType string

const (
	FrequencyTypeDays   FrequencyType = "days"
	FrequencyTypeMonths FrequencyType = "months"
)

// Plan mirrors a provider preapproval plan.
type Plan struct {
	ID                string          `json:"id"`
	ExternalPlanID    string          `json:"external_plan_id"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	CurrencyID        string          `json:"currency_id"`
	FrequencyInterval int             `json:"frequency_interval"`
	FrequencyType     FrequencyType   `json:"frequency_type"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NextPeriodEnd advances from by one billing interval of the plan.
func (p Plan) NextPeriodEnd(from time.Time) time.Time {
	return AddPeriod(from, p.FrequencyInterval, p.FrequencyType)
}

// AddPeriod adds interval units of freq to t. Month arithmetic clamps to the
// last day of the target month, so Jan 31 + 1 month is Feb 28/29 rather than
// an early March date.
func AddPeriod(t time.Time, interval int, freq FrequencyType) time.Time {
	switch freq {
	case FrequencyTypeDays:
		return t.AddDate(0, 0, interval)
	case FrequencyTypeMonths:
		return addMonthsClamped(t, interval)
	}
	return t
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
