package usecase

import (
	"testing"
	"time"

	"billing_reconciler/internal/adapter/persistence/memory"
	"billing_reconciler/internal/domain/apperrors"
	"billing_reconciler/internal/domain/entities"

	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func monthlyPlan() entities.Plan {
	return entities.Plan{
		ID:                "plan-monthly",
		ExternalPlanID:    "mp-plan-1",
		Name:              "Monthly",
		TransactionAmount: decimal.RequireFromString("29.90"),
		CurrencyID:        "BRL",
		FrequencyInterval: 1,
		FrequencyType:     entities.FrequencyTypeMonths,
		IsActive:          true,
	}
}

func seededLedger(t *testing.T) *memory.Ledger {
	t.Helper()
	l := memory.NewLedger()
	l.PutPlan(monthlyPlan())
	return l
}

func assertKind(t *testing.T, err error, want apperrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := apperrors.KindOf(err); got != want {
		t.Fatalf("expected kind %s, got %s (%v)", want, got, err)
	}
}

func emailTemplates(e entities.Effects) []entities.EmailTemplate {
	out := make([]entities.EmailTemplate, 0, len(e.Emails))
	for _, m := range e.Emails {
		out = append(out, m.Template)
	}
	return out
}
