package usecase

import (
	"context"
	"testing"
	"time"

	"billing_reconciler/internal/domain/apperrors"
	"billing_reconciler/internal/domain/entities"
	mock_interfaces "billing_reconciler/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func dueSubscription() entities.Subscription {
	return entities.Subscription{
		ID:                     "sub-1",
		ExternalID:             "preapproval-1",
		UserID:                 "user-1",
		PlanID:                 "plan-monthly",
		Status:                 entities.SubscriptionStatusActive,
		CurrentPeriodStartDate: time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC),
		CurrentPeriodEndDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		PaymentID:              "auth-77",
	}
}

func TestSubscriptionRenewalUseCase_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("approved charge extends once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		l := seededLedger(t)
		l.PutSubscription(dueSubscription())
		gw := mock_interfaces.NewMockIProviderGateway(ctrl)
		uc := NewSubscriptionRenewalUseCase(l, gw)
		uc.now = clock(fixedNow)

		gw.EXPECT().GetAuthorizedPayment(gomock.Any(), "auth-77").Return(entities.AuthorizedPaymentDetails{
			ID:            "auth-77",
			PaymentStatus: "approved",
			Amount:        decimal.RequireFromString("29.90"),
		}, nil).Times(1)

		effects, err := uc.Handle(ctx, "auth-77")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := emailTemplates(effects); len(got) != 1 || got[0] != entities.EmailSubscriptionRenewal {
			t.Fatalf("unexpected emails %v", got)
		}
		sub, _ := l.Subscription("sub-1")
		wantEnd := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
		if !sub.CurrentPeriodEndDate.Equal(wantEnd) {
			t.Fatalf("expected end %s, got %s", wantEnd, sub.CurrentPeriodEndDate)
		}
		if !sub.CurrentPeriodStartDate.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("start must move to previous end, got %s", sub.CurrentPeriodStartDate)
		}

		effects, err = uc.Handle(ctx, "auth-77")
		if err != nil || !effects.Empty() {
			t.Fatalf("second delivery must be a no-op, effects=%+v err=%v", effects, err)
		}
		if again, _ := l.Subscription("sub-1"); !again.CurrentPeriodEndDate.Equal(wantEnd) {
			t.Fatalf("end moved twice: %s", again.CurrentPeriodEndDate)
		}
	})

	t.Run("ten day plan", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		l := seededLedger(t)
		plan := monthlyPlan()
		plan.ID = "plan-10d"
		plan.FrequencyInterval = 10
		plan.FrequencyType = entities.FrequencyTypeDays
		l.PutPlan(plan)
		sub := dueSubscription()
		sub.PlanID = "plan-10d"
		l.PutSubscription(sub)
		gw := mock_interfaces.NewMockIProviderGateway(ctrl)
		uc := NewSubscriptionRenewalUseCase(l, gw)
		uc.now = clock(fixedNow)

		gw.EXPECT().GetAuthorizedPayment(gomock.Any(), "auth-77").Return(entities.AuthorizedPaymentDetails{PaymentStatus: "approved"}, nil)

		if _, err := uc.Handle(ctx, "auth-77"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, _ := l.Subscription("sub-1")
		if want := time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC); !got.CurrentPeriodEndDate.Equal(want) {
			t.Fatalf("expected %s, got %s", want, got.CurrentPeriodEndDate)
		}
	})

	t.Run("period not elapsed skips the gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		l := seededLedger(t)
		sub := dueSubscription()
		sub.CurrentPeriodEndDate = fixedNow.Add(time.Hour)
		l.PutSubscription(sub)
		uc := NewSubscriptionRenewalUseCase(l, mock_interfaces.NewMockIProviderGateway(ctrl))
		uc.now = clock(fixedNow)

		effects, err := uc.Handle(ctx, "auth-77")
		if err != nil || !effects.Empty() {
			t.Fatalf("expected no-op, effects=%+v err=%v", effects, err)
		}
	})

	t.Run("pending charge is retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		l := seededLedger(t)
		l.PutSubscription(dueSubscription())
		gw := mock_interfaces.NewMockIProviderGateway(ctrl)
		uc := NewSubscriptionRenewalUseCase(l, gw)
		uc.now = clock(fixedNow)

		gw.EXPECT().GetAuthorizedPayment(gomock.Any(), "auth-77").Return(entities.AuthorizedPaymentDetails{PaymentStatus: "in_process"}, nil)

		_, err := uc.Handle(ctx, "auth-77")
		assertKind(t, err, apperrors.KindAppService)
		if !apperrors.Retryable(err) {
			t.Fatalf("pending charges must be retried")
		}
	})

	t.Run("rejected charge leaves subscription", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		l := seededLedger(t)
		l.PutSubscription(dueSubscription())
		gw := mock_interfaces.NewMockIProviderGateway(ctrl)
		uc := NewSubscriptionRenewalUseCase(l, gw)
		uc.now = clock(fixedNow)

		gw.EXPECT().GetAuthorizedPayment(gomock.Any(), "auth-77").Return(entities.AuthorizedPaymentDetails{PaymentStatus: "rejected"}, nil)

		effects, err := uc.Handle(ctx, "auth-77")
		if err != nil || !effects.Empty() {
			t.Fatalf("expected no-op, effects=%+v err=%v", effects, err)
		}
		if l.Commits() != 0 {
			t.Fatalf("nothing should be committed")
		}
	})

	t.Run("unknown subscription is not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := NewSubscriptionRenewalUseCase(seededLedger(t), mock_interfaces.NewMockIProviderGateway(ctrl))

		_, err := uc.Handle(ctx, "auth-missing")
		assertKind(t, err, apperrors.KindResourceNotFound)
	})
}

func TestSubscriptionCreateUseCase_Handle(t *testing.T) {
	ctx := context.Background()

	pending := entities.Subscription{
		ID:         "sub-1",
		ExternalID: "preapproval-1",
		UserID:     "user-1",
		PlanID:     "plan-monthly",
		Status:     entities.SubscriptionStatusPending,
	}

	t.Run("authorized activates with provider dates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		l := seededLedger(t)
		l.PutSubscription(pending)
		gw := mock_interfaces.NewMockIProviderGateway(ctrl)
		uc := NewSubscriptionCreateUseCase(l, gw)
		uc.now = clock(fixedNow)

		start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		next := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
		gw.EXPECT().GetSubscriptionByID(gomock.Any(), "preapproval-1").Return(entities.SubscriptionDetails{
			ID:              "preapproval-1",
			Status:          "authorized",
			CardID:          "card-9",
			LastFourDigits:  "1111",
			PayerID:         "cust-1",
			StartDate:       &start,
			NextPaymentDate: &next,
		}, nil).Times(1)

		effects, err := uc.Handle(ctx, "preapproval-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := emailTemplates(effects); len(got) != 1 || got[0] != entities.EmailSubscriptionCreated {
			t.Fatalf("unexpected emails %v", got)
		}
		sub, _ := l.Subscription("sub-1")
		if sub.Status != entities.SubscriptionStatusActive || sub.CardTokenID != "card-9" || sub.LastFourCardDigits != "1111" || sub.CustomerID != "cust-1" {
			t.Fatalf("unexpected subscription %+v", sub)
		}
		if !sub.CurrentPeriodStartDate.Equal(start) || !sub.CurrentPeriodEndDate.Equal(next) {
			t.Fatalf("unexpected period %s - %s", sub.CurrentPeriodStartDate, sub.CurrentPeriodEndDate)
		}

		effects, err = uc.Handle(ctx, "preapproval-1")
		if err != nil || !effects.Empty() {
			t.Fatalf("redelivery must be a no-op, effects=%+v err=%v", effects, err)
		}
	})

	t.Run("authorized without dates uses plan interval", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		l := seededLedger(t)
		l.PutSubscription(pending)
		gw := mock_interfaces.NewMockIProviderGateway(ctrl)
		uc := NewSubscriptionCreateUseCase(l, gw)
		uc.now = clock(fixedNow)

		gw.EXPECT().GetSubscriptionByID(gomock.Any(), "preapproval-1").Return(entities.SubscriptionDetails{Status: "authorized"}, nil)

		if _, err := uc.Handle(ctx, "preapproval-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sub, _ := l.Subscription("sub-1")
		if !sub.CurrentPeriodEndDate.Equal(fixedNow.AddDate(0, 1, 0)) {
			t.Fatalf("unexpected end %s", sub.CurrentPeriodEndDate)
		}
	})

	t.Run("cancelled preapproval sends no email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		l := seededLedger(t)
		l.PutSubscription(pending)
		gw := mock_interfaces.NewMockIProviderGateway(ctrl)
		uc := NewSubscriptionCreateUseCase(l, gw)

		gw.EXPECT().GetSubscriptionByID(gomock.Any(), "preapproval-1").Return(entities.SubscriptionDetails{Status: "cancelled"}, nil)

		effects, err := uc.Handle(ctx, "preapproval-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(effects.Emails) != 0 {
			t.Fatalf("no email expected, got %v", emailTemplates(effects))
		}
		if sub, _ := l.Subscription("sub-1"); sub.Status != entities.SubscriptionStatusCancelled {
			t.Fatalf("expected cancelled, got %s", sub.Status)
		}
	})
}
