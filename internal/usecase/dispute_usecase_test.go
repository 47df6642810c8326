package usecase

import (
	"context"
	"sync"
	"testing"

	"billing_reconciler/internal/domain/apperrors"
	"billing_reconciler/internal/domain/entities"
	mock_interfaces "billing_reconciler/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func approvedPaymentWithSubscription(l interface {
	PutPayment(entities.Payment)
	PutSubscription(entities.Subscription)
}) {
	p := pendingPayment()
	p.Status = entities.PaymentStatusApproved
	p.SubscriptionID = "sub-1"
	l.PutPayment(p)
	l.PutSubscription(entities.Subscription{ID: "sub-1", UserID: "user-1", Status: entities.SubscriptionStatusActive})
}

func TestChargebackUseCase_Handle(t *testing.T) {
	ctx := context.Background()
	details := entities.ChargebackDetails{
		ID:                  "555",
		PaymentIDs:          []string{"1001"},
		Amount:              decimal.RequireFromString("29.90"),
		DocumentationStatus: "pending",
	}

	t.Run("first notification creates and cancels", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		l := seededLedger(t)
		approvedPaymentWithSubscription(l)
		gw := mock_interfaces.NewMockIProviderGateway(ctrl)
		uc := NewChargebackUseCase(l, gw)

		gw.EXPECT().GetChargebackDetails(gomock.Any(), "555").Return(details, nil).Times(2)

		effects, err := uc.Handle(ctx, "555")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := emailTemplates(effects); len(got) != 1 || got[0] != entities.EmailChargebackReceived {
			t.Fatalf("unexpected emails %v", got)
		}
		cbs := l.Chargebacks()
		if len(cbs) != 1 || cbs[0].ChargebackID != 555 || cbs[0].PaymentID != 1001 || cbs[0].UserID != "user-1" || cbs[0].Status != entities.ChargebackStatusNew {
			t.Fatalf("unexpected chargebacks %+v", cbs)
		}
		if p, _ := l.Payment("pay-1"); p.Status != entities.PaymentStatusChargeback {
			t.Fatalf("expected chargeback payment, got %s", p.Status)
		}
		if s, _ := l.Subscription("sub-1"); s.Status != entities.SubscriptionStatusCancelled {
			t.Fatalf("expected cancelled subscription, got %s", s.Status)
		}

		effects, err = uc.Handle(ctx, "555")
		if err != nil || len(effects.Emails) != 0 {
			t.Fatalf("second delivery must not email, effects=%+v err=%v", effects, err)
		}
		if len(l.Chargebacks()) != 1 {
			t.Fatalf("duplicate chargeback row")
		}
	})

	t.Run("concurrent deliveries create one row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		l := seededLedger(t)
		approvedPaymentWithSubscription(l)
		gw := mock_interfaces.NewMockIProviderGateway(ctrl)
		uc := NewChargebackUseCase(l, gw)

		gw.EXPECT().GetChargebackDetails(gomock.Any(), "555").Return(details, nil).AnyTimes()

		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			emails int
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				effects, err := uc.Handle(ctx, "555")
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				mu.Lock()
				emails += len(effects.Emails)
				mu.Unlock()
			}()
		}
		wg.Wait()
		if len(l.Chargebacks()) != 1 || emails != 1 {
			t.Fatalf("expected one row and one email, got rows=%d emails=%d", len(l.Chargebacks()), emails)
		}
	})

	t.Run("update path refreshes amount and status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		l := seededLedger(t)
		approvedPaymentWithSubscription(l)
		l.PutChargeback(entities.Chargeback{ID: "cb-1", ChargebackID: 555, PaymentID: 1001, UserID: "user-1", Status: entities.ChargebackStatusNew, Amount: decimal.RequireFromString("29.90")})
		gw := mock_interfaces.NewMockIProviderGateway(ctrl)
		uc := NewChargebackUseCase(l, gw)

		updated := details
		updated.Amount = decimal.RequireFromString("10.00")
		updated.DocumentationStatus = "valid"
		gw.EXPECT().GetChargebackDetails(gomock.Any(), "555").Return(updated, nil)

		effects, err := uc.Handle(ctx, "555")
		if err != nil || !effects.Empty() {
			t.Fatalf("update must not produce effects, effects=%+v err=%v", effects, err)
		}
		cb := l.Chargebacks()[0]
		if !cb.Amount.Equal(decimal.RequireFromString("10")) || cb.Status != entities.ChargebackStatusWon {
			t.Fatalf("unexpected chargeback %+v", cb)
		}
		if p, _ := l.Payment("pay-1"); p.Status != entities.PaymentStatusApproved {
			t.Fatalf("update path must not touch the payment, got %s", p.Status)
		}
	})

	t.Run("non numeric id is dropped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := NewChargebackUseCase(seededLedger(t), mock_interfaces.NewMockIProviderGateway(ctrl))

		_, err := uc.Handle(ctx, "abc")
		assertKind(t, err, apperrors.KindInvalidPayload)
		if apperrors.Retryable(err) {
			t.Fatalf("invalid payloads must not be retried")
		}
	})

	t.Run("unknown payment is not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gw := mock_interfaces.NewMockIProviderGateway(ctrl)
		uc := NewChargebackUseCase(seededLedger(t), gw)

		gw.EXPECT().GetChargebackDetails(gomock.Any(), "555").Return(details, nil)

		_, err := uc.Handle(ctx, "555")
		assertKind(t, err, apperrors.KindResourceNotFound)
	})
}

func TestClaimUseCase_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("payment owner gets one email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		l := seededLedger(t)
		approvedPaymentWithSubscription(l)
		gw := mock_interfaces.NewMockIProviderGateway(ctrl)
		uc := NewClaimUseCase(l, gw)

		gw.EXPECT().GetClaimByID(gomock.Any(), int64(321)).Return(entities.ClaimDetails{
			ID: 321, ResourceID: "1001", Resource: "payment", Type: "mediations", Stage: "claim", Status: "opened",
		}, nil)
		gw.EXPECT().GetClaimByID(gomock.Any(), int64(321)).Return(entities.ClaimDetails{
			ID: 321, ResourceID: "1001", Resource: "payment", Type: "mediations", Stage: "dispute", Status: "opened",
		}, nil)

		effects, err := uc.Handle(ctx, "321")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(effects.Emails) != 1 || effects.Emails[0].Template != entities.EmailClaimReceived || effects.Emails[0].UserID != "user-1" {
			t.Fatalf("unexpected emails %+v", effects.Emails)
		}
		claims := l.Claims()
		if len(claims) != 1 || claims[0].ResourceType != entities.ClaimResourceTypePayment || claims[0].Status != entities.ClaimStatusNew {
			t.Fatalf("unexpected claims %+v", claims)
		}

		effects, err = uc.Handle(ctx, "321")
		if err != nil || len(effects.Emails) != 0 {
			t.Fatalf("update must not email, effects=%+v err=%v", effects, err)
		}
		claims = l.Claims()
		if len(claims) != 1 || claims[0].CurrentStage != entities.ClaimStageDispute || claims[0].Status != entities.ClaimStatusUnderReview {
			t.Fatalf("unexpected claims after update %+v", claims)
		}
	})

	t.Run("subscription owner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		l := seededLedger(t)
		l.PutSubscription(entities.Subscription{ID: "sub-9", ExternalID: "preapproval-9", UserID: "user-9", Status: entities.SubscriptionStatusActive})
		gw := mock_interfaces.NewMockIProviderGateway(ctrl)
		uc := NewClaimUseCase(l, gw)

		gw.EXPECT().GetClaimByID(gomock.Any(), int64(322)).Return(entities.ClaimDetails{
			ID: 322, ResourceID: "preapproval-9", Resource: "subscription", Stage: "claim", Status: "opened",
		}, nil)

		effects, err := uc.Handle(ctx, "322")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(effects.Emails) != 1 || effects.Emails[0].UserID != "user-9" {
			t.Fatalf("unexpected emails %+v", effects.Emails)
		}
		if c := l.Claims()[0]; c.ResourceType != entities.ClaimResourceTypeSubscription {
			t.Fatalf("unexpected resource type %s", c.ResourceType)
		}
	})

	t.Run("unknown owner alerts operators", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		l := seededLedger(t)
		gw := mock_interfaces.NewMockIProviderGateway(ctrl)
		uc := NewClaimUseCase(l, gw)

		gw.EXPECT().GetClaimByID(gomock.Any(), int64(323)).Return(entities.ClaimDetails{
			ID: 323, ResourceID: "4040", Resource: "payment", Stage: "claim", Status: "opened",
		}, nil)

		effects, err := uc.Handle(ctx, "323")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(effects.Emails) != 0 || len(effects.Admin) != 1 {
			t.Fatalf("expected admin intent only, got %+v", effects)
		}
		if len(l.Claims()) != 1 {
			t.Fatalf("claim must still be recorded")
		}
	})

	t.Run("invalid id is dropped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := NewClaimUseCase(seededLedger(t), mock_interfaces.NewMockIProviderGateway(ctrl))

		_, err := uc.Handle(ctx, "not-a-number")
		assertKind(t, err, apperrors.KindInvalidPayload)
	})
}
