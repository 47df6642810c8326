package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"billing_reconciler/internal/domain/entities"
	mock_interfaces "billing_reconciler/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func sign(secret, dataID, requestID, ts string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("id:" + dataID + ";request-id:" + requestID + ";ts:" + ts + ";"))
	return "ts=" + ts + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookUseCase_VerifySignature(t *testing.T) {
	uc := NewWebhookUseCase(nil, "s3cret")

	t.Run("valid", func(t *testing.T) {
		if err := uc.VerifySignature(sign("s3cret", "1001", "req-1", "1704067200"), "req-1", "1001"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("alphanumeric ids are signed lowercase", func(t *testing.T) {
		if err := uc.VerifySignature(sign("s3cret", "abc", "req-1", "1"), "req-1", "ABC"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		err := uc.VerifySignature(sign("other", "1001", "req-1", "1704067200"), "req-1", "1001")
		if !errors.Is(err, ErrWebhookInvalidSignature) {
			t.Fatalf("expected ErrWebhookInvalidSignature, got %v", err)
		}
	})

	t.Run("tampered request id", func(t *testing.T) {
		err := uc.VerifySignature(sign("s3cret", "1001", "req-1", "1704067200"), "req-2", "1001")
		if !errors.Is(err, ErrWebhookInvalidSignature) {
			t.Fatalf("expected ErrWebhookInvalidSignature, got %v", err)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		for _, h := range []string{"", "ts=1", "v1=abcd", "garbage"} {
			if err := uc.VerifySignature(h, "req-1", "1001"); !errors.Is(err, ErrWebhookInvalidSignature) {
				t.Fatalf("header %q: expected ErrWebhookInvalidSignature, got %v", h, err)
			}
		}
	})

	t.Run("no secret accepts everything", func(t *testing.T) {
		if err := NewWebhookUseCase(nil, "").VerifySignature("", "", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestWebhookUseCase_Receive(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		topic string
		kind  entities.JobKind
	}{
		{"payment", entities.JobKindPayment},
		{"subscription_preapproval", entities.JobKindSubscriptionCreate},
		{"subscription_authorized_payment", entities.JobKindSubscriptionRenewal},
		{"subscription_preapproval_plan", entities.JobKindPlanUpdate},
		{"chargebacks", entities.JobKindChargeback},
		{"topic_claims_integration_wh", entities.JobKindClaim},
	}
	for _, tc := range cases {
		t.Run(tc.topic, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			queue := mock_interfaces.NewMockIJobQueue(ctrl)
			uc := NewWebhookUseCase(queue, "")

			queue.EXPECT().Enqueue(gomock.Any(), tc.kind, "42").Return(entities.Job{ID: "job-1", Kind: tc.kind, ResourceID: "42", Attempt: 1}, nil)

			job, err := uc.Receive(ctx, WebhookNotification{Type: tc.topic, DataID: " 42 "})
			if err != nil || job.ID != "job-1" {
				t.Fatalf("unexpected job %+v err=%v", job, err)
			}
		})
	}

	t.Run("card update composes customer and card", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		queue := mock_interfaces.NewMockIJobQueue(ctrl)
		uc := NewWebhookUseCase(queue, "")

		queue.EXPECT().Enqueue(gomock.Any(), entities.JobKindCardUpdate, "cust-1:card-9").Return(entities.Job{ID: "job-2"}, nil)

		if _, err := uc.Receive(ctx, WebhookNotification{Type: "topic_card_id_wh", DataID: "card-9", CustomerID: "cust-1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := uc.Receive(ctx, WebhookNotification{Type: "automatic-payments", DataID: "card-9"}); !errors.Is(err, ErrWebhookMissingID) {
			t.Fatalf("expected ErrWebhookMissingID without customer, got %v", err)
		}
	})

	t.Run("unsupported type", func(t *testing.T) {
		uc := NewWebhookUseCase(nil, "")
		if _, err := uc.Receive(ctx, WebhookNotification{Type: "merchant_order", DataID: "1"}); !errors.Is(err, ErrWebhookUnsupportedType) {
			t.Fatalf("expected ErrWebhookUnsupportedType, got %v", err)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		uc := NewWebhookUseCase(nil, "")
		if _, err := uc.Receive(ctx, WebhookNotification{Type: "payment"}); !errors.Is(err, ErrWebhookMissingID) {
			t.Fatalf("expected ErrWebhookMissingID, got %v", err)
		}
	})

	t.Run("queue failure is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		queue := mock_interfaces.NewMockIJobQueue(ctrl)
		uc := NewWebhookUseCase(queue, "")
		boom := errors.New("broker unreachable")

		queue.EXPECT().Enqueue(gomock.Any(), entities.JobKindPayment, "1").Return(entities.Job{}, boom)

		if _, err := uc.Receive(ctx, WebhookNotification{Type: "payment", DataID: "1"}); !errors.Is(err, boom) {
			t.Fatalf("expected queue error, got %v", err)
		}
	})
}
