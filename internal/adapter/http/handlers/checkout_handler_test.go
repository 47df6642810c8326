package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"billing_reconciler/internal/adapter/http/handlers/mocks"
	"billing_reconciler/internal/domain/apperrors"
	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func postCheckout(h *CheckoutHandler, body, key string) *httptest.ResponseRecorder {
	r := gin.New()
	r.POST("/v1/payments", h.CreatePayment)

	req := httptest.NewRequest(http.MethodPost, "/v1/payments", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-Idempotency-Key", key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckoutHandler_CreatePayment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const body = `{"user_id":"user-1","plan_id":"plan-1","mp_payload":{"token":"card-token","payment_method_id":"visa"}}`

	t.Run("missing idempotency key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		w := postCheckout(NewCheckoutHandler(uc), body, "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		var res map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &res)
		if res["code"] != "MISSING_IDEMPOTENCY_KEY" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("missing plan", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		w := postCheckout(NewCheckoutHandler(uc), `{"user_id":"user-1"}`, "key-1")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		now := time.Now().UTC()
		uc.EXPECT().Checkout(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, in usecase.CheckoutInput) (entities.Payment, error) {
			if in.IdempotencyKey != "key-1" || in.UserID != "user-1" || in.PlanID != "plan-1" {
				return entities.Payment{}, fmt.Errorf("unexpected input %+v", in)
			}
			return entities.Payment{ID: "pay-1", ExternalID: "123", UserID: "user-1", Status: entities.PaymentStatusPending, Amount: decimal.NewFromInt(30), CreatedAt: now, UpdatedAt: now}, nil
		})

		w := postCheckout(NewCheckoutHandler(uc), body, "key-1")
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
		}
		var res map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &res)
		if res["id"] != "pay-1" || res["status"] != "pending" || res["amount"] != "30.00" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"plan not found", usecase.ErrPlanNotFound, http.StatusNotFound},
		{"plan inactive", usecase.ErrPlanInactive, http.StatusConflict},
		{"in flight", usecase.ErrIdempotencyInFlight, http.StatusConflict},
		{"gateway bad request", usecase.ErrPaymentGatewayBadRequest, http.StatusBadRequest},
		{"gateway unauthorized", usecase.ErrPaymentGatewayUnauthorized, http.StatusUnauthorized},
		{"provider down", apperrors.ExternalAPI("create payment", "provider request failed", fmt.Errorf("status 503")), http.StatusBadGateway},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockICheckoutUseCase(ctrl)
			uc.EXPECT().Checkout(gomock.Any(), gomock.Any()).Return(entities.Payment{}, tc.err)

			w := postCheckout(NewCheckoutHandler(uc), body, "key-1")
			if w.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, w.Code)
			}
		})
	}
}
