package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"billing_reconciler/internal/adapter/http/handlers/mocks"
	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func postWebhook(h *WebhookHandler, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	r := gin.New()
	r.POST("/v1/webhooks/mercadopago", h.ReceiveMercadoPago)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookHandler_ReceiveMercadoPago(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const path = "/v1/webhooks/mercadopago"

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIWebhookUseCase(ctrl)
		w := postWebhook(NewWebhookHandler(uc), path, "{", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("bad signature", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIWebhookUseCase(ctrl)
		uc.EXPECT().VerifySignature("ts=1,v1=00", "req-1", "123").Return(usecase.ErrWebhookInvalidSignature)

		w := postWebhook(NewWebhookHandler(uc), path, `{"type":"payment","data":{"id":"123"}}`,
			map[string]string{"x-signature": "ts=1,v1=00", "x-request-id": "req-1"})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("queued", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIWebhookUseCase(ctrl)
		uc.EXPECT().VerifySignature(gomock.Any(), gomock.Any(), "123").Return(nil)
		uc.EXPECT().Receive(gomock.Any(), usecase.WebhookNotification{Type: "payment", Action: "payment.updated", DataID: "123"}).
			Return(entities.Job{ID: "job-1", Kind: entities.JobKindPayment, ResourceID: "123"}, nil)

		w := postWebhook(NewWebhookHandler(uc), path, `{"type":"payment","action":"payment.updated","data":{"id":123}}`, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["status"] != "queued" || body["job_id"] != "job-1" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("query parameters", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIWebhookUseCase(ctrl)
		uc.EXPECT().VerifySignature(gomock.Any(), gomock.Any(), "55").Return(nil)
		uc.EXPECT().Receive(gomock.Any(), usecase.WebhookNotification{Type: "chargebacks", DataID: "55"}).
			Return(entities.Job{ID: "job-2"}, nil)

		w := postWebhook(NewWebhookHandler(uc), path+"?type=chargebacks&data.id=55", `{}`, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("unknown type ignored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIWebhookUseCase(ctrl)
		uc.EXPECT().VerifySignature(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		uc.EXPECT().Receive(gomock.Any(), gomock.Any()).Return(entities.Job{}, usecase.ErrWebhookUnsupportedType)

		w := postWebhook(NewWebhookHandler(uc), path, `{"type":"merchant_order","data":{"id":"1"}}`, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["status"] != "ignored" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("missing id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIWebhookUseCase(ctrl)
		uc.EXPECT().VerifySignature(gomock.Any(), gomock.Any(), "").Return(nil)
		uc.EXPECT().Receive(gomock.Any(), gomock.Any()).Return(entities.Job{}, usecase.ErrWebhookMissingID)

		w := postWebhook(NewWebhookHandler(uc), path, `{"type":"payment","data":{}}`, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("queue unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIWebhookUseCase(ctrl)
		uc.EXPECT().VerifySignature(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		uc.EXPECT().Receive(gomock.Any(), gomock.Any()).Return(entities.Job{}, errors.New("broker closed"))

		w := postWebhook(NewWebhookHandler(uc), path, `{"type":"payment","data":{"id":"9"}}`, nil)
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", w.Code)
		}
	})
}
