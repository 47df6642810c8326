package routes

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"billing_reconciler/internal/config"
	"billing_reconciler/internal/infrastructure/bootstrap"

	"github.com/gin-gonic/gin"
)

func TestRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("PAYMENT_GATEWAY_MOCK", "")
	t.Setenv("MERCADOPAGO_MOCK", "")

	app, err := bootstrap.New(context.Background(), config.Config{
		Port:                 "8080",
		LedgerDriver:         config.DriverMemory,
		QueueDriver:          config.DriverMemory,
		CacheDriver:          config.DriverMemory,
		WorkerCount:          1,
		JobMaxRetries:        3,
		JobRetryDelay:        time.Second,
		JobTimeout:           time.Second,
		MercadoPagoRateLimit: 10,
		PaymentGatewayMock:   true,
		IdempotencyTTL:       time.Hour,
		PlanCacheTTL:         time.Minute,
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer app.Close()
	getRoutes(app)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
	}{
		{"ping", http.MethodGet, "/v1/ping", "", http.StatusOK},
		{"plans", http.MethodGet, "/v1/plans", "", http.StatusOK},
		{"failed jobs", http.MethodGet, "/v1/admin/failed-jobs", "", http.StatusOK},
		{"webhook", http.MethodPost, "/v1/webhooks/mercadopago", `{"type":"payment","data":{"id":"1"}}`, http.StatusOK},
		{"checkout without key", http.MethodPost, "/v1/payments", `{"user_id":"u","plan_id":"p"}`, http.StatusBadRequest},
		{"realtime without user", http.MethodGet, "/v1/realtime/ws", "", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tc.code {
				t.Fatalf("expected %d, got %d body=%s", tc.code, w.Code, w.Body.String())
			}
		})
	}
}
