package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"billing_reconciler/internal/domain/apperrors"

	"github.com/cenkalti/backoff/v4"
	"github.com/mercadopago/sdk-go/pkg/payment"
)

type fakePayments struct {
	created payment.Request
	resp    *payment.Response
	err     error
	gotID   int
}

func (f *fakePayments) Create(_ context.Context, req payment.Request) (*payment.Response, error) {
	f.created = req
	return f.resp, f.err
}

func (f *fakePayments) Get(_ context.Context, id int) (*payment.Response, error) {
	f.gotID = id
	return f.resp, f.err
}

func newTestGateway(t *testing.T, handler http.HandlerFunc) (*MercadoPagoGateway, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	rest := newRESTClient(srv.URL, "test-token", srv.Client(), 1000, 3)
	rest.backoff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return &MercadoPagoGateway{payments: &fakePayments{}, rest: rest}, &hits
}

func TestMercadoPagoGateway_GetSubscriptionByID(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/preapproval/pre-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "pre-1",
			"status": "authorized",
			"preapproval_plan_id": "mp-plan-1",
			"payer_id": 123456,
			"card_id": 9988,
			"next_payment_date": "2024-02-15T10:00:00.000-03:00",
			"auto_recurring": {"start_date": "2024-01-15T10:00:00.000-03:00"}
		}`))
	})

	sub, err := g.GetSubscriptionByID(context.Background(), "pre-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.PayerID != "123456" || sub.CardID != "9988" || sub.PlanID != "mp-plan-1" || sub.Status != "authorized" {
		t.Fatalf("unexpected details %+v", sub)
	}
	if sub.NextPaymentDate == nil || sub.NextPaymentDate.UTC().Day() != 15 {
		t.Fatalf("next payment date not decoded: %+v", sub.NextPaymentDate)
	}
}

func TestMercadoPagoGateway_GetChargebackDetails(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"cb-77","payments":[5001, 5002],"amount":29.9,"documentation_status":"review_pending"}`))
	})

	cb, err := g.GetChargebackDetails(context.Background(), "cb-77")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cb.PaymentIDs) != 2 || cb.PaymentIDs[0] != "5001" || cb.Amount.String() != "29.9" || cb.DocumentationStatus != "review_pending" {
		t.Fatalf("unexpected details %+v", cb)
	}
}

func TestMercadoPagoGateway_restFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("transient status is retried", func(t *testing.T) {
		var calls atomic.Int32
		g, hits := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{"id":"mp-plan-1","status":"active","auto_recurring":{"frequency":1,"frequency_type":"months","transaction_amount":29.9}}`))
		})

		plan, err := g.GetPlanByID(ctx, "mp-plan-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hits.Load() != 2 || plan.FrequencyInterval != 1 || plan.FrequencyType != "months" {
			t.Fatalf("unexpected plan %+v after %d hits", plan, hits.Load())
		}
	})

	t.Run("client errors fail at once", func(t *testing.T) {
		g, hits := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found"}`))
		})

		_, err := g.GetCard(ctx, "cust-1", "card-9")
		if apperrors.KindOf(err) != apperrors.KindExternalAPI {
			t.Fatalf("expected external api error, got %v", err)
		}
		if hits.Load() != 1 {
			t.Fatalf("4xx must not be retried, got %d hits", hits.Load())
		}
	})

	t.Run("retries are bounded", func(t *testing.T) {
		g, hits := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := g.GetAuthorizedPayment(ctx, "7001")
		if apperrors.KindOf(err) != apperrors.KindExternalAPI {
			t.Fatalf("expected external api error, got %v", err)
		}
		if hits.Load() != DefaultMaxAttempts {
			t.Fatalf("expected %d attempts, got %d", DefaultMaxAttempts, hits.Load())
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":`))
		})

		if _, err := g.GetClaimByID(ctx, 10); apperrors.KindOf(err) != apperrors.KindExternalAPI {
			t.Fatalf("expected external api error, got %v", err)
		}
	})
}

func TestPaymentPayload_toDetails(t *testing.T) {
	raw := `{"id":1001,"status":"approved","payer":{"id":778899,"email":"buyer@example.com"},"card":{"id":"5566","last_four_digits":"4242"}}`
	var p paymentPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	details := p.toDetails()
	if details.PayerID != "778899" || details.CardID != "5566" || details.LastFourDigits != "4242" || details.PayerEmail != "buyer@example.com" {
		t.Fatalf("payer and card not mapped: %+v", details)
	}
}

func TestMercadoPagoGateway_payments(t *testing.T) {
	ctx := context.Background()

	t.Run("get maps the sdk response", func(t *testing.T) {
		fake := &fakePayments{resp: &payment.Response{ID: 1001, Status: "approved"}}
		g := &MercadoPagoGateway{payments: fake, rest: newRESTClient("", "tok", nil, 0, 0)}

		details, err := g.GetPaymentStatus(ctx, "1001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fake.gotID != 1001 || details.ID != "1001" || details.Status != "approved" {
			t.Fatalf("unexpected details %+v", details)
		}
	})

	t.Run("non numeric id", func(t *testing.T) {
		g := &MercadoPagoGateway{payments: &fakePayments{}, rest: newRESTClient("", "tok", nil, 0, 0)}
		if _, err := g.GetPaymentStatus(ctx, "abc"); !apperrors.IsInvalidPayload(err) {
			t.Fatalf("expected invalid payload, got %v", err)
		}
	})

	t.Run("sdk failure keeps provider message", func(t *testing.T) {
		sdkErr := errors.New(`{"message":"Invalid users involved","cause":[{"code":2034}]}`)
		g := &MercadoPagoGateway{payments: &fakePayments{err: sdkErr}, rest: newRESTClient("", "tok", nil, 0, 0)}

		_, err := g.CreatePayment(ctx, json.RawMessage(`{"payment_method_id":"visa"}`))
		if apperrors.KindOf(err) != apperrors.KindExternalAPI || !errors.Is(err, sdkErr) {
			t.Fatalf("expected wrapped external api error, got %v", err)
		}
	})

	t.Run("mock mode", func(t *testing.T) {
		t.Setenv("PAYMENT_GATEWAY_MOCK", "true")
		g, err := NewMercadoPagoGateway(GatewayConfig{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		details, err := g.CreatePayment(ctx, json.RawMessage(`{"external_reference":"ref","transaction_amount":10}`))
		if err != nil || details.Status != "approved" || details.ExternalReference != "ref" || details.ID == "" {
			t.Fatalf("unexpected mock details %+v err=%v", details, err)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		t.Setenv("PAYMENT_GATEWAY_MOCK", "")
		t.Setenv("MERCADOPAGO_MOCK", "")
		if _, err := NewMercadoPagoGateway(GatewayConfig{}); !errors.Is(err, ErrMissingMercadoPagoAccessToken) {
			t.Fatalf("expected ErrMissingMercadoPagoAccessToken, got %v", err)
		}
	})
}
