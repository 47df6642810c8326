package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"billing_reconciler/internal/domain/apperrors"
	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

// paymentAPI is the part of the sdk payment client the gateway uses.
type paymentAPI interface {
	Create(ctx context.Context, request payment.Request) (*payment.Response, error)
	Get(ctx context.Context, id int) (*payment.Response, error)
}

type GatewayConfig struct {
	AccessToken       string
	BaseURL           string
	RequestsPerSecond float64
	MaxAttempts       int
	HTTPClient        *http.Client
	Mock              bool
}

// MercadoPagoGateway talks to Mercado Pago: payments through the sdk, every
// other resource through its REST API.
type MercadoPagoGateway struct {
	payments paymentAPI
	rest     *restClient
	mockMode bool
}

var _ interfaces.IProviderGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(cfg GatewayConfig) (*MercadoPagoGateway, error) {
	if cfg.Mock || isPaymentGatewayMockEnabled() {
		log.Printf("[payment][gateway] mock mode enabled")
		return &MercadoPagoGateway{mockMode: true}, nil
	}

	if cfg.AccessToken == "" {
		log.Printf("[payment][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	sdkCfg, err := config.New(cfg.AccessToken)
	if err != nil {
		log.Printf("[payment][gateway] failed creating sdk config err=%v", err)
		return nil, err
	}
	log.Printf("[payment][gateway] Mercado Pago client initialized")

	return &MercadoPagoGateway{
		payments: payment.NewClient(sdkCfg),
		rest:     newRESTClient(cfg.BaseURL, cfg.AccessToken, cfg.HTTPClient, cfg.RequestsPerSecond, cfg.MaxAttempts),
	}, nil
}

func (g *MercadoPagoGateway) ready(op string) error {
	if g == nil || (!g.mockMode && (g.payments == nil || g.rest == nil)) {
		log.Printf("[payment][gateway] gateway not configured op=%s", op)
		return apperrors.ExternalAPI(op, "gateway unavailable", ErrMercadoPagoGatewayNotConfigured)
	}
	return nil
}

func (g *MercadoPagoGateway) CreatePayment(ctx context.Context, requestPayload json.RawMessage) (entities.PaymentDetails, error) {
	if err := g.ready("create_payment"); err != nil {
		return entities.PaymentDetails{}, err
	}
	if g.mockMode {
		return mockCreatePayment(requestPayload)
	}
	log.Printf("[payment][gateway] create start payload_len=%d", len(requestPayload))

	var req payment.Request
	if err := json.Unmarshal(requestPayload, &req); err != nil {
		log.Printf("[payment][gateway] payload unmarshal failed err=%v", err)
		return entities.PaymentDetails{}, apperrors.InvalidPayload("create_payment", err.Error())
	}

	resp, err := g.payments.Create(ctx, req)
	if err != nil {
		log.Printf("[payment][gateway] sdk create failed err=%v", err)
		return entities.PaymentDetails{}, apperrors.ExternalAPI("create_payment", "sdk create failed", err)
	}

	details, err := sdkDetails("create_payment", resp)
	if err != nil {
		return entities.PaymentDetails{}, err
	}
	log.Printf("[payment][gateway] create success provider_payment_id=%s provider_status=%s", details.ID, details.Status)
	return details, nil
}

func (g *MercadoPagoGateway) GetPaymentStatus(ctx context.Context, paymentID string) (entities.PaymentDetails, error) {
	if err := g.ready("get_payment"); err != nil {
		return entities.PaymentDetails{}, err
	}
	if g.mockMode {
		return mockPayment(paymentID), nil
	}
	id, err := strconv.Atoi(strings.TrimSpace(paymentID))
	if err != nil || id <= 0 {
		return entities.PaymentDetails{}, apperrors.InvalidPayload("get_payment", fmt.Sprintf("payment id %q is not numeric", paymentID))
	}

	resp, err := g.payments.Get(ctx, id)
	if err != nil {
		log.Printf("[payment][gateway] sdk get failed payment_id=%s err=%v", paymentID, err)
		return entities.PaymentDetails{}, apperrors.ExternalAPI("get_payment", "sdk get failed", err)
	}
	return sdkDetails("get_payment", resp)
}

// sdkDetails goes through the sdk response's JSON form so only the wire
// field names matter.
func sdkDetails(op string, resp *payment.Response) (entities.PaymentDetails, error) {
	if resp == nil {
		return entities.PaymentDetails{}, apperrors.ExternalAPI(op, "empty sdk response", nil)
	}
	b, err := json.Marshal(resp)
	if err != nil {
		log.Printf("[payment][gateway] response marshal failed err=%v", err)
		return entities.PaymentDetails{}, apperrors.ExternalAPI(op, "marshal sdk response", err)
	}
	var p paymentPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return entities.PaymentDetails{}, apperrors.ExternalAPI(op, "decode sdk response", err)
	}
	if p.ID == "" || p.ID == "0" {
		return entities.PaymentDetails{}, apperrors.ExternalAPI(op, "sdk response without id", nil)
	}
	return p.toDetails(), nil
}

func (g *MercadoPagoGateway) GetSubscriptionByID(ctx context.Context, preapprovalID string) (entities.SubscriptionDetails, error) {
	if err := g.ready("get_preapproval"); err != nil {
		return entities.SubscriptionDetails{}, err
	}
	if g.mockMode {
		return mockSubscription(preapprovalID), nil
	}
	var p preapprovalPayload
	if err := g.rest.getJSON(ctx, "get_preapproval", "/preapproval/"+url.PathEscape(preapprovalID), &p); err != nil {
		return entities.SubscriptionDetails{}, err
	}
	return p.toDetails(), nil
}

func (g *MercadoPagoGateway) GetAuthorizedPayment(ctx context.Context, authorizedPaymentID string) (entities.AuthorizedPaymentDetails, error) {
	if err := g.ready("get_authorized_payment"); err != nil {
		return entities.AuthorizedPaymentDetails{}, err
	}
	if g.mockMode {
		return entities.AuthorizedPaymentDetails{ID: authorizedPaymentID, PaymentID: authorizedPaymentID, PaymentStatus: "approved"}, nil
	}
	var p authorizedPaymentPayload
	if err := g.rest.getJSON(ctx, "get_authorized_payment", "/authorized_payments/"+url.PathEscape(authorizedPaymentID), &p); err != nil {
		return entities.AuthorizedPaymentDetails{}, err
	}
	return p.toDetails(), nil
}

func (g *MercadoPagoGateway) GetChargebackDetails(ctx context.Context, chargebackID string) (entities.ChargebackDetails, error) {
	if err := g.ready("get_chargeback"); err != nil {
		return entities.ChargebackDetails{}, err
	}
	if g.mockMode {
		return entities.ChargebackDetails{ID: chargebackID, DocumentationStatus: "pending"}, nil
	}
	var p chargebackPayload
	if err := g.rest.getJSON(ctx, "get_chargeback", "/v1/chargebacks/"+url.PathEscape(chargebackID), &p); err != nil {
		return entities.ChargebackDetails{}, err
	}
	return p.toDetails(), nil
}

func (g *MercadoPagoGateway) GetClaimByID(ctx context.Context, claimID int64) (entities.ClaimDetails, error) {
	if err := g.ready("get_claim"); err != nil {
		return entities.ClaimDetails{}, err
	}
	if g.mockMode {
		return entities.ClaimDetails{ID: claimID, Resource: "payment", Type: "mediations", Stage: "claim", Status: "opened"}, nil
	}
	var p claimPayload
	path := "/post-purchase/v1/claims/" + strconv.FormatInt(claimID, 10)
	if err := g.rest.getJSON(ctx, "get_claim", path, &p); err != nil {
		return entities.ClaimDetails{}, err
	}
	return p.toDetails(), nil
}

func (g *MercadoPagoGateway) GetCard(ctx context.Context, customerID, cardID string) (entities.CardDetails, error) {
	if err := g.ready("get_card"); err != nil {
		return entities.CardDetails{}, err
	}
	if g.mockMode {
		return entities.CardDetails{ID: cardID, CustomerID: customerID, LastFourDigits: "4242", PaymentMethodID: "visa"}, nil
	}
	var p cardPayload
	path := "/v1/customers/" + url.PathEscape(customerID) + "/cards/" + url.PathEscape(cardID)
	if err := g.rest.getJSON(ctx, "get_card", path, &p); err != nil {
		return entities.CardDetails{}, err
	}
	return p.toDetails(), nil
}

func (g *MercadoPagoGateway) GetPlanByID(ctx context.Context, planID string) (entities.PlanDetails, error) {
	if err := g.ready("get_plan"); err != nil {
		return entities.PlanDetails{}, err
	}
	if g.mockMode {
		return entities.PlanDetails{ID: planID, Status: "active", FrequencyInterval: 1, FrequencyType: "months"}, nil
	}
	var p planPayload
	if err := g.rest.getJSON(ctx, "get_plan", "/preapproval_plan/"+url.PathEscape(planID), &p); err != nil {
		return entities.PlanDetails{}, err
	}
	return p.toDetails(), nil
}

func mockCreatePayment(requestPayload json.RawMessage) (entities.PaymentDetails, error) {
	log.Printf("[payment][gateway] mock create start payload_len=%d", len(requestPayload))

	var req paymentPayload
	if len(requestPayload) > 0 && json.Valid(requestPayload) {
		_ = json.Unmarshal(requestPayload, &req)
	}
	id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
	now := time.Now().UTC()

	details := req.toDetails()
	details.ID = id
	details.Status = "approved"
	details.StatusDetail = "accredited"
	details.DateApproved = &now

	log.Printf("[payment][gateway] mock create success provider_payment_id=%s provider_status=approved", id)
	return details, nil
}

func mockPayment(paymentID string) entities.PaymentDetails {
	now := time.Now().UTC()
	return entities.PaymentDetails{
		ID:              paymentID,
		Status:          "approved",
		StatusDetail:    "accredited",
		PaymentMethodID: "visa",
		LastFourDigits:  "4242",
		DateApproved:    &now,
	}
}

func mockSubscription(preapprovalID string) entities.SubscriptionDetails {
	now := time.Now().UTC()
	return entities.SubscriptionDetails{
		ID:             preapprovalID,
		Status:         "authorized",
		LastFourDigits: "4242",
		StartDate:      &now,
	}
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}
