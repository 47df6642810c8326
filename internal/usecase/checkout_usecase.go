package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrMissingIdempotencyKey          = errors.New("missing idempotency key")
	ErrInvalidCheckoutUser            = errors.New("invalid user_id")
	ErrInvalidCheckoutPlan            = errors.New("invalid plan_id")
	ErrPlanNotFound                   = errors.New("plan not found")
	ErrPlanInactive                   = errors.New("plan is not active")
	ErrInvalidMPPayload               = errors.New("invalid mercado pago payload")
	ErrPaymentGatewayBadRequest       = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized     = errors.New("payment gateway unauthorized")
	ErrPaymentGatewayInvalidUsers     = errors.New("payment gateway invalid users involved")
	ErrPaymentGatewayCustomerNotFound = errors.New("payment gateway customer not found")
)

const (
	DefaultCheckoutTTL = 24 * time.Hour
	// pendingSaveTimeout bounds the ledger write after the provider accepted.
	pendingSaveTimeout = 10 * time.Second
)

type CheckoutInput struct {
	IdempotencyKey string
	UserID         string
	PlanID         string
	Payload        json.RawMessage
}

// ICheckoutUseCase starts a plan payment on the provider.
//
// The same idempotency key always yields the same payment while the cached
// result lives, however many times the client retries.
type ICheckoutUseCase interface {
	Checkout(ctx context.Context, in CheckoutInput) (entities.Payment, error)
}

type CheckoutUseCase struct {
	ledger  interfaces.ILedger
	gateway interfaces.IProviderGateway
	cache   *IdempotencyCache
	ttl     time.Duration
	now     func() time.Time
}

var _ ICheckoutUseCase = (*CheckoutUseCase)(nil)

func NewCheckoutUseCase(ledger interfaces.ILedger, gateway interfaces.IProviderGateway, cache *IdempotencyCache, ttl time.Duration) *CheckoutUseCase {
	if ttl <= 0 {
		ttl = DefaultCheckoutTTL
	}
	return &CheckoutUseCase{ledger: ledger, gateway: gateway, cache: cache, ttl: ttl, now: utcNow}
}

func (u *CheckoutUseCase) Checkout(ctx context.Context, in CheckoutInput) (entities.Payment, error) {
	in.IdempotencyKey = strings.TrimSpace(in.IdempotencyKey)
	in.UserID = strings.TrimSpace(in.UserID)
	in.PlanID = strings.TrimSpace(in.PlanID)
	log.Printf("[checkout][usecase] start user_id=%s plan_id=%s payload_len=%d", in.UserID, in.PlanID, len(in.Payload))

	if in.IdempotencyKey == "" {
		return entities.Payment{}, ErrMissingIdempotencyKey
	}
	if in.UserID == "" {
		return entities.Payment{}, ErrInvalidCheckoutUser
	}
	if in.PlanID == "" {
		return entities.Payment{}, ErrInvalidCheckoutPlan
	}
	if u.gateway == nil {
		log.Printf("[checkout][usecase] gateway not configured user_id=%s", in.UserID)
		return entities.Payment{}, errors.New("payment gateway not configured")
	}

	key := "checkout:" + in.UserID + ":" + in.IdempotencyKey
	return GetOrCreateJSON(ctx, u.cache, key, u.ttl, func(ctx context.Context) (entities.Payment, error) {
		return u.checkout(ctx, in)
	})
}

func (u *CheckoutUseCase) checkout(ctx context.Context, in CheckoutInput) (entities.Payment, error) {
	mockMode := isPaymentGatewayMockEnabled()
	payload, err := normalizeCheckoutPayload(in.Payload, mockMode)
	if err != nil {
		log.Printf("[checkout][usecase] invalid payload user_id=%s err=%v", in.UserID, err)
		return entities.Payment{}, err
	}

	plan, err := u.loadPlan(ctx, in.PlanID)
	if err != nil {
		return entities.Payment{}, err
	}

	now := u.now()
	p := entities.Payment{
		ID:             uuid.NewString(),
		UserID:         in.UserID,
		PlanID:         plan.ID,
		Status:         entities.PaymentStatusStarting,
		Amount:         plan.TransactionAmount,
		IdempotencyKey: in.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := u.save(ctx, p, true); err != nil {
		log.Printf("[checkout][usecase] starting payment not saved user_id=%s err=%v", in.UserID, err)
		return entities.Payment{}, err
	}

	ref, _ := json.Marshal(PaymentReference{PlanID: plan.ID, UserID: in.UserID})
	payload["external_reference"] = string(ref)
	if _, ok := payload["description"]; !ok {
		payload["description"] = fmt.Sprintf("Plan %s", plan.Name)
	}
	// The plan in the ledger is the source of truth for the amount.
	payload["transaction_amount"] = plan.TransactionAmount.InexactFloat64()
	body, err := json.Marshal(payload)
	if err != nil {
		u.abandon(ctx, p.ID)
		return entities.Payment{}, err
	}

	log.Printf("[checkout][usecase] calling payment gateway payment_id=%s", p.ID)
	details, err := u.gateway.CreatePayment(ctx, body)
	if err == nil && strings.TrimSpace(details.ID) == "" {
		err = errors.New("payment gateway returned no payment id")
	}
	if err != nil {
		log.Printf("[checkout][usecase] payment gateway failed payment_id=%s err=%v", p.ID, err)
		u.abandon(ctx, p.ID)
		return entities.Payment{}, classifyGatewayError(err)
	}

	p.ExternalID = details.ID
	p.PaymentID = details.ID
	p.Status = entities.PaymentStatusPending
	p.Method = details.PaymentMethodID
	p.LastFourDigits = details.LastFourDigits
	p.UpdatedAt = u.now()

	// From here on the provider holds a payment: the result is returned for
	// caching even when the caller is gone or the ledger write fails.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pendingSaveTimeout)
	defer cancel()
	if err := u.save(saveCtx, p, false); err != nil {
		log.Printf("[checkout][usecase] pending payment not saved, reconcile manually payment_id=%s external_id=%s err=%v", p.ID, p.ExternalID, err)
		return p, nil
	}
	log.Printf("[checkout][usecase] checkout success payment_id=%s external_id=%s provider_status=%s", p.ID, p.ExternalID, details.Status)
	return p, nil
}

func (u *CheckoutUseCase) loadPlan(ctx context.Context, planID string) (entities.Plan, error) {
	const op = "checkout"
	uow, err := begin(ctx, u.ledger, op)
	if err != nil {
		return entities.Plan{}, err
	}
	defer uow.Rollback(ctx)

	plan, err := uow.Plans().GetByID(ctx, planID)
	if err != nil {
		return entities.Plan{}, storeErr(op, "load plan", err)
	}
	if plan.ID == "" {
		return entities.Plan{}, ErrPlanNotFound
	}
	if !plan.IsActive {
		return entities.Plan{}, ErrPlanInactive
	}
	return plan, nil
}

func (u *CheckoutUseCase) save(ctx context.Context, p entities.Payment, create bool) error {
	const op = "checkout"
	uow, err := begin(ctx, u.ledger, op)
	if err != nil {
		return err
	}
	defer uow.Rollback(ctx)
	if create {
		err = uow.Payments().Add(ctx, p)
	} else {
		err = uow.Payments().Update(ctx, p)
	}
	if err != nil {
		return storeErr(op, "save payment", err)
	}
	return commit(ctx, uow, op)
}

// abandon deletes a payment the provider never accepted.
func (u *CheckoutUseCase) abandon(ctx context.Context, paymentID string) {
	ctx = context.WithoutCancel(ctx)
	uow, err := u.ledger.Begin(ctx)
	if err != nil {
		log.Printf("[checkout][usecase] rollback of starting payment failed payment_id=%s err=%v", paymentID, err)
		return
	}
	defer uow.Rollback(ctx)
	if err := uow.Payments().Remove(ctx, paymentID); err != nil {
		log.Printf("[checkout][usecase] rollback of starting payment failed payment_id=%s err=%v", paymentID, err)
		return
	}
	if err := uow.Commit(ctx); err != nil {
		log.Printf("[checkout][usecase] rollback of starting payment failed payment_id=%s err=%v", paymentID, err)
		return
	}
	log.Printf("[checkout][usecase] starting payment removed payment_id=%s", paymentID)
}

func normalizeCheckoutPayload(raw json.RawMessage, mockMode bool) (map[string]any, error) {
	if len(raw) == 0 || !json.Valid(raw) {
		if mockMode {
			return map[string]any{}, nil
		}
		return nil, ErrInvalidMPPayload
	}
	var reqMap map[string]any
	if err := json.Unmarshal(raw, &reqMap); err != nil || reqMap == nil {
		if mockMode {
			return map[string]any{}, nil
		}
		return nil, ErrInvalidMPPayload
	}
	if mockMode {
		return reqMap, nil
	}
	if !hasNonEmptyString(reqMap, "payment_method_id") {
		return nil, ErrInvalidMPPayload
	}
	normalizeSandboxPayerFromUserID(reqMap)
	ensurePayerDefaults(reqMap)
	if !hasPayer(reqMap) {
		return nil, ErrInvalidMPPayload
	}
	return reqMap, nil
}

func classifyGatewayError(err error) error {
	switch {
	case isGatewayCustomerNotFound(err):
		return ErrPaymentGatewayCustomerNotFound
	case isGatewayInvalidUsers(err):
		return ErrPaymentGatewayInvalidUsers
	case isGatewayUnauthorized(err):
		return ErrPaymentGatewayUnauthorized
	case isGatewayBadRequest(err):
		return ErrPaymentGatewayBadRequest
	}
	return err
}

func hasNonEmptyString(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	return ok && strings.TrimSpace(s) != ""
}

func hasPayer(m map[string]any) bool {
	payer, ok := m["payer"].(map[string]any)
	if !ok {
		return false
	}
	return hasNonEmptyString(payer, "email") || hasPayerID(payer)
}

func hasPayerID(payer map[string]any) bool {
	v, ok := payer["id"]
	if !ok || v == nil {
		return false
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	return s != "" && s != "<nil>"
}

func ensurePayerDefaults(m map[string]any) {
	v, ok := m["payer"]
	if !ok || v == nil {
		v = map[string]any{}
		m["payer"] = v
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return
	}
	if _, ok := payer["type"]; !ok {
		payer["type"] = "customer"
	}

	// In sandbox, either payer.id or payer.email may be used.
	if !hasPayerID(payer) && !hasNonEmptyString(payer, "email") {
		if email := strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_EMAIL")); email != "" {
			payer["email"] = email
		} else if strings.HasPrefix(strings.TrimSpace(os.Getenv("MERCADOPAGO_ACCESS_TOKEN")), "TEST-") {
			payer["email"] = "test_user_br@testuser.com"
		}
	}
}

// normalizeSandboxPayerFromUserID swaps a configured sandbox payer user id for
// its email, which is what the sandbox accepts.
func normalizeSandboxPayerFromUserID(m map[string]any) {
	payer, ok := m["payer"].(map[string]any)
	if !ok || !hasPayerID(payer) || hasNonEmptyString(payer, "email") {
		return
	}
	if !strings.HasPrefix(strings.TrimSpace(os.Getenv("MERCADOPAGO_ACCESS_TOKEN")), "TEST-") {
		return
	}
	configuredUserID := strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_USER_ID"))
	configuredEmail := strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_EMAIL"))
	if configuredUserID == "" || configuredEmail == "" {
		return
	}
	if strings.TrimSpace(fmt.Sprintf("%v", payer["id"])) != configuredUserID {
		return
	}
	payer["email"] = configuredEmail
	delete(payer, "id")
	log.Printf("[checkout][usecase] mapped sandbox payer user_id to payer.email")
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}

func gatewayErrorContains(err error, needles ...string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, n := range needles {
		if strings.Contains(msg, n) {
			return true
		}
	}
	return false
}

func isGatewayBadRequest(err error) bool {
	return gatewayErrorContains(err, "\"error\":\"bad_request\"", "\"status\":400")
}

func isGatewayUnauthorized(err error) bool {
	return gatewayErrorContains(err, "\"error\":\"unauthorized\"", "\"status\":401")
}

func isGatewayInvalidUsers(err error) bool {
	return gatewayErrorContains(err, "invalid users involved", "\"code\":2034")
}

func isGatewayCustomerNotFound(err error) bool {
	return gatewayErrorContains(err, "customer not found", "\"code\":2002")
}
