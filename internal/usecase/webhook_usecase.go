package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"

	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"
)

var (
	ErrWebhookUnsupportedType  = errors.New("webhook type not handled")
	ErrWebhookMissingID        = errors.New("webhook without data.id")
	ErrWebhookInvalidSignature = errors.New("invalid webhook signature")
)

// webhookKinds maps provider notification topics to job kinds. Both the
// current topic names and the legacy "topic_*_wh" ones are accepted.
var webhookKinds = map[string]entities.JobKind{
	"payment":                         entities.JobKindPayment,
	"subscription_preapproval":        entities.JobKindSubscriptionCreate,
	"subscription_authorized_payment": entities.JobKindSubscriptionRenewal,
	"subscription_preapproval_plan":   entities.JobKindPlanUpdate,
	"chargebacks":                     entities.JobKindChargeback,
	"chargeback":                      entities.JobKindChargeback,
	"topic_chargebacks_wh":            entities.JobKindChargeback,
	"claim":                           entities.JobKindClaim,
	"topic_claims_integration_wh":     entities.JobKindClaim,
	"automatic-payments":              entities.JobKindCardUpdate,
	"topic_card_id_wh":                entities.JobKindCardUpdate,
}

// WebhookNotification is the part of a provider notification the service
// acts on. CustomerID is only sent with card notifications.
type WebhookNotification struct {
	Type       string
	Action     string
	DataID     string
	CustomerID string
}

// KindForWebhookType resolves the job kind for a provider topic.
func KindForWebhookType(topic string) (entities.JobKind, bool) {
	k, ok := webhookKinds[strings.ToLower(strings.TrimSpace(topic))]
	return k, ok
}

//go:generate mockgen -destination=../adapter/http/handlers/mocks/usecase_mock.go -package=mocks billing_reconciler/internal/usecase IWebhookUseCase,ICheckoutUseCase,IPlanCatalogUseCase,IFailedJobUseCase

type IWebhookUseCase interface {
	VerifySignature(signature, requestID, dataID string) error
	Receive(ctx context.Context, n WebhookNotification) (entities.Job, error)
}

// WebhookUseCase validates provider notifications and defers them to the job
// queue. No reconciliation happens on the request path.
type WebhookUseCase struct {
	queue  interfaces.IJobQueue
	secret string
}

var _ IWebhookUseCase = (*WebhookUseCase)(nil)

func NewWebhookUseCase(queue interfaces.IJobQueue, secret string) *WebhookUseCase {
	return &WebhookUseCase{queue: queue, secret: strings.TrimSpace(secret)}
}

// VerifySignature checks the x-signature header ("ts=<ts>,v1=<hex>") against
// the manifest "id:<data.id>;request-id:<x-request-id>;ts:<ts>;". Without a
// configured secret every notification is accepted.
func (u *WebhookUseCase) VerifySignature(signature, requestID, dataID string) error {
	if u.secret == "" {
		return nil
	}
	var ts, v1 string
	for _, part := range strings.Split(signature, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(k) {
		case "ts":
			ts = strings.TrimSpace(v)
		case "v1":
			v1 = strings.TrimSpace(v)
		}
	}
	if ts == "" || v1 == "" {
		log.Printf("[webhook][usecase] malformed signature header")
		return ErrWebhookInvalidSignature
	}

	manifest := "id:" + strings.ToLower(strings.TrimSpace(dataID)) + ";request-id:" + strings.TrimSpace(requestID) + ";ts:" + ts + ";"
	mac := hmac.New(sha256.New, []byte(u.secret))
	mac.Write([]byte(manifest))
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(strings.ToLower(v1))
	if err != nil || !hmac.Equal(got, expected) {
		log.Printf("[webhook][usecase] signature mismatch request_id=%s", requestID)
		return ErrWebhookInvalidSignature
	}
	return nil
}

func (u *WebhookUseCase) Receive(ctx context.Context, n WebhookNotification) (entities.Job, error) {
	kind, ok := KindForWebhookType(n.Type)
	if !ok {
		log.Printf("[webhook][usecase] ignored type=%q action=%q", n.Type, n.Action)
		return entities.Job{}, ErrWebhookUnsupportedType
	}
	resourceID := strings.TrimSpace(n.DataID)
	if resourceID == "" {
		return entities.Job{}, ErrWebhookMissingID
	}
	if kind == entities.JobKindCardUpdate {
		customerID := strings.TrimSpace(n.CustomerID)
		if customerID == "" {
			return entities.Job{}, ErrWebhookMissingID
		}
		resourceID = CardResourceID(customerID, resourceID)
	}

	job, err := u.queue.Enqueue(ctx, kind, resourceID)
	if err != nil {
		log.Printf("[webhook][usecase] enqueue failed kind=%s resource_id=%s err=%v", kind, resourceID, err)
		return entities.Job{}, err
	}
	log.Printf("[webhook][usecase] enqueued job_id=%s kind=%s resource_id=%s", job.ID, kind, resourceID)
	return job, nil
}
