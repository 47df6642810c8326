package interfaces

import (
	"context"
	"encoding/json"

	"billing_reconciler/internal/domain/entities"
)

//go:generate mockgen -source=provider_gateway_interface.go -destination=mocks/provider_gateway_interface_mock.go -package=mocks

// IProviderGateway abstracts the Mercado Pago API.
//
// Every method fails with an apperrors ExternalAPI error on non-2xx answers or
// bodies it cannot decode; a nil error always comes with usable details.
type IProviderGateway interface {
	GetPaymentStatus(ctx context.Context, paymentID string) (entities.PaymentDetails, error)
	GetSubscriptionByID(ctx context.Context, preapprovalID string) (entities.SubscriptionDetails, error)
	GetAuthorizedPayment(ctx context.Context, authorizedPaymentID string) (entities.AuthorizedPaymentDetails, error)
	GetChargebackDetails(ctx context.Context, chargebackID string) (entities.ChargebackDetails, error)
	GetClaimByID(ctx context.Context, claimID int64) (entities.ClaimDetails, error)
	GetCard(ctx context.Context, customerID, cardID string) (entities.CardDetails, error)
	GetPlanByID(ctx context.Context, planID string) (entities.PlanDetails, error)
	CreatePayment(ctx context.Context, requestPayload json.RawMessage) (entities.PaymentDetails, error)
}
