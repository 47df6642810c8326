package handlers

import (
	"errors"
	"net/http"

	"billing_reconciler/internal/domain/apperrors"
	"billing_reconciler/internal/usecase"
	"billing_reconciler/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidRequest = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
)

func writeError(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func mapCheckoutError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrMissingIdempotencyKey):
		return pkg.NewDomainErrorSimple("MISSING_IDEMPOTENCY_KEY", "X-Idempotency-Key header is required", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidCheckoutUser), errors.Is(err, usecase.ErrInvalidCheckoutPlan), errors.Is(err, usecase.ErrInvalidMPPayload), errors.Is(err, usecase.ErrPaymentGatewayBadRequest):
		return errInvalidRequest
	case errors.Is(err, usecase.ErrPaymentGatewayCustomerNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_CUSTOMER_NOT_FOUND", "Payer not found for this Mercado Pago account", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayInvalidUsers):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_INVALID_USERS", "Invalid users involved between seller and payer", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayUnauthorized):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAUTHORIZED", "Payment provider unauthorized", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrPlanNotFound):
		return pkg.NewDomainErrorSimple("PLAN_NOT_FOUND", "Plan not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrPlanInactive):
		return pkg.NewDomainErrorSimple("PLAN_INACTIVE", "Plan is not active", http.StatusConflict)
	case errors.Is(err, usecase.ErrIdempotencyInFlight):
		return pkg.NewDomainErrorSimple("REQUEST_IN_PROGRESS", "A request with this idempotency key is still running", http.StatusConflict)
	}
	return mapAppError(err)
}

// mapAppError translates the reconciliation error kinds.
func mapAppError(err error) *pkg.AppError {
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidPayload:
		return pkg.NewDomainError("INVALID_REQUEST", "Invalid request", err, http.StatusBadRequest)
	case apperrors.KindResourceNotFound:
		return pkg.NewDomainError("RESOURCE_NOT_FOUND", "Resource not found", err, http.StatusNotFound)
	case apperrors.KindExternalAPI:
		return pkg.NewDomainError("PAYMENT_PROVIDER_UNAVAILABLE", "Payment provider unavailable", err, http.StatusBadGateway)
	}
	return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
}
