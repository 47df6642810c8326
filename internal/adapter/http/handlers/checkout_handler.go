package handlers

import (
	"log"
	"net/http"
	"strings"

	request "billing_reconciler/internal/adapter/http/dto/request"
	response "billing_reconciler/internal/adapter/http/dto/response"
	"billing_reconciler/internal/usecase"

	"github.com/gin-gonic/gin"
)

const headerIdempotencyKey = "X-Idempotency-Key"

type CheckoutHandler struct {
	usecase usecase.ICheckoutUseCase
}

func NewCheckoutHandler(uc usecase.ICheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{usecase: uc}
}

// CreatePayment godoc
// @Summary      Start a plan payment
// @Description  Retries with the same X-Idempotency-Key return the first result.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-Idempotency-Key  header  string  true  "client generated key"
// @Param        payload            body    request.CheckoutRequest  true  "checkout"
// @Success      201  {object}  response.PaymentResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Router       /payments [post]
func (h *CheckoutHandler) CreatePayment(c *gin.Context) {
	key := strings.TrimSpace(c.GetHeader(headerIdempotencyKey))
	if key == "" {
		writeError(c, mapCheckoutError(usecase.ErrMissingIdempotencyKey))
		return
	}

	var payload request.CheckoutRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[checkout][handler] invalid payload err=%v", err)
		writeError(c, errInvalidRequest)
		return
	}

	p, err := h.usecase.Checkout(c.Request.Context(), payload.ToInput(key))
	if err != nil {
		log.Printf("[checkout][handler] checkout failed user_id=%s plan_id=%s err=%v", payload.UserID, payload.PlanID, err)
		writeError(c, mapCheckoutError(err))
		return
	}
	log.Printf("[checkout][handler] checkout success payment_id=%s status=%s", p.ID, p.Status)
	c.JSON(http.StatusCreated, response.FromPayment(p))
}
