package handlers

import (
	"errors"
	"log"
	"net/http"

	request "billing_reconciler/internal/adapter/http/dto/request"
	response "billing_reconciler/internal/adapter/http/dto/response"
	"billing_reconciler/internal/usecase"
	"billing_reconciler/pkg"

	"github.com/gin-gonic/gin"
)

const (
	headerSignature = "x-signature"
	headerRequestID = "x-request-id"
)

// WebhookHandler receives Mercado Pago notifications. It only validates and
// enqueues; reconciliation runs in the workers.
type WebhookHandler struct {
	usecase usecase.IWebhookUseCase
}

func NewWebhookHandler(uc usecase.IWebhookUseCase) *WebhookHandler {
	return &WebhookHandler{usecase: uc}
}

// ReceiveMercadoPago godoc
// @Summary      Receive a Mercado Pago notification
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        x-signature   header  string  false  "ts=<unix>,v1=<hmac>"
// @Param        x-request-id  header  string  false  "provider request id"
// @Param        payload       body    request.WebhookNotificationRequest  true  "notification"
// @Success      200  {object}  response.WebhookAcceptedResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      401  {object}  pkg.HTTPError
// @Failure      503  {object}  pkg.HTTPError
// @Router       /webhooks/mercadopago [post]
func (h *WebhookHandler) ReceiveMercadoPago(c *gin.Context) {
	var payload request.WebhookNotificationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[webhook][handler] invalid payload err=%v", err)
		writeError(c, errInvalidRequest)
		return
	}

	queryType := c.Query("type")
	if queryType == "" {
		queryType = c.Query("topic")
	}
	queryID := c.Query("data.id")
	if queryID == "" {
		queryID = c.Query("id")
	}
	n := payload.ToNotification(queryType, queryID)

	if err := h.usecase.VerifySignature(c.GetHeader(headerSignature), c.GetHeader(headerRequestID), n.DataID); err != nil {
		writeError(c, pkg.NewDomainErrorSimple("INVALID_SIGNATURE", "Invalid signature", http.StatusUnauthorized))
		return
	}

	job, err := h.usecase.Receive(c.Request.Context(), n)
	switch {
	case errors.Is(err, usecase.ErrWebhookUnsupportedType):
		c.JSON(http.StatusOK, response.WebhookAcceptedResponse{Status: "ignored"})
	case errors.Is(err, usecase.ErrWebhookMissingID):
		writeError(c, pkg.NewDomainErrorSimple("MISSING_RESOURCE_ID", "Notification without data.id", http.StatusBadRequest))
	case err != nil:
		log.Printf("[webhook][handler] enqueue failed type=%s data_id=%s err=%v", n.Type, n.DataID, err)
		writeError(c, pkg.NewDomainError("QUEUE_UNAVAILABLE", "Notification could not be queued", err, http.StatusServiceUnavailable))
	default:
		c.JSON(http.StatusOK, response.WebhookAcceptedResponse{Status: "queued", JobID: job.ID})
	}
}
