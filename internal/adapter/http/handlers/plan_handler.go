package handlers

import (
	"net/http"

	response "billing_reconciler/internal/adapter/http/dto/response"
	"billing_reconciler/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	usecase usecase.IPlanCatalogUseCase
}

func NewPlanHandler(uc usecase.IPlanCatalogUseCase) *PlanHandler {
	return &PlanHandler{usecase: uc}
}

// ListPlans godoc
// @Summary  List active plans
// @Tags     plans
// @Produce  json
// @Success  200  {array}   response.PlanResponse
// @Failure  500  {object}  pkg.HTTPError
// @Router   /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.usecase.ListActive(c.Request.Context())
	if err != nil {
		writeError(c, mapAppError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromPlans(plans))
}
