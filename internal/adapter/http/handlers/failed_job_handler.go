package handlers

import (
	"net/http"
	"strconv"

	response "billing_reconciler/internal/adapter/http/dto/response"
	"billing_reconciler/internal/usecase"

	"github.com/gin-gonic/gin"
)

// FailedJobHandler lets operators see jobs that ran out of retries.
type FailedJobHandler struct {
	usecase usecase.IFailedJobUseCase
}

func NewFailedJobHandler(uc usecase.IFailedJobUseCase) *FailedJobHandler {
	return &FailedJobHandler{usecase: uc}
}

// ListFailedJobs godoc
// @Summary  List parked jobs, newest first
// @Tags     admin
// @Produce  json
// @Param    limit  query  int  false  "max items (default 50)"
// @Success  200  {array}   response.FailedJobResponse
// @Failure  400  {object}  pkg.HTTPError
// @Router   /admin/failed-jobs [get]
func (h *FailedJobHandler) ListFailedJobs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(c, errInvalidRequest)
			return
		}
		limit = n
	}

	jobs, err := h.usecase.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, mapAppError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromFailedJobs(jobs))
}
