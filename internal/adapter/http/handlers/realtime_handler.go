package handlers

import (
	"log"
	"net/http"
	"strings"

	"billing_reconciler/pkg"

	"github.com/gin-gonic/gin"
)

// RealtimeSessions upgrades a request into a websocket session for a user.
type RealtimeSessions interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID string) error
}

type RealtimeHandler struct {
	sessions RealtimeSessions
}

func NewRealtimeHandler(sessions RealtimeSessions) *RealtimeHandler {
	return &RealtimeHandler{sessions: sessions}
}

// Connect godoc
// @Summary  Open a websocket for real-time payment notices
// @Tags     realtime
// @Param    user_id  query  string  true  "user id"
// @Success  101
// @Failure  400  {object}  pkg.HTTPError
// @Router   /realtime/ws [get]
func (h *RealtimeHandler) Connect(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		writeError(c, pkg.NewDomainErrorSimple("MISSING_USER_ID", "user_id is required", http.StatusBadRequest))
		return
	}
	if err := h.sessions.ServeWS(c.Writer, c.Request, userID); err != nil {
		// The upgrader already answered the client.
		log.Printf("[realtime][handler] session failed user_id=%s err=%v", userID, err)
	}
}
