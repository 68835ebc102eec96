package handlers

import (
	"net/http"

	"consultly/middleware"
	"consultly/services/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler drives live-session join and leave.
type SessionHandler struct {
	Orch *session.Orchestrator
}

func NewSessionHandler(orch *session.Orchestrator) *SessionHandler {
	return &SessionHandler{Orch: orch}
}

// JoinSessionHandler enters the live session for a booking. Providers get
// capture started automatically once the backend reports the call active.
func (h *SessionHandler) JoinSessionHandler(c *gin.Context) {
	caller, _ := middleware.CallerIdentity(c)
	bookingID := c.Param("bookingID")

	live, err := h.Orch.Join(c.Request.Context(), bookingID, caller)
	if err != nil {
		getLogger(c).Warn("Session join failed",
			zap.String("bookingId", bookingID), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookingId": live.BookingID,
		"state":     live.State(),
		"capture":   live.Capture(),
	})
}

// LeaveSessionHandler hangs up. Leaving a session that was never joined is a
// no-op.
func (h *SessionHandler) LeaveSessionHandler(c *gin.Context) {
	bookingID := c.Param("bookingID")
	if err := h.Orch.Leave(c.Request.Context(), bookingID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "state": session.StateLeft})
}

// GetSessionHandler reports the orchestrator state for a booking.
func (h *SessionHandler) GetSessionHandler(c *gin.Context) {
	bookingID := c.Param("bookingID")
	live, ok := h.Orch.Get(bookingID)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "state": session.StateIdle})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookingId": live.BookingID,
		"state":     live.State(),
		"capture":   live.Capture(),
	})
}
