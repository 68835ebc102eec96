package handlers

import (
	"errors"
	"net/http"

	"consultly/services/artifact"
	"consultly/services/booking"
	"consultly/services/identity"
	"consultly/services/session"

	"github.com/gin-gonic/gin"
)

// respondError maps service-layer errors onto HTTP responses. Fatal errors
// carry a retryable message for the user; advisory errors never reach here
// because they are swallowed and logged at their origin.
func respondError(c *gin.Context, err error) {
	var authErr identity.AuthError
	var svcErr booking.BookingServiceError
	var invalidErr booking.InvalidTransitionError
	var staleErr booking.StaleStateError
	var joinErr session.SessionJoinError
	var transcriptErr artifact.MalformedTranscriptError

	switch {
	case errors.Is(err, identity.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
	case errors.As(err, &authErr):
		status := authErr.StatusCode
		if status == 0 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": authErr.Message})
	case errors.As(err, &invalidErr):
		c.JSON(http.StatusConflict, gin.H{"error": invalidErr.Error()})
	case errors.As(err, &staleErr):
		c.JSON(http.StatusConflict, gin.H{"error": staleErr.Error(), "actualStatus": staleErr.Actual})
	case errors.As(err, &svcErr):
		status := svcErr.StatusCode
		if status < 400 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": svcErr.Message})
	case errors.As(err, &joinErr):
		// The session screen shows a "not started yet" state, not a crash.
		c.JSON(http.StatusBadGateway, gin.H{"error": "Session has not started yet"})
	case errors.As(err, &transcriptErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": transcriptErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
