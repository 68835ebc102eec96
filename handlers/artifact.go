package handlers

import (
	"net/http"

	"consultly/middleware"
	"consultly/services/artifact"
	"consultly/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ArtifactHandler serves post-session recordings and transcripts.
type ArtifactHandler struct {
	Bookings booking.BookingService
	Svc      artifact.ArtifactService
}

func NewArtifactHandler(bookings booking.BookingService, svc artifact.ArtifactService) *ArtifactHandler {
	return &ArtifactHandler{Bookings: bookings, Svc: svc}
}

// ListArtifactsHandler fetches the caller's bookings and fans out artifact
// queries per booking. Bookings whose queries fail come back with empty
// lists; the batch itself never fails.
func (h *ArtifactHandler) ListArtifactsHandler(c *gin.Context) {
	caller, _ := middleware.CallerIdentity(c)

	bookings, err := h.Bookings.List(c.Request.Context(), caller)
	if err != nil {
		getLogger(c).Error("Failed to list bookings for artifacts", zap.Error(err))
		respondError(c, err)
		return
	}

	sets := h.Svc.ListArtifacts(c.Request.Context(), bookings)
	c.JSON(http.StatusOK, sets)
}

// GetTranscriptHandler resolves one transcript URL into labeled entries.
// Any malformed line fails the whole transcript; partial views are never
// served.
func (h *ArtifactHandler) GetTranscriptHandler(c *gin.Context) {
	caller, _ := middleware.CallerIdentity(c)
	bookingID := c.Param("bookingID")

	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}

	b, err := h.Bookings.Get(c.Request.Context(), caller, bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.Svc.FetchTranscript(c.Request.Context(), url, *b)
	if err != nil {
		getLogger(c).Warn("Transcript fetch failed",
			zap.String("bookingId", bookingID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
