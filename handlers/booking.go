package handlers

import (
	"net/http"

	"consultly/middleware"
	"consultly/models"
	"consultly/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes booking CRUD and status transitions.
type BookingHandler struct {
	Svc booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

// ListBookingsHandler returns the caller's bookings as the upstream reports
// them.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	caller, _ := middleware.CallerIdentity(c)

	bookings, err := h.Svc.List(c.Request.Context(), caller)
	if err != nil {
		getLogger(c).Error("Failed to list bookings", zap.Error(err))
		respondError(c, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

// ScheduleBookingHandler creates a Pending booking for the caller.
func (h *BookingHandler) ScheduleBookingHandler(c *gin.Context) {
	caller, _ := middleware.CallerIdentity(c)

	var input booking.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	created, err := h.Svc.Schedule(c.Request.Context(), caller, input)
	if err != nil {
		getLogger(c).Warn("Failed to schedule booking", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateBookingStatusHandler applies one state-machine transition. The
// caller sends the status it last saw so a stale screen cannot overwrite a
// newer server-side state.
func (h *BookingHandler) UpdateBookingStatusHandler(c *gin.Context) {
	caller, _ := middleware.CallerIdentity(c)
	id := c.Param("id")

	var req struct {
		Status          models.BookingStatus `json:"status" binding:"required"`
		LastKnownStatus models.BookingStatus `json:"lastKnownStatus"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.LastKnownStatus == "" {
		req.LastKnownStatus = models.StatusPending
	}

	updated, err := h.Svc.Transition(c.Request.Context(), caller, id, req.Status, req.LastKnownStatus)
	if err != nil {
		getLogger(c).Warn("Booking transition rejected",
			zap.String("bookingId", id), zap.String("requested", string(req.Status)), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
