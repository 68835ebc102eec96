package booking

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"consultly/models"
	"consultly/utils"

	"go.uber.org/zap"
)

func (s *DefaultBookingService) List(ctx context.Context, caller models.Identity) ([]models.Booking, error) {
	// The upstream filters by the bearer identity; the list comes back
	// already scoped to the caller.
	return s.Store.List(ctx)
}

func (s *DefaultBookingService) Get(ctx context.Context, caller models.Identity, id string) (*models.Booking, error) {
	bookings, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		if bookings[i].ID == id {
			return &bookings[i], nil
		}
	}
	return nil, BookingServiceError{StatusCode: http.StatusNotFound, Message: "booking not found"}
}

func (s *DefaultBookingService) Schedule(ctx context.Context, caller models.Identity, input ScheduleInput) (*models.Booking, error) {
	if input.ProviderID == "" {
		return nil, fmt.Errorf("providerId is required")
	}
	if input.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	scheduledAt, err := time.Parse(time.RFC3339, input.ScheduledAt)
	if err != nil {
		return nil, fmt.Errorf("scheduledAt must be RFC 3339: %w", err)
	}

	booking := models.Booking{
		RequesterID: caller.ID,
		ProviderID:  input.ProviderID,
		ScheduledAt: scheduledAt,
		Status:      models.StatusPending,
		Topic:       input.Topic,
		Notes:       input.Notes,
	}
	return s.Store.Create(ctx, booking)
}

func (s *DefaultBookingService) Transition(ctx context.Context, caller models.Identity, id string, requested, lastKnown models.BookingStatus) (*models.Booking, error) {
	// Refetch so the transition is decided against the server-side status,
	// not whatever the caller's screen happened to show.
	current, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	next, err := ApplyTransition(*current, requested, caller.Role, lastKnown)
	if err != nil {
		return nil, err
	}

	updated, err := s.Store.UpdateStatus(ctx, id, next.Status)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, *updated)
	return updated, nil
}

// notify pushes a booking update to the registered device. Delivery is
// best-effort: a push failure never fails the transition.
func (s *DefaultBookingService) notify(ctx context.Context, b models.Booking) {
	if s.Notifier == nil || s.DeviceToken == nil {
		return
	}
	token := s.DeviceToken()
	if token == "" {
		return
	}
	if err := s.Notifier.SendBookingPush(ctx, token, b); err != nil {
		utils.GetLogger().Warn("booking: push notification failed",
			zap.String("bookingId", b.ID), zap.Error(err))
	}
}
