package booking

import (
	"context"

	"consultly/models"
	"consultly/services/notification"
)

// ScheduleInput is what a requester supplies when booking a consultation.
type ScheduleInput struct {
	ProviderID  string `json:"providerId"`
	ScheduledAt string `json:"scheduledAt"`
	Topic       string `json:"topic"`
	Notes       string `json:"notes,omitempty"`
}

// BookingService defines the booking operations exposed to the handlers.
type BookingService interface {
	List(ctx context.Context, caller models.Identity) ([]models.Booking, error)
	Get(ctx context.Context, caller models.Identity, id string) (*models.Booking, error)
	Schedule(ctx context.Context, caller models.Identity, input ScheduleInput) (*models.Booking, error)
	Transition(ctx context.Context, caller models.Identity, id string, requested, lastKnown models.BookingStatus) (*models.Booking, error)
}

// DefaultBookingService implements BookingService on top of the upstream
// store and the pure transition rules.
type DefaultBookingService struct {
	Store       Store
	Notifier    notification.NotificationService
	DeviceToken func() string
}
