package models

import "time"

// BookingStatus is the server-authoritative lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusConfirmed BookingStatus = "Confirmed"
	StatusCancelled BookingStatus = "Cancelled"
	// StatusCompleted is set by the upstream service once a session is
	// deemed over; the client only ever reads it.
	StatusCompleted BookingStatus = "Completed"
)

// Terminal reports whether no further client-driven transition exists.
func (s BookingStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Booking represents a scheduled consultation between a requester and a
// provider. The upstream booking service assigns the id and owns the record;
// the client never deletes bookings.
type Booking struct {
	ID             string        `json:"id"`
	RequesterID    string        `json:"requesterId"`
	ProviderID     string        `json:"providerId"`
	ScheduledAt    time.Time     `json:"scheduledAt"`
	Status         BookingStatus `json:"status"`
	Topic          string        `json:"topic"`
	Notes          string        `json:"notes,omitempty"`
	RequesterLabel string        `json:"requesterLabel,omitempty"`
	ProviderLabel  string        `json:"providerLabel,omitempty"`
}
