package booking

import (
	"fmt"

	"consultly/models"
)

// BookingServiceError is a non-2xx response from the upstream booking
// endpoints, carrying the response body's message field.
type BookingServiceError struct {
	StatusCode int
	Message    string
}

func (e BookingServiceError) Error() string {
	return fmt.Sprintf("booking service returned %d: %s", e.StatusCode, e.Message)
}

// InvalidTransitionError is returned when a requested status change is not
// in the allowed set for the caller's role.
type InvalidTransitionError struct {
	From models.BookingStatus
	To   models.BookingStatus
	Role models.Role
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s not allowed for role %s", e.From, e.To, e.Role)
}

// StaleStateError is returned when the server-side status no longer matches
// the status the caller last saw. Callers should refetch and retry; the
// transition is never applied over a stale read.
type StaleStateError struct {
	BookingID string
	Known     models.BookingStatus
	Actual    models.BookingStatus
}

func (e StaleStateError) Error() string {
	return fmt.Sprintf("booking %s changed on the server (knew %s, found %s); refetch and retry", e.BookingID, e.Known, e.Actual)
}
