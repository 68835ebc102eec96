package booking

import "consultly/models"

// ApplyTransition decides whether the requested status change is legal for
// the caller's role and returns the booking with the new status applied.
// It is pure: no I/O, no mutation of the input.
//
// The only client-driven edges are Pending -> Confirmed and
// Pending -> Cancelled, both provider-only. Completed is written by the
// upstream service when it deems a session over and is never produced here.
//
// lastKnown is the status the caller last observed. If the current
// server-side status differs, the caller is working from a stale read and
// the transition is rejected with StaleStateError instead of silently
// overwriting the newer state.
func ApplyTransition(current models.Booking, requested models.BookingStatus, caller models.Role, lastKnown models.BookingStatus) (models.Booking, error) {
	if current.Status != lastKnown {
		return models.Booking{}, StaleStateError{
			BookingID: current.ID,
			Known:     lastKnown,
			Actual:    current.Status,
		}
	}

	if !allowed(current.Status, requested, caller) {
		return models.Booking{}, InvalidTransitionError{
			From: current.Status,
			To:   requested,
			Role: caller,
		}
	}

	updated := current
	updated.Status = requested
	return updated, nil
}

func allowed(from, to models.BookingStatus, caller models.Role) bool {
	if !caller.IsProvider() {
		return false
	}
	if from != models.StatusPending {
		return false
	}
	return to == models.StatusConfirmed || to == models.StatusCancelled
}
