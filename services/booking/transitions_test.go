package booking

import (
	"errors"
	"testing"

	"consultly/models"
)

func pendingBooking() models.Booking {
	return models.Booking{
		ID:          "bk-1",
		RequesterID: "req-1",
		ProviderID:  "prov-1",
		Status:      models.StatusPending,
	}
}

func TestApplyTransitionProviderConfirms(t *testing.T) {
	updated, err := ApplyTransition(pendingBooking(), models.StatusConfirmed, models.RoleProvider, models.StatusPending)
	if err != nil {
		t.Fatalf("expected confirm to succeed, got %v", err)
	}
	if updated.Status != models.StatusConfirmed {
		t.Errorf("status = %s, want %s", updated.Status, models.StatusConfirmed)
	}
	if updated.ID != "bk-1" {
		t.Errorf("booking id changed: %s", updated.ID)
	}
}

func TestApplyTransitionProviderCancels(t *testing.T) {
	updated, err := ApplyTransition(pendingBooking(), models.StatusCancelled, models.RoleProvider, models.StatusPending)
	if err != nil {
		t.Fatalf("expected cancel to succeed, got %v", err)
	}
	if updated.Status != models.StatusCancelled {
		t.Errorf("status = %s, want %s", updated.Status, models.StatusCancelled)
	}
}

func TestApplyTransitionDoesNotMutateInput(t *testing.T) {
	current := pendingBooking()
	if _, err := ApplyTransition(current, models.StatusConfirmed, models.RoleProvider, models.StatusPending); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.Status != models.StatusPending {
		t.Errorf("input booking mutated to %s", current.Status)
	}
}

func TestApplyTransitionRequesterRejected(t *testing.T) {
	for _, to := range []models.BookingStatus{models.StatusConfirmed, models.StatusCancelled} {
		_, err := ApplyTransition(pendingBooking(), to, models.RoleRequester, models.StatusPending)
		var invalid InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Errorf("requester -> %s: got %v, want InvalidTransitionError", to, err)
			continue
		}
		if invalid.Role != models.RoleRequester {
			t.Errorf("error role = %s, want %s", invalid.Role, models.RoleRequester)
		}
	}
}

func TestApplyTransitionFromNonPendingRejected(t *testing.T) {
	for _, from := range []models.BookingStatus{models.StatusConfirmed, models.StatusCancelled, models.StatusCompleted} {
		current := pendingBooking()
		current.Status = from
		_, err := ApplyTransition(current, models.StatusCancelled, models.RoleProvider, from)
		var invalid InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Errorf("from %s: got %v, want InvalidTransitionError", from, err)
		}
	}
}

func TestApplyTransitionToIllegalTargetRejected(t *testing.T) {
	for _, to := range []models.BookingStatus{models.StatusPending, models.StatusCompleted} {
		_, err := ApplyTransition(pendingBooking(), to, models.RoleProvider, models.StatusPending)
		var invalid InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Errorf("to %s: got %v, want InvalidTransitionError", to, err)
		}
	}
}

func TestApplyTransitionStaleRead(t *testing.T) {
	// The caller still sees Pending but the server has moved on.
	current := pendingBooking()
	current.Status = models.StatusCancelled

	_, err := ApplyTransition(current, models.StatusConfirmed, models.RoleProvider, models.StatusPending)
	var stale StaleStateError
	if !errors.As(err, &stale) {
		t.Fatalf("got %v, want StaleStateError", err)
	}
	if stale.Known != models.StatusPending || stale.Actual != models.StatusCancelled {
		t.Errorf("stale error = %+v, want Known=Pending Actual=Cancelled", stale)
	}
}

func TestApplyTransitionStaleCheckedBeforeRules(t *testing.T) {
	// A stale read by a requester must surface as stale, not as a role
	// violation, so the client knows to refetch.
	current := pendingBooking()
	current.Status = models.StatusConfirmed

	_, err := ApplyTransition(current, models.StatusCancelled, models.RoleRequester, models.StatusPending)
	var stale StaleStateError
	if !errors.As(err, &stale) {
		t.Errorf("got %v, want StaleStateError", err)
	}
}
