package session

import "fmt"

// SessionJoinError is fatal to one join attempt: the live session could not
// be entered. It is surfaced to the user and never retried automatically.
type SessionJoinError struct {
	BookingID string
	Err       error
}

func (e SessionJoinError) Error() string {
	return fmt.Sprintf("could not join session for booking %s: %v", e.BookingID, e.Err)
}

func (e SessionJoinError) Unwrap() error {
	return e.Err
}

// CaptureError is advisory: a failed capture start or stop is logged and the
// session continues without capture.
type CaptureError struct {
	Op  string
	Err error
}

func (e CaptureError) Error() string {
	return fmt.Sprintf("capture %s failed: %v", e.Op, e.Err)
}

func (e CaptureError) Unwrap() error {
	return e.Err
}
