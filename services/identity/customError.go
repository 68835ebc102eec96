package identity

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when an operation needs a signed-in
// identity and none is present.
var ErrUnauthenticated = errors.New("not signed in")

// AuthError signals a rejected sign-in or registration: either a non-2xx
// response from the upstream identity endpoints or a network failure
// reaching them.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e AuthError) Error() string {
	if e.StatusCode == 0 {
		return "authentication failed: " + e.Message
	}
	return fmt.Sprintf("authentication rejected (%d): %s", e.StatusCode, e.Message)
}
