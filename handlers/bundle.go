package handlers

import (
	"consultly/services/identity"
)

// HandlerBundle groups the handlers the route registrar wires up.
type HandlerBundle struct {
	IdentityService identity.IdentityService

	Auth     *AuthHandler
	Booking  *BookingHandler
	Session  *SessionHandler
	Artifact *ArtifactHandler
}
