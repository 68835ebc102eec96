package identity

import (
	"context"

	"consultly/models"
)

// SessionBinder is the shared real-time client whose connect/disconnect
// lifecycle follows identity transitions. Only one identity may be connected
// at a time; connecting as a different identity disconnects the previous one
// first.
type SessionBinder interface {
	Connect(ctx context.Context, id models.Identity, realtimeToken string) error
	Disconnect() error
}

// IdentityService owns the signed-in identity and its credentials. All other
// components read the identity through it and never mutate it directly.
type IdentityService interface {
	SignIn(ctx context.Context, email, password string) (*models.Identity, error)
	Register(ctx context.Context, externalID, email, password string) (*models.Identity, error)
	SignOut(ctx context.Context) error
	Current() (models.Identity, bool)
	Credential() (models.Credential, bool)
	APIToken() (string, error)
	SetDeviceToken(ctx context.Context, token string) error
	DeviceToken() string
}
