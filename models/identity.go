package models

// Role identifies which side of a consultation an identity is on.
type Role string

const (
	// RoleRequester is the student side; requesters create bookings.
	RoleRequester Role = "requester"
	// RoleProvider is the professor side; providers confirm or cancel
	// bookings and own session capture.
	RoleProvider Role = "provider"
)

// IsProvider reports whether the role carries provider privileges.
func (r Role) IsProvider() bool {
	return r == RoleProvider
}

// Identity is the signed-in account as reported by the upstream identity
// service.
type Identity struct {
	ID          string `json:"id"`
	Role        Role   `json:"role"`
	Email       string `json:"email"`
	DisplayName string `json:"name,omitempty"`
}

// Credential bundles the two tokens issued at sign-in: the API token
// authenticates booking CRUD against the upstream service, the realtime
// token authenticates the session backend connection.
type Credential struct {
	APIToken      string `json:"jwt"`
	RealtimeToken string `json:"token"`
}

// AuthState is the durable record persisted under a single fixed key.
// An absent record means unauthenticated.
type AuthState struct {
	Authenticated bool       `json:"authenticated"`
	Credential    Credential `json:"credential"`
	Identity      Identity   `json:"identity"`
	DeviceToken   string     `json:"deviceToken,omitempty"`
}

// Consistent reports whether an authenticated state actually carries the
// fields it must. An authenticated state missing its credential or id is an
// invariant violation that forces a sign-out.
func (s AuthState) Consistent() bool {
	if !s.Authenticated {
		return true
	}
	return s.Credential.APIToken != "" && s.Credential.RealtimeToken != "" && s.Identity.ID != ""
}
