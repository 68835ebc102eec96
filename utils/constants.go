// File: utils/constants.go
package utils

// AuthStateKey is the single durable Redis key holding the signed-in
// identity and its credentials. Absence of the key means unauthenticated.
const AuthStateKey = "consultly:authState"

// SessionNamespace is the namespace under which consultation calls are
// created on the real-time backend. Calls are named by booking id.
const SessionNamespace = "default"
