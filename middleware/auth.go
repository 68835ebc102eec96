// middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"consultly/services/identity"
	"consultly/utils"

	"github.com/gin-gonic/gin"
)

// IdentityKey is the gin context key under which the caller identity is set.
const IdentityKey = "identity"

// RequireAuth gates endpoints on the gateway's signed-in identity. The
// presented bearer must be the exact credential the identity service holds;
// possession is checked by hash comparison, expiry by the token's own claim.
func RequireAuth(ids identity.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		cred, ok := ids.Credential()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
			return
		}
		if utils.HashToken(tokenString) != utils.HashToken(cred.APIToken) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token mismatch"})
			return
		}
		if utils.TokenExpired(tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			return
		}

		current, ok := ids.Current()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
			return
		}
		c.Set(IdentityKey, current)
		c.Next()
	}
}

// RequireProvider additionally restricts an endpoint to provider identities.
func RequireProvider() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CallerIdentity(c)
		if !ok || !id.Role.IsProvider() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Provider role required"})
			return
		}
		c.Next()
	}
}
