package middleware

import (
	"consultly/models"

	"github.com/gin-gonic/gin"
)

// CallerIdentity pulls the authenticated identity out of the gin context.
func CallerIdentity(c *gin.Context) (models.Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}
