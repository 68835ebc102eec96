package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"consultly/middleware"
	"consultly/utils"
)

// getLogger retrieves the request-scoped logger installed by the request
// logging middleware, falling back to the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(middleware.LoggerKey); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}
