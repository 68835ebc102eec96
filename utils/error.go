package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler converts a panicking request into the gateway's JSON error
// shape instead of a dropped connection. Upstream outages and state-machine
// rejections are typed errors handled at the handler layer; anything that
// reaches this recover is a bug.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				GetLogger().Error("request panicked",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", r))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Something went wrong. Please try again.",
				})
			}
		}()
		c.Next()
	}
}
