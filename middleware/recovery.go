package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// EnhancedRecoveryMiddleware turns a panicking handler into a 500 for that
// request only. Store failures while annotating are raised this way.
func EnhancedRecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				TrackError("panic")
				logger.Error("request panicked",
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", c.GetString(RequestIDKey),
					"panic", err,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal Server Error",
				})
			}
		}()
		c.Next()
	}
}
