package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mileusna/useragent"
)

// AccessLogMiddleware writes one line per request after it completes.
func AccessLogMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		ua := useragent.Parse(c.Request.UserAgent())

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"size", c.Writer.Size(),
			"request_id", c.GetString(RequestIDKey),
			"client_ip", c.ClientIP(),
		}
		if ua.Name != "" {
			attrs = append(attrs, "browser", ua.Name, "os", ua.OS)
		}
		if ua.Bot {
			attrs = append(attrs, "bot", true)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			logger.Error("request", attrs...)
		case status >= 400:
			logger.Warn("request", attrs...)
		default:
			logger.Info("request", attrs...)
		}
	}
}
