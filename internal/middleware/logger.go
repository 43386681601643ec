package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger returns a gin middleware that logs each served request with method,
// path, status, latency, and client IP.
//
// The level follows the response status: 5xx logs at Error, 4xx at Warn,
// everything else at Info. Context-aware logging is used so the request_id
// placed in the context by RequestID is attached automatically.
func Logger(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			log.LogAttrs(ctx, slog.LevelError, "request", attrs...)
		case status >= 400:
			log.LogAttrs(ctx, slog.LevelWarn, "request", attrs...)
		default:
			log.LogAttrs(ctx, slog.LevelInfo, "request", attrs...)
		}
	}
}
