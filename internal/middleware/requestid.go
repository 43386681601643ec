// Package middleware provides the gin middleware stack for the web layer:
// panic recovery, request ids, request logging, and CSRF protection for the
// HTML form routes.
package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/simp-lee/logger"
)

const (
	requestIDHeader     = "X-Request-ID"
	requestIDContextKey = "request_id"
)

// RequestID returns a gin middleware that assigns a fresh UUID to every
// request. Upstream X-Request-ID values are never trusted.
//
// The id is stored in gin.Context under "request_id", echoed in the
// X-Request-ID response header, and attached to the request context via
// logger.WithContextAttrs so every log line in the request's scope carries it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()

		c.Set(requestIDContextKey, id)
		c.Header(requestIDHeader, id)

		ctx := logger.WithContextAttrs(c.Request.Context(), slog.String("request_id", id))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID extracts the request ID from the gin.Context.
// Returns an empty string if no request ID is set.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(requestIDContextKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
