// Package respond writes JSON error bodies shared by handlers and middleware.
package respond

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// Messages used by more than one package.
const (
	MsgLoginRequired = "You need to login first."
	MsgNotFound      = "Sorry. There is nothing here."
	MsgInternal      = "Something went terribly wrong."
)

// Error aborts the request with {"error": message}.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// LogAndError logs err with request context and aborts with message.
// Server errors are logged at error level, everything else at warn.
func LogAndError(c *gin.Context, status int, err error, message string) {
	attrs := []any{
		"status", status,
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	}
	if status >= 500 {
		slog.ErrorContext(c.Request.Context(), message, attrs...)
	} else {
		slog.WarnContext(c.Request.Context(), message, attrs...)
	}
	Error(c, status, message)
}

// Fields aborts with a validation body carrying per-field messages.
func Fields(c *gin.Context, status int, message string, fields map[string]string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "fields": fields})
}
