package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/AmirShamelov/taskr/internal/respond"
	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a logged 500 response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		stack := make([]byte, 8*1024)
		stack = stack[:runtime.Stack(stack, false)]
		slog.ErrorContext(c.Request.Context(), "panic recovered",
			"error", fmt.Sprint(rec),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"stack", string(stack),
		)
		respond.Error(c, http.StatusInternalServerError, respond.MsgInternal)
	})
}

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}
