package handlers

import (
	"time"

	"github.com/AmirShamelov/taskr/internal/config"
	"github.com/AmirShamelov/taskr/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CookieHelper manages the session cookie.
type CookieHelper struct {
	config config.CookieConfig
}

// NewCookieHelper creates a new cookie helper with the given configuration.
func NewCookieHelper(config config.CookieConfig) *CookieHelper {
	return &CookieHelper{config: config}
}

// SetSession stores token in the session cookie for expiry.
func (h *CookieHelper) SetSession(c *gin.Context, token string, expiry time.Duration) {
	h.setCookie(c, middleware.SessionCookie, token, int(expiry.Seconds()))
}

// ClearSession removes the session cookie.
func (h *CookieHelper) ClearSession(c *gin.Context) {
	h.setCookie(c, middleware.SessionCookie, "", -1)
}

func (h *CookieHelper) setCookie(c *gin.Context, name, value string, maxAge int) {
	path := h.config.Path
	if path == "" {
		path = "/"
	}
	c.SetSameSite(h.config.SameSite)
	c.SetCookie(
		name,
		value,
		maxAge,
		path,
		h.config.Domain,
		h.config.Secure,
		true, // httpOnly
	)
}
