package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/AmirShamelov/taskr/internal/metrics"
	"github.com/AmirShamelov/taskr/internal/models"
	"github.com/AmirShamelov/taskr/internal/respond"
	"github.com/AmirShamelov/taskr/internal/service"
	"github.com/gin-gonic/gin"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "session"

const actorKey = "actor"

// SessionToken returns the request's session token. A bearer header wins
// over the cookie; bearer reports which one was used.
func SessionToken(c *gin.Context) (token string, bearer bool) {
	header := c.GetHeader("Authorization")
	if scheme, value, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		if value = strings.TrimSpace(value); value != "" {
			return value, true
		}
	}

	cookie, err := c.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}
	return cookie, false
}

// SetActor stores the acting user on the request context.
func SetActor(c *gin.Context, actor models.Actor) {
	c.Set(actorKey, actor)
}

// ActorFromContext returns the actor stored by RequireSession.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}

// RequireSession rejects requests without a live session and stores the
// session's actor on the context otherwise.
func RequireSession(sessions service.SessionService, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := SessionToken(c)
		if token == "" {
			m.AuthEvent("session", metrics.OutcomeNoSession)
			respond.Error(c, http.StatusUnauthorized, respond.MsgLoginRequired)
			return
		}

		session, err := sessions.Resolve(c.Request.Context(), token)
		if errors.Is(err, service.ErrInvalidSession) {
			m.AuthEvent("session", metrics.OutcomeNoSession)
			respond.Error(c, http.StatusUnauthorized, respond.MsgLoginRequired)
			return
		}
		if err != nil {
			m.AuthEvent("session", metrics.OutcomeError)
			respond.LogAndError(c, http.StatusInternalServerError, err, respond.MsgInternal)
			return
		}

		SetActor(c, session.Actor())
		c.Next()
	}
}
