// Package handlers contains HTTP request handlers for the task service.
package handlers

import (
	"net/http"
	"time"

	"github.com/AmirShamelov/taskr/internal/metrics"
	"github.com/AmirShamelov/taskr/internal/middleware"
	"github.com/AmirShamelov/taskr/internal/models"
	"github.com/AmirShamelov/taskr/internal/respond"
	"github.com/AmirShamelov/taskr/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration and session HTTP requests.
type AuthHandler struct {
	authService  service.AuthService
	cookieHelper *CookieHelper
	metrics      *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService, cookieHelper *CookieHelper, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieHelper: cookieHelper,
		metrics:      m,
	}
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Name     string `json:"name" form:"name"`
	Password string `json:"password" form:"password"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID   int64       `json:"id"`
	Name string      `json:"name"`
	Role models.Role `json:"role"`
}

// LoginResponse represents the login response payload.
type LoginResponse struct {
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      UserResponse `json:"user"`
}

func userResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Role: u.Role}
}

// Register godoc
// @Summary Register a user
// @Description Create an account with the user role. Does not log the user in.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration form"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	h.metrics.AuthEvent("register", outcome(err))
	if err != nil {
		respondServiceError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": MsgRegistered,
		"user":    userResponse(user),
	})
}

// Login godoc
// @Summary User login
// @Description Verify credentials, start a session and set the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Name, req.Password)
	h.metrics.AuthEvent("login", outcome(err))
	if err != nil {
		respondServiceError(c, err, "")
		return
	}

	h.cookieHelper.SetSession(c, result.Token, time.Duration(result.ExpiresIn)*time.Second)
	c.JSON(http.StatusOK, LoginResponse{
		Message:   MsgWelcome,
		Token:     result.Token,
		ExpiresIn: result.ExpiresIn,
		User:      userResponse(result.User),
	})
}

// Logout godoc
// @Summary User logout
// @Description End the current session, if any, and clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := middleware.SessionToken(c)

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		h.metrics.AuthEvent("logout", metrics.OutcomeError)
		respond.LogAndError(c, http.StatusInternalServerError, err, respond.MsgInternal)
		return
	}
	h.metrics.AuthEvent("logout", metrics.OutcomeSuccess)

	h.cookieHelper.ClearSession(c)
	c.JSON(http.StatusOK, gin.H{"message": MsgGoodbye})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, respond.MsgLoginRequired)
		return
	}
	c.JSON(http.StatusOK, UserResponse{ID: actor.UserID, Name: actor.Name, Role: actor.Role})
}
