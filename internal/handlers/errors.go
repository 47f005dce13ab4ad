package handlers

import (
	"errors"
	"net/http"

	"github.com/AmirShamelov/taskr/internal/metrics"
	"github.com/AmirShamelov/taskr/internal/respond"
	"github.com/AmirShamelov/taskr/internal/service"
	"github.com/gin-gonic/gin"
)

// Messages shown to callers.
const (
	MsgRegistered        = "Thanks for registering. Please login."
	MsgDuplicateUser     = "That username and/or email already exist."
	MsgWelcome           = "Welcome!"
	MsgGoodbye           = "Goodbye!"
	MsgInvalidLogin      = "Invalid username or password."
	MsgTaskPosted        = "New entry was successfully posted. Thanks."
	MsgTaskCompleted     = "The task is complete. Nice."
	MsgTaskDeleted       = "The task was deleted."
	MsgCompleteForbidden = "You can only update tasks that belong to you."
	MsgDeleteForbidden   = "You can only delete tasks that belong to you."
	MsgInvalidInput      = "Invalid input."
	MsgInvalidBody       = "Invalid request body."
)

// respondServiceError maps a service error to its HTTP response.
// forbidden is the message used for ErrForbidden.
func respondServiceError(c *gin.Context, err error, forbidden string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Fields(c, http.StatusBadRequest, MsgInvalidInput, verr.Fields)
	case errors.Is(err, service.ErrDuplicateUser):
		respond.Error(c, http.StatusConflict, MsgDuplicateUser)
	case errors.Is(err, service.ErrInvalidCredentials):
		respond.Error(c, http.StatusUnauthorized, MsgInvalidLogin)
	case errors.Is(err, service.ErrForbidden):
		respond.Error(c, http.StatusForbidden, forbidden)
	case errors.Is(err, service.ErrTaskNotFound):
		respond.Error(c, http.StatusNotFound, respond.MsgNotFound)
	default:
		respond.LogAndError(c, http.StatusInternalServerError, err, respond.MsgInternal)
	}
}

// outcome classifies err for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidCredentials):
		return metrics.OutcomeInvalid
	case errors.Is(err, service.ErrDuplicateUser):
		return metrics.OutcomeConflict
	case errors.Is(err, service.ErrForbidden):
		return metrics.OutcomeDenied
	case errors.Is(err, service.ErrTaskNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}

// NotFound answers unknown routes.
func NotFound(c *gin.Context) {
	respond.Error(c, http.StatusNotFound, respond.MsgNotFound)
}
