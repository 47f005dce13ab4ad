package handlers

import (
	"net/http"
	"strconv"

	"github.com/AmirShamelov/taskr/internal/metrics"
	"github.com/AmirShamelov/taskr/internal/middleware"
	"github.com/AmirShamelov/taskr/internal/models"
	"github.com/AmirShamelov/taskr/internal/repository"
	"github.com/AmirShamelov/taskr/internal/respond"
	"github.com/AmirShamelov/taskr/internal/service"
	"github.com/gin-gonic/gin"
)

// TaskHandler handles task HTTP requests. Every route requires a session.
type TaskHandler struct {
	taskService service.TaskService
	metrics     *metrics.Metrics
}

// NewTaskHandler creates a new TaskHandler instance.
func NewTaskHandler(taskService service.TaskService, m *metrics.Metrics) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		metrics:     m,
	}
}

// TaskResponse is a task as shown in the listing.
type TaskResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	DueDate    string `json:"due_date"`
	Priority   int    `json:"priority"`
	PostedDate string `json:"posted_date"`
	Status     int    `json:"status"`
	UserID     int64  `json:"user_id"`
	PostedBy   string `json:"posted_by,omitempty"`
	CanModify  bool   `json:"can_modify"`
}

// TaskListResponse is the body of GET /tasks.
type TaskListResponse struct {
	User  string         `json:"user"`
	Tasks []TaskResponse `json:"tasks"`
}

func taskResponse(t *models.Task, canModify bool) TaskResponse {
	resp := TaskResponse{
		ID:         t.ID,
		Name:       t.Name,
		DueDate:    t.DueDate.Format(models.DateLayout),
		Priority:   t.Priority,
		PostedDate: t.PostedDate.Format(models.DateLayout),
		Status:     int(t.Status),
		UserID:     t.UserID,
		CanModify:  canModify,
	}
	if t.User != nil {
		resp.PostedBy = t.User.Name
	}
	return resp
}

func actorOrAbort(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, respond.MsgLoginRequired)
	}
	return actor, ok
}

// taskID parses the :id path parameter. Anything but a positive integer names no task.
func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusNotFound, respond.MsgNotFound)
		return 0, false
	}
	return id, true
}

// List godoc
// @Summary List tasks
// @Description All users' tasks ordered by due date, each marked with whether the caller may modify it
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status" Enums(open, complete)
// @Success 200 {object} TaskListResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var filter repository.TaskFilter
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseTaskStatus(raw)
		if err != nil {
			respond.Fields(c, http.StatusBadRequest, MsgInvalidInput, map[string]string{"status": service.MsgInvalidValue})
			return
		}
		filter.Status = &status
	}

	views, err := h.taskService.List(c.Request.Context(), actor, filter)
	h.metrics.TaskOperation("list", outcome(err))
	if err != nil {
		respondServiceError(c, err, "")
		return
	}

	tasks := make([]TaskResponse, 0, len(views))
	for i := range views {
		tasks = append(tasks, taskResponse(&views[i].Task, views[i].CanModify))
	}
	c.JSON(http.StatusOK, TaskListResponse{User: actor.Name, Tasks: tasks})
}

// Create godoc
// @Summary Create a task
// @Description Post a new open task owned by the caller
// @Tags tasks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.CreateTaskInput true "New task"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var req service.CreateTaskInput
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), actor, req)
	h.metrics.TaskOperation("create", outcome(err))
	if err != nil {
		respondServiceError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": MsgTaskPosted,
		"task":    taskResponse(task, true),
	})
}

// Complete godoc
// @Summary Complete a task
// @Description Mark a task complete. Completing a complete task succeeds.
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tasks/{id}/complete [post]
func (h *TaskHandler) Complete(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Complete(c.Request.Context(), actor, id)
	h.metrics.TaskOperation("complete", outcome(err))
	if err != nil {
		respondServiceError(c, err, MsgCompleteForbidden)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": MsgTaskCompleted,
		"task":    taskResponse(task, true),
	})
}

// Delete godoc
// @Summary Delete a task
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	err := h.taskService.Delete(c.Request.Context(), actor, id)
	h.metrics.TaskOperation("delete", outcome(err))
	if err != nil {
		respondServiceError(c, err, MsgDeleteForbidden)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": MsgTaskDeleted})
}
