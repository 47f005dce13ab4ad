package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AmirShamelov/taskr/internal/models"
	"github.com/AmirShamelov/taskr/internal/repository"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrForbidden    = errors.New("action restricted to the task owner")
)

// CreateTaskInput is the new-task form. PostedDate is optional.
type CreateTaskInput struct {
	Name       string `json:"name" form:"name" validate:"required"`
	DueDate    string `json:"due_date" form:"due_date" validate:"required"`
	Priority   int    `json:"priority" form:"priority" validate:"required,min=1,max=10"`
	PostedDate string `json:"posted_date" form:"posted_date"`
}

// TaskView is a listed task annotated with whether the viewer may modify it.
type TaskView struct {
	Task      models.Task
	CanModify bool
}

// TaskService defines the task lifecycle operations.
type TaskService interface {
	Create(ctx context.Context, actor models.Actor, in CreateTaskInput) (*models.Task, error)
	Complete(ctx context.Context, actor models.Actor, id int64) (*models.Task, error)
	Delete(ctx context.Context, actor models.Actor, id int64) error
	List(ctx context.Context, actor models.Actor, filter repository.TaskFilter) ([]TaskView, error)
}

type taskService struct {
	taskRepo repository.TaskRepository
	now      func() time.Time
}

// NewTaskService creates a new TaskService instance.
func NewTaskService(taskRepo repository.TaskRepository) TaskService {
	return &taskService{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

func (s *taskService) Create(ctx context.Context, actor models.Actor, in CreateTaskInput) (*models.Task, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.DueDate = strings.TrimSpace(in.DueDate)
	in.PostedDate = strings.TrimSpace(in.PostedDate)

	verr := &ValidationError{}
	validateStruct(in, verr)

	var due time.Time
	if in.DueDate != "" {
		d, err := models.ParseDate(in.DueDate)
		if err != nil {
			verr.Add("due_date", MsgInvalidDate)
		}
		due = d
	}

	posted := models.CalendarDate(s.now())
	if in.PostedDate != "" {
		d, err := models.ParseDate(in.PostedDate)
		if err != nil {
			verr.Add("posted_date", MsgInvalidDate)
		}
		posted = d
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}

	task := &models.Task{
		Name:       in.Name,
		DueDate:    due,
		Priority:   in.Priority,
		PostedDate: posted,
		Status:     models.StatusOpen,
		UserID:     actor.UserID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// authorize loads the current state of the task and applies CanModify to it.
func (s *taskService) authorize(ctx context.Context, actor models.Actor, id int64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	if !CanModify(actor, task) {
		return nil, ErrForbidden
	}
	return task, nil
}

// Complete marks the task complete. Completing a complete task is a no-op.
func (s *taskService) Complete(ctx context.Context, actor models.Actor, id int64) (*models.Task, error) {
	task, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !task.IsOpen() {
		return task, nil
	}

	if err := s.taskRepo.UpdateStatus(ctx, task.ID, models.StatusComplete); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	task.Status = models.StatusComplete
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	task, err := s.authorize(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

// List returns every user's tasks, earliest due first.
func (s *taskService) List(ctx context.Context, actor models.Actor, filter repository.TaskFilter) ([]TaskView, error) {
	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for user %d: %w", actor.UserID, err)
	}

	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, TaskView{Task: t, CanModify: CanModify(actor, &t)})
	}
	return views, nil
}
