package repository

import (
	"context"
	"fmt"

	"github.com/AmirShamelov/taskr/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskFilter narrows a task listing. The zero value matches every task.
type TaskFilter struct {
	Status *models.TaskStatus
}

// TaskRepository defines the interface for task data operations.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	UpdateStatus(ctx context.Context, id int64, status models.TaskStatus) error
	Delete(ctx context.Context, id int64) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository instance.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
	if err != nil {
		return fmt.Errorf("failed to create task: %w", translate(err))
	}
	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find task by id %d: %w", id, translate(err))
	}
	return &task, nil
}

// List returns tasks ordered by due date, earliest first, with their owners loaded.
func (r *taskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := r.db.WithContext(ctx).
		Preload("User").
		Order("due_date ASC").
		Order("id ASC")
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateStatus writes only the status column; ownership is never touched.
func (r *taskRepository) UpdateStatus(ctx context.Context, id int64, status models.TaskStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update status of task %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update status of task %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete task %d: %w", id, ErrNotFound)
	}
	return nil
}
