package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AmirShamelov/taskr/internal/models"
	"github.com/AmirShamelov/taskr/internal/repository"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret = "this-is-a-test-secret-with-32-bytes!"
	testExpiry = 24 * time.Hour
)

// =============================================================================
// Mock UserRepository
// =============================================================================

type mockUserRepository struct {
	findByNameFunc          func(ctx context.Context, name string) (*models.User, error)
	findByIDFunc            func(ctx context.Context, id int64) (*models.User, error)
	existsByNameOrEmailFunc func(ctx context.Context, name, email string) (bool, error)
	createFunc              func(ctx context.Context, user *models.User) error
}

func (m *mockUserRepository) FindByName(ctx context.Context, name string) (*models.User, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, name)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) ExistsByNameOrEmail(ctx context.Context, name, email string) (bool, error) {
	if m.existsByNameOrEmailFunc != nil {
		return m.existsByNameOrEmailFunc(ctx, name, email)
	}
	return false, errors.New("not implemented")
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return errors.New("not implemented")
}

// memoryUserRepository keeps users in a slice and enforces unique names and emails.
type memoryUserRepository struct {
	users []*models.User
}

func (m *memoryUserRepository) FindByName(ctx context.Context, name string) (*models.User, error) {
	for _, u := range m.users {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUserRepository) ExistsByNameOrEmail(ctx context.Context, name, email string) (bool, error) {
	for _, u := range m.users {
		if u.Name == name || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUserRepository) Create(ctx context.Context, user *models.User) error {
	if exists, _ := m.ExistsByNameOrEmail(ctx, user.Name, user.Email); exists {
		return repository.ErrDuplicate
	}
	_ = user.BeforeCreate(nil)
	user.ID = int64(len(m.users) + 1)
	m.users = append(m.users, user)
	return nil
}

// =============================================================================
// Mock TaskRepository
// =============================================================================

type mockTaskRepository struct {
	createFunc       func(ctx context.Context, task *models.Task) error
	findByIDFunc     func(ctx context.Context, id int64) (*models.Task, error)
	listFunc         func(ctx context.Context, filter repository.TaskFilter) ([]models.Task, error)
	updateStatusFunc func(ctx context.Context, id int64, status models.TaskStatus) error
	deleteFunc       func(ctx context.Context, id int64) error
}

func (m *mockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, task)
	}
	return errors.New("not implemented")
}

func (m *mockTaskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]models.Task, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskRepository) UpdateStatus(ctx context.Context, id int64, status models.TaskStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return errors.New("not implemented")
}

func (m *mockTaskRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

// memoryTaskRepository stores tasks by id and counts writes.
type memoryTaskRepository struct {
	tasks  map[int64]*models.Task
	nextID int64
	writes int
}

func newMemoryTaskRepository(tasks ...models.Task) *memoryTaskRepository {
	r := &memoryTaskRepository{tasks: make(map[int64]*models.Task)}
	for i := range tasks {
		t := tasks[i]
		r.tasks[t.ID] = &t
		if t.ID > r.nextID {
			r.nextID = t.ID
		}
	}
	return r
}

func (r *memoryTaskRepository) Create(ctx context.Context, task *models.Task) error {
	r.nextID++
	task.ID = r.nextID
	stored := *task
	r.tasks[task.ID] = &stored
	r.writes++
	return nil
}

func (r *memoryTaskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *memoryTaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if filter.Status == nil || t.Status == *filter.Status {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memoryTaskRepository) UpdateStatus(ctx context.Context, id int64, status models.TaskStatus) error {
	t, ok := r.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.Status = status
	r.writes++
	return nil
}

func (r *memoryTaskRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := r.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	r.writes++
	return nil
}

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func setupTestJWTService(t *testing.T) JWTService {
	t.Helper()
	jwtService, err := NewJWTService(testSecret, testExpiry)
	if err != nil {
		t.Fatalf("Failed to create JWT service: %v", err)
	}
	return jwtService
}

func setupTestSessionService(t *testing.T) (SessionService, *miniredis.Miniredis) {
	t.Helper()
	redisClient, mr := setupTestRedis(t)
	return NewSessionService(setupTestJWTService(t), redisClient), mr
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	return string(hash)
}

func userActor(id int64) models.Actor {
	return models.Actor{UserID: id, Name: "user", Role: models.RoleUser}
}

func adminActor(id int64) models.Actor {
	return models.Actor{UserID: id, Name: "admin", Role: models.RoleAdmin}
}
