// Package service implements authentication, sessions and the task lifecycle.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AmirShamelov/taskr/internal/models"
	"github.com/AmirShamelov/taskr/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrNotAdmin           = errors.New("existing user is not an administrator")
)

// RegisterInput is the registration form.
type RegisterInput struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	Confirm  string `json:"confirm" form:"confirm" validate:"required,eqfield=Password"`
}

type loginInput struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresIn int64
	User      *models.User
}

// AuthService defines registration and login operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, name, password string) (*models.User, error)
	Login(ctx context.Context, name, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	EnsureAdmin(ctx context.Context, name, email, password string) (*models.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	sessions   SessionService
	bcryptCost int
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(userRepo repository.UserRepository, sessions SessionService) AuthService {
	return &authService{
		userRepo:   userRepo,
		sessions:   sessions,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	verr := &ValidationError{}
	validateStruct(in, verr)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	return s.createUser(ctx, in.Name, in.Email, in.Password, models.RoleUser)
}

func (s *authService) createUser(ctx context.Context, name, email, password string, role models.Role) (*models.User, error) {
	exists, err := s.userRepo.ExistsByNameOrEmail(ctx, name, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return user, nil
}

// Authenticate never distinguishes an unknown name from a wrong password.
func (s *authService) Authenticate(ctx context.Context, name, password string) (*models.User, error) {
	name = strings.TrimSpace(name)

	verr := &ValidationError{}
	validateStruct(loginInput{Name: name, Password: password}, verr)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to verify password for user %d: %w", user.ID, err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, name, password string) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, name, password)
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.Establish(ctx, user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(s.sessions.Expiry().Seconds()),
		User:      user,
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessions.End(ctx, token)
}

// EnsureAdmin creates the administrator unless a user with that name already exists.
// An existing user without the admin role is never promoted; ErrNotAdmin is returned.
func (s *authService) EnsureAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	existing, err := s.userRepo.FindByName(ctx, name)
	if err == nil {
		if !existing.IsAdmin() {
			return nil, fmt.Errorf("failed to bootstrap %q: %w", name, ErrNotAdmin)
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.createUser(ctx, name, email, password, models.RoleAdmin)
}
