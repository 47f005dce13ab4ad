package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/AmirShamelov/taskr/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrInvalidSession is returned when a token does not name a live session.
var ErrInvalidSession = errors.New("invalid session")

const sessionKeyPrefix = "session:"

// Session is an established login. It carries everything the authorization
// core needs, so no user lookup is required per request.
type Session struct {
	ID        string
	UserID    int64
	Name      string
	Role      models.Role
	ExpiresAt time.Time
}

// Actor returns the acting user described by the session.
func (s *Session) Actor() models.Actor {
	return models.Actor{UserID: s.UserID, Name: s.Name, Role: s.Role}
}

// SessionService establishes, resolves and ends sessions.
type SessionService interface {
	Establish(ctx context.Context, user *models.User) (string, error)
	Resolve(ctx context.Context, token string) (*Session, error)
	End(ctx context.Context, token string) error
	Expiry() time.Duration
}

type sessionService struct {
	jwtService JWTService
	redis      *redis.Client
}

// NewSessionService creates a SessionService backed by Redis.
func NewSessionService(jwtService JWTService, redisClient *redis.Client) SessionService {
	return &sessionService{
		jwtService: jwtService,
		redis:      redisClient,
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *sessionService) Establish(ctx context.Context, user *models.User) (string, error) {
	id := uuid.NewString()

	token, err := s.jwtService.GenerateToken(id, user)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	userID := strconv.FormatInt(user.ID, 10)
	if err := s.redis.Set(ctx, sessionKey(id), userID, s.jwtService.GetExpiry()).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

func (s *sessionService) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	stored, err := s.redis.Get(ctx, sessionKey(claims.ID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if stored != strconv.FormatInt(claims.UserID, 10) {
		return nil, ErrInvalidSession
	}

	session := &Session{
		ID:     claims.ID,
		UserID: claims.UserID,
		Name:   claims.Name,
		Role:   claims.Role,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// End removes the session. Tokens that do not parse name no session and are ignored.
func (s *sessionService) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil
	}
	if err := s.redis.Del(ctx, sessionKey(claims.ID)).Err(); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

func (s *sessionService) Expiry() time.Duration {
	return s.jwtService.GetExpiry()
}
