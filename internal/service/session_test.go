package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AmirShamelov/taskr/internal/models"
)

func TestSessionEstablishAndResolve(t *testing.T) {
	sessions, mr := setupTestSessionService(t)
	ctx := context.Background()
	user := &models.User{ID: 7, Name: "Michael", Role: models.RoleUser}

	token, err := sessions.Establish(ctx, user)
	if err != nil {
		t.Fatalf("Establish() error = %v", err)
	}

	keys := mr.Keys()
	if len(keys) != 1 || !strings.HasPrefix(keys[0], sessionKeyPrefix) {
		t.Fatalf("redis keys = %v, want one session key", keys)
	}
	if ttl := mr.TTL(keys[0]); ttl != testExpiry {
		t.Errorf("session TTL = %v, want %v", ttl, testExpiry)
	}

	session, err := sessions.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if session.UserID != 7 || session.Name != "Michael" || session.Role != models.RoleUser {
		t.Errorf("Resolve() = %+v", session)
	}
	if sessionKey(session.ID) != keys[0] {
		t.Errorf("session id %s does not match stored key %s", session.ID, keys[0])
	}

	actor := session.Actor()
	if actor.UserID != 7 || actor.Role != models.RoleUser {
		t.Errorf("Actor() = %+v", actor)
	}
}

func TestSessionEstablish_UniqueIDs(t *testing.T) {
	sessions, mr := setupTestSessionService(t)
	user := &models.User{ID: 1, Name: "a", Role: models.RoleUser}

	for i := 0; i < 3; i++ {
		if _, err := sessions.Establish(context.Background(), user); err != nil {
			t.Fatalf("Establish() error = %v", err)
		}
	}
	if n := len(mr.Keys()); n != 3 {
		t.Errorf("stored sessions = %d, want 3", n)
	}
}

func TestSessionEstablish_RedisFailure(t *testing.T) {
	sessions, mr := setupTestSessionService(t)
	mr.Close()

	_, err := sessions.Establish(context.Background(), &models.User{ID: 1})
	if err == nil {
		t.Error("Establish() should fail when Redis is unavailable")
	}
}

func TestSessionResolve_Rejects(t *testing.T) {
	sessions, mr := setupTestSessionService(t)
	ctx := context.Background()

	token, err := sessions.Establish(ctx, &models.User{ID: 3, Name: "c", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("Establish() error = %v", err)
	}

	if _, err := sessions.Resolve(ctx, ""); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Resolve(empty) error = %v, want %v", err, ErrInvalidSession)
	}
	if _, err := sessions.Resolve(ctx, "garbage"); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Resolve(garbage) error = %v, want %v", err, ErrInvalidSession)
	}

	key := mr.Keys()[0]
	if err := mr.Set(key, "999"); err != nil {
		t.Fatalf("miniredis Set() error = %v", err)
	}
	if _, err := sessions.Resolve(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Resolve(mismatched user) error = %v, want %v", err, ErrInvalidSession)
	}

	mr.FlushAll()
	if _, err := sessions.Resolve(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Resolve(after flush) error = %v, want %v", err, ErrInvalidSession)
	}
}

func TestSessionResolve_ExpiredKey(t *testing.T) {
	sessions, mr := setupTestSessionService(t)
	ctx := context.Background()

	token, _ := sessions.Establish(ctx, &models.User{ID: 1, Role: models.RoleUser})
	mr.FastForward(testExpiry + 1)

	if _, err := sessions.Resolve(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Resolve() after TTL error = %v, want %v", err, ErrInvalidSession)
	}
}

func TestSessionEnd(t *testing.T) {
	sessions, mr := setupTestSessionService(t)
	ctx := context.Background()

	token, _ := sessions.Establish(ctx, &models.User{ID: 1, Role: models.RoleUser})

	if err := sessions.End(ctx, token); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if n := len(mr.Keys()); n != 0 {
		t.Errorf("stored sessions after End() = %d, want 0", n)
	}
	if _, err := sessions.Resolve(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Resolve() after End() error = %v, want %v", err, ErrInvalidSession)
	}
}

func TestSessionEnd_Idempotent(t *testing.T) {
	sessions, _ := setupTestSessionService(t)
	ctx := context.Background()

	token, _ := sessions.Establish(ctx, &models.User{ID: 1, Role: models.RoleUser})

	for _, tok := range []string{token, token, "", "not-a-token"} {
		if err := sessions.End(ctx, tok); err != nil {
			t.Errorf("End(%q) error = %v, want nil", tok, err)
		}
	}
}
