package users

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"musicbox/internal/auth"
	"musicbox/internal/models"
	"musicbox/internal/store"
)

type memStore struct {
	mu       sync.Mutex
	users    map[string]*store.Credentials
	sessions map[string]store.SessionData
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*store.Credentials{}, sessions: map[string]store.SessionData{}}
}

func (m *memStore) CreateUser(_ context.Context, u models.NewUser) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.users {
		if c.User.Username == u.Username {
			return nil, store.ErrUserExists
		}
		if u.Email != nil && c.User.Email != nil && *c.User.Email == *u.Email {
			return nil, store.ErrEmailExists
		}
	}
	id := "user-" + u.Username
	user := models.User{ID: id, Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin, CreatedAt: time.Now()}
	m.users[id] = &store.Credentials{User: user, PasswordHash: u.PasswordHash}
	return &user, nil
}

func (m *memStore) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	u := c.User
	return &u, nil
}

func (m *memStore) CredentialsByUsername(_ context.Context, username string) (*store.Credentials, error) {
	return m.find(func(u models.User) bool { return u.Username == username })
}

func (m *memStore) CredentialsByEmail(_ context.Context, email string) (*store.Credentials, error) {
	return m.find(func(u models.User) bool { return u.Email != nil && *u.Email == email })
}

func (m *memStore) find(match func(models.User) bool) (*store.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.users {
		if match(c.User) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *memStore) CreateSession(_ context.Context, sid string, data store.SessionData, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sid] = data
	return nil
}

func (m *memStore) Session(_ context.Context, sid string) (*store.SessionData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.sessions[sid]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return &d, nil
}

func (m *memStore) DeleteSession(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sid)
	return nil
}

func newTestService() (Service, *memStore) {
	st := newMemStore()
	return New(st, auth.NewTokenManager("test-secret-0123456789", 0)), st
}

func strPtr(s string) *string { return &s }

func TestRegisterThenLogin(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, Registration{Username: "amal", Password: "secret1", Email: strPtr("amal@example.com")})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Token == "" || reg.ID == "" {
		t.Fatalf("expected token and session id, got %+v", reg)
	}
	if hash := st.users[reg.User.ID].PasswordHash; hash == "secret1" || !auth.VerifyPassword("secret1", hash) {
		t.Fatalf("expected stored bcrypt hash, got %q", hash)
	}

	login, err := svc.Login(ctx, "amal", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Fatalf("expected same identity, got %s vs %s", login.User.ID, reg.User.ID)
	}

	byEmail, err := svc.Login(ctx, "amal@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login by email: %v", err)
	}
	if byEmail.User.ID != reg.User.ID {
		t.Fatalf("expected email login to resolve the same user")
	}

	if _, err := svc.Login(ctx, "amal", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, Registration{Username: "amal", Password: "secret1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, Registration{Username: "amal", Password: "secret2"}); !errors.Is(err, store.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestResolveAndSessions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	sess, err := svc.Register(ctx, Registration{Username: "amal", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := svc.Resolve(ctx, sess.Token)
	if err != nil || user.Username != "amal" {
		t.Fatalf("expected amal, got %+v err=%v", user, err)
	}
	if _, err := svc.Resolve(ctx, sess.Token+"x"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for tampered token, got %v", err)
	}

	token, err := svc.SessionToken(ctx, sess.ID)
	if err != nil || token != sess.Token {
		t.Fatalf("expected mirrored token, got %q err=%v", token, err)
	}

	if err := svc.Logout(ctx, sess.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := svc.Logout(ctx, sess.ID); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
	if _, err := svc.SessionToken(ctx, sess.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected session gone, got %v", err)
	}
	// The bearer token itself is still valid until it expires.
	if _, err := svc.Resolve(ctx, sess.Token); err != nil {
		t.Fatalf("expected bearer token to outlive logout, got %v", err)
	}
}

func TestResolveDeletedUser(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()
	sess, _ := svc.Register(ctx, Registration{Username: "amal", Password: "secret1"})
	delete(st.users, sess.User.ID)

	if _, err := svc.Resolve(ctx, sess.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLoginTrimsIdentifier(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, _ = svc.Register(ctx, Registration{Username: "amal", Password: "secret1"})
	if _, err := svc.Login(ctx, "  amal ", "secret1"); err != nil {
		t.Fatalf("expected trimmed login to succeed: %v", err)
	}
	if _, err := svc.Login(ctx, strings.ToUpper("amal"), "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected usernames to be case sensitive, got %v", err)
	}
}
