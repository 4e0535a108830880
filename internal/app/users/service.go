package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"musicbox/internal/auth"
	"musicbox/internal/models"
	"musicbox/internal/store"
)

var (
	// ErrInvalidCredentials indicates a login failure. It does not say which part was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthorized indicates a missing, invalid or expired credential.
	ErrUnauthorized = errors.New("unauthorized")
)

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateUser(ctx context.Context, u models.NewUser) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	CredentialsByUsername(ctx context.Context, username string) (*store.Credentials, error)
	CredentialsByEmail(ctx context.Context, email string) (*store.Credentials, error)
	CreateSession(ctx context.Context, sid string, data store.SessionData, expire time.Time) error
	Session(ctx context.Context, sid string) (*store.SessionData, error)
	DeleteSession(ctx context.Context, sid string) error
}

// Registration is the input accepted by Register.
type Registration struct {
	Username  string
	Email     *string
	Password  string
	FirstName *string
	LastName  *string
}

// Session is the outcome of a successful register or login.
type Session struct {
	ID        string
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Service exposes account and credential workflows.
type Service interface {
	Register(ctx context.Context, r Registration) (*Session, error)
	Login(ctx context.Context, identifier, password string) (*Session, error)
	Logout(ctx context.Context, sid string) error
	// Resolve maps a bearer token to its current user.
	Resolve(ctx context.Context, token string) (*models.User, error)
	// SessionToken returns the token mirrored into the session sid.
	SessionToken(ctx context.Context, sid string) (string, error)
}

type service struct {
	store  Store
	tokens *auth.TokenManager
}

// New wires a Service backed by the provided Store and token manager.
func New(st Store, tokens *auth.TokenManager) Service {
	return &service{store: st, tokens: tokens}
}

func (s *service) Register(ctx context.Context, r Registration) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(r.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.store.CreateUser(ctx, models.NewUser{
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: hash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
	})
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, user)
}

// Login accepts a username, or an email when the identifier contains '@'.
func (s *service) Login(ctx context.Context, identifier, password string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	identifier = strings.TrimSpace(identifier)

	creds, err := s.store.CredentialsByUsername(ctx, identifier)
	if errors.Is(err, store.ErrUserNotFound) && strings.Contains(identifier, "@") {
		creds, err = s.store.CredentialsByEmail(ctx, identifier)
	}
	if errors.Is(err, store.ErrUserNotFound) {
		auth.BurnPasswordCheck(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(password, creds.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	user := creds.User
	return s.startSession(ctx, &user)
}

func (s *service) startSession(ctx context.Context, user *models.User) (*Session, error) {
	token, expires, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	sid := uuid.NewString()
	if err := s.store.CreateSession(ctx, sid, store.SessionData{Token: token, UserID: user.ID}, expires); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return &Session{ID: sid, Token: token, ExpiresAt: expires, User: user}, nil
}

// Logout clears the server-side session. Tokens already handed out stay
// valid until they expire.
func (s *service) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return s.store.DeleteSession(ctx, sid)
}

func (s *service) Resolve(ctx context.Context, token string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	userID, ok := s.tokens.Verify(token)
	if !ok {
		return nil, ErrUnauthorized
	}
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) SessionToken(ctx context.Context, sid string) (string, error) {
	if sid == "" {
		return "", ErrUnauthorized
	}
	data, err := s.store.Session(ctx, sid)
	if errors.Is(err, store.ErrSessionNotFound) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	return data.Token, nil
}
