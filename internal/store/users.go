package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"musicbox/internal/models"
)

const userColumns = `id, username, email, first_name, last_name, profile_image_url, is_admin, created_at, updated_at`

// Credentials pairs an account with its stored password hash for login checks.
type Credentials struct {
	User         models.User
	PasswordHash string
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, extra ...any) (*models.User, error) {
	var (
		user                     models.User
		email, first, last, pimg sql.NullString
	)
	dest := append([]any{&user.ID, &user.Username, &email, &first, &last, &pimg,
		&user.IsAdmin, &user.CreatedAt, &user.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	user.Email = stringPtr(email)
	user.FirstName = stringPtr(first)
	user.LastName = stringPtr(last)
	user.ProfileImageURL = stringPtr(pimg)
	return &user, nil
}

// CreateUser inserts an account. Username and email collisions map to
// ErrUserExists and ErrEmailExists.
func (s *Store) CreateUser(ctx context.Context, u models.NewUser) (*models.User, error) {
	username := strings.TrimSpace(u.Username)
	if username == "" || u.PasswordHash == "" {
		return nil, fmt.Errorf("username and password hash are required")
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, first_name, last_name, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		username, nullIfEmpty(u.Email), u.PasswordHash, nullIfEmpty(u.FirstName), nullIfEmpty(u.LastName), u.IsAdmin)
	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(violatedConstraint(err), "email") {
				return nil, ErrEmailExists
			}
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// GetUser returns the account with the given id.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// CredentialsByUsername loads an account and its hash by exact username.
func (s *Store) CredentialsByUsername(ctx context.Context, username string) (*Credentials, error) {
	return s.credentials(ctx, "username", username)
}

// CredentialsByEmail loads an account and its hash by exact email.
func (s *Store) CredentialsByEmail(ctx context.Context, email string) (*Credentials, error) {
	return s.credentials(ctx, "email", email)
}

func (s *Store) credentials(ctx context.Context, column, value string) (*Credentials, error) {
	var hash string
	user, err := scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`, password_hash
		FROM users
		WHERE `+column+` = $1`, value), &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user by %s: %w", column, err)
	}
	return &Credentials{User: *user, PasswordHash: hash}, nil
}

// PromoteUser grants the admin flag to the named account.
func (s *Store) PromoteUser(ctx context.Context, username string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET is_admin = TRUE, updated_at = NOW()
		WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("promote user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("promote user rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
