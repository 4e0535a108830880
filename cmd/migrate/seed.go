package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"musicbox/internal/auth"
	"musicbox/internal/models"
	"musicbox/internal/store"
)

// minAdminPassword matches the registration minimum.
const minAdminPassword = 6

// AdminSeed names the administrator to ensure.
type AdminSeed struct {
	Username string
	Email    *string
	Password string
}

type seedOutcome string

const (
	seedCreated  seedOutcome = "created"
	seedPromoted seedOutcome = "promoted"
)

type adminStore interface {
	CreateUser(ctx context.Context, u models.NewUser) (*models.User, error)
	PromoteUser(ctx context.Context, username string) error
}

// seedAdmin creates the admin account, or grants the admin flag when an
// account with that username already exists. Running it twice is harmless.
// An existing account keeps its password.
func seedAdmin(ctx context.Context, st adminStore, seed AdminSeed) (seedOutcome, error) {
	username := strings.TrimSpace(seed.Username)
	if username == "" {
		return "", errors.New("ADMIN_USERNAME is required")
	}

	err := st.PromoteUser(ctx, username)
	if err == nil {
		return seedPromoted, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return "", err
	}

	if len(seed.Password) < minAdminPassword {
		return "", fmt.Errorf("ADMIN_PASSWORD must be at least %d characters to create %q", minAdminPassword, username)
	}
	hash, err := auth.HashPassword(seed.Password)
	if err != nil {
		return "", fmt.Errorf("hash admin password: %w", err)
	}
	_, err = st.CreateUser(ctx, models.NewUser{
		Username:     username,
		Email:        seed.Email,
		PasswordHash: hash,
		IsAdmin:      true,
	})
	if errors.Is(err, store.ErrUserExists) {
		// Created concurrently since the promote attempt.
		if err := st.PromoteUser(ctx, username); err != nil {
			return "", err
		}
		return seedPromoted, nil
	}
	if err != nil {
		return "", fmt.Errorf("create admin: %w", err)
	}
	return seedCreated, nil
}
