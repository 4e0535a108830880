// Package policy decides whether a resolved identity may perform an operation.
// Every predicate returns nil when allowed, ErrUnauthenticated when there is
// no identity, and ErrForbidden when the identity lacks the privilege.
package policy

import (
	"errors"

	"musicbox/internal/models"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
)

// Authenticated allows any resolved identity.
func Authenticated(id *models.Identity) error {
	if id == nil || id.UserID == "" {
		return ErrUnauthenticated
	}
	return nil
}

// Admin allows only administrators. Catalog writes and uploads use it.
func Admin(id *models.Identity) error {
	if err := Authenticated(id); err != nil {
		return err
	}
	if !id.IsAdmin {
		return ErrForbidden
	}
	return nil
}

// OwnerOrAdmin allows the owner of a resource or an administrator.
func OwnerOrAdmin(id *models.Identity, ownerID string) error {
	if err := Authenticated(id); err != nil {
		return err
	}
	if id.IsAdmin || id.UserID == ownerID {
		return nil
	}
	return ErrForbidden
}

// Self allows only the user named by userID. Admins get no override.
func Self(id *models.Identity, userID string) error {
	if err := Authenticated(id); err != nil {
		return err
	}
	if id.UserID != userID {
		return ErrForbidden
	}
	return nil
}

// SelfOrAdmin allows the named user or an administrator.
func SelfOrAdmin(id *models.Identity, userID string) error {
	return OwnerOrAdmin(id, userID)
}

// CanViewPlaylist reports whether the playlist is visible to id.
// Public playlists are visible to everyone, including anonymous callers.
func CanViewPlaylist(id *models.Identity, p *models.Playlist) bool {
	if p == nil {
		return false
	}
	if p.IsPublic {
		return true
	}
	return OwnerOrAdmin(id, p.UserID) == nil
}
