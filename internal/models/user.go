package models

import "time"

// User is the public view of an account. The password hash never leaves the store.
type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           *string   `json:"email"`
	FirstName       *string   `json:"firstName"`
	LastName        *string   `json:"lastName"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	IsAdmin         bool      `json:"isAdmin"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewUser carries the fields needed to insert an account.
type NewUser struct {
	Username     string
	Email        *string
	PasswordHash string
	FirstName    *string
	LastName     *string
	IsAdmin      bool
}

// Identity is the resolved caller of a request.
type Identity struct {
	UserID  string
	IsAdmin bool
}
