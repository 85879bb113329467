package models

import (
	"time"

	"github.com/google/uuid"
)

// Authority strings granted to users. They ride inside issued tokens and are
// enforced by the authorization middleware.
const (
	AuthorityAdmin = "ROLE_ADMIN"
	AuthorityUser  = "ROLE_USER"
)

// User represents a registered account. Email doubles as the token subject.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Authorities  []string  `json:"authorities" db:"authorities"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance
func NewUser(email, passwordHash string, authorities []string) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Authorities:  authorities,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin returns true if the user holds the admin authority
func (u *User) IsAdmin() bool {
	for _, a := range u.Authorities {
		if a == AuthorityAdmin {
			return true
		}
	}
	return false
}
