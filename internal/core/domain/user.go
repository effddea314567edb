package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin     = "admin"
	RoleVolunteer = "volunteer"
	// RoleMachine is carried only by device tokens issued to kiosks.
	RoleMachine = "machine"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrTokenRevoked = errors.New("token revoked")

// IsSessionRole reports whether role can hold an interactive session.
func IsSessionRole(role string) bool {
	return role == RoleAdmin || role == RoleVolunteer
}

// User models an authenticated admin or volunteer.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
