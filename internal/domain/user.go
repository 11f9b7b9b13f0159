package domain

import (
	"context"
	"time"
)

// Roles permitted to call mutating assignment endpoints.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleOrgAdmin   = "ORG_ADMIN"
	RoleOrganizer  = "ORGANIZER"
	RoleAssistant  = "ASSISTANT"
)

// User represents a staff account that operates the assignment endpoints.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Roles        []string  `json:"roles"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRepository defines storage operations for users.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// TokenIssuer signs access tokens carrying the user's roles.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier validates an access token and returns the subject and roles.
type TokenVerifier interface {
	Verify(token string) (userID string, roles []string, err error)
}

// PasswordHasher hashes and compares passwords.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (string, error)
	Compare(hash, salt, password string) error
}

// AuthService authenticates users and issues tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}
