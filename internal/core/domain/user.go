package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrRoleNotFound       = fmt.Errorf("role %w", ErrNotFound)
	ErrFunctionNotFound   = fmt.Errorf("function %w", ErrNotFound)
	ErrDuplicateLogin     = errors.New("login already exists")
	ErrDuplicateRole      = errors.New("role already exists")
	ErrDuplicateFunction  = errors.New("function already exists for role")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("operation not permitted")
	ErrSubordinateCycle   = errors.New("subordinate hierarchy would contain a cycle")
	ErrInvalidInput       = errors.New("invalid input")
)

// User models an account held in the directory. Subordinates are not part of
// the user record; they live in the store-owned subordinate relation.
type User struct {
	ID           int64      `json:"id"`
	Login        string     `json:"login"`
	PasswordHash string     `json:"-"`
	Age          int        `json:"age"`
	Role         Role       `json:"role"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Tier is shorthand for u.Role.Tier().
func (u *User) Tier() RoleTier {
	return u.Role.Tier()
}

// Function is a named capability at an access level, owned by a role.
// It is descriptive only and never consulted by authorization checks.
type Function struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	AccessLevel int    `json:"access_level"`
	RoleID      int64  `json:"role_id"`
}
