package ports

import (
	"context"

	"github.com/RiasZoV/Practice/internal/core/domain"
)

// DirectoryRepository is the persistence contract for users, roles, functions
// and the subordinate relation. Every call runs in its own statement or
// transaction scope; implementations translate driver errors into the domain
// sentinels (ErrUserNotFound, ErrRoleNotFound, ErrDuplicate*).
type DirectoryRepository interface {
	FindUserByID(ctx context.Context, id int64) (*domain.User, error)
	FindUserByLogin(ctx context.Context, login string) (*domain.User, error)
	// CreateUser inserts u (Role.ID must be set) and returns the stored user.
	CreateUser(ctx context.Context, u *domain.User) (*domain.User, error)
	// UpdateUser persists credential, age, role reference and last login.
	UpdateUser(ctx context.Context, u *domain.User) error
	// DeleteUser removes the user and every subordinate pair that mentions it.
	DeleteUser(ctx context.Context, id int64) error
	// ListUsers returns all users ordered by ID.
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CountUsers(ctx context.Context) (int64, error)

	// Subordinates returns the users directly supervised by managerID.
	Subordinates(ctx context.Context, managerID int64) ([]*domain.User, error)
	// ReplaceSubordinates swaps the whole subordinate set of managerID.
	ReplaceSubordinates(ctx context.Context, managerID int64, subordinateIDs []int64) error

	FindRoleByName(ctx context.Context, name string) (*domain.Role, error)
	CreateRole(ctx context.Context, name string) (*domain.Role, error)
	ListRoles(ctx context.Context) ([]*domain.Role, error)

	// FindFunction looks up a function by (name, roleID).
	FindFunction(ctx context.Context, name string, roleID int64) (*domain.Function, error)
	CreateFunction(ctx context.Context, f *domain.Function) (*domain.Function, error)
	ListFunctions(ctx context.Context) ([]*domain.Function, error)
}
