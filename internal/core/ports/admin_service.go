package ports

import (
	"context"

	"github.com/RiasZoV/Practice/internal/core/domain"
)

// AddUserInput carries everything needed to create an account.
// SubordinateLogins is only honoured for Manager and Admin roles.
type AddUserInput struct {
	Login             string
	Password          string
	RoleName          string
	Age               int
	SubordinateLogins []string
}

// AdminService is the user-administration surface. Callers are expected to
// have passed the Authorizer before invoking it.
type AdminService interface {
	AddUser(ctx context.Context, in AddUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	ChangeUserRole(ctx context.Context, userID int64, roleName string) error
	ChangePassword(ctx context.Context, userID int64, newPassword string) error
	ChangeSubordinates(ctx context.Context, userID int64, logins []string) error

	ListUsers(ctx context.Context) ([]*domain.User, error)
	ListSubordinates(ctx context.Context, userID int64) ([]*domain.User, error)
	ListRoles(ctx context.Context) ([]*domain.Role, error)
	ListFunctions(ctx context.Context) ([]*domain.Function, error)

	AddRole(ctx context.Context, name string) (*domain.Role, error)
	AddFunction(ctx context.Context, name string, accessLevel int, roleName string) (*domain.Function, error)
}
