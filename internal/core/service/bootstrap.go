package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/RiasZoV/Practice/internal/core/domain"
	"github.com/RiasZoV/Practice/internal/core/ports"
)

type defaultFunction struct {
	name        string
	accessLevel int
	roleName    string
}

var (
	defaultRoles = []string{domain.RoleNameUser, domain.RoleNameManager, domain.RoleNameAdmin}

	defaultFunctions = []defaultFunction{
		{name: "View data", accessLevel: 1, roleName: domain.RoleNameUser},
		{name: "Edit data", accessLevel: 2, roleName: domain.RoleNameManager},
		{name: "Manage users", accessLevel: 3, roleName: domain.RoleNameAdmin},
	}
)

// BootstrapService populates an empty directory on first start.
type BootstrapService struct {
	repo   ports.DirectoryRepository
	admin  ports.AdminService
	logger zerolog.Logger
}

func NewBootstrapService(repo ports.DirectoryRepository, admin ports.AdminService, logger zerolog.Logger) *BootstrapService {
	return &BootstrapService{repo: repo, admin: admin, logger: logger}
}

// EnsureDefaults adds the default roles when there are none, then the default
// functions when there are none. Duplicates are reported and skipped.
func (b *BootstrapService) EnsureDefaults(ctx context.Context) error {
	roles, err := b.repo.ListRoles(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: list roles: %w", err)
	}
	if len(roles) == 0 {
		for _, name := range defaultRoles {
			if _, err := b.admin.AddRole(ctx, name); err != nil {
				if !errors.Is(err, domain.ErrDuplicateRole) {
					return fmt.Errorf("bootstrap: role %s: %w", name, err)
				}
				b.logger.Warn().Str("role", name).Msg("role already exists")
			}
		}
	}

	functions, err := b.repo.ListFunctions(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: list functions: %w", err)
	}
	if len(functions) == 0 {
		for _, f := range defaultFunctions {
			if _, err := b.admin.AddFunction(ctx, f.name, f.accessLevel, f.roleName); err != nil {
				switch {
				case errors.Is(err, domain.ErrDuplicateFunction):
					b.logger.Warn().Str("function", f.name).Str("role", f.roleName).Msg("function already exists")
				case errors.Is(err, domain.ErrRoleNotFound):
					b.logger.Warn().Str("function", f.name).Str("role", f.roleName).Msg("function role missing, skipped")
				default:
					return fmt.Errorf("bootstrap: function %s: %w", f.name, err)
				}
			}
		}
	}
	return nil
}

// NeedsInitialUsers reports whether the directory holds no users yet.
func (b *BootstrapService) NeedsInitialUsers(ctx context.Context) (bool, error) {
	n, err := b.repo.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("bootstrap: count users: %w", err)
	}
	return n == 0, nil
}

// SeedUsers adds each user in order. Existing logins are left untouched so a
// seed file can be applied on every start. It returns how many were added.
func (b *BootstrapService) SeedUsers(ctx context.Context, users []ports.AddUserInput) (int, error) {
	added := 0
	for _, in := range users {
		_, err := b.admin.AddUser(ctx, in)
		switch {
		case err == nil:
			added++
		case errors.Is(err, domain.ErrDuplicateLogin):
			b.logger.Debug().Str("login", in.Login).Msg("seed user already present")
		default:
			return added, fmt.Errorf("bootstrap: seed %q: %w", in.Login, err)
		}
	}
	return added, nil
}
