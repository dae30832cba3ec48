package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/RiasZoV/Practice/internal/core/domain"
	"github.com/RiasZoV/Practice/internal/core/ports"
	"github.com/RiasZoV/Practice/internal/metrics"
)

// AdminService implements user administration on top of a DirectoryRepository.
type AdminService struct {
	repo   ports.DirectoryRepository
	creds  ports.CredentialService
	logger zerolog.Logger
}

func NewAdminService(repo ports.DirectoryRepository, creds ports.CredentialService, logger zerolog.Logger) *AdminService {
	return &AdminService{repo: repo, creds: creds, logger: logger}
}

// AddUser creates an account. Subordinate logins that do not resolve are
// logged and skipped; the rest are attached in a second commit, so a failure
// there leaves a valid user without subordinates.
func (s *AdminService) AddUser(ctx context.Context, in ports.AddUserInput) (created *domain.User, err error) {
	defer func() { metrics.ObserveAdmin(string(domain.OpAddUser), err) }()

	if strings.TrimSpace(in.Login) == "" || in.Password == "" || in.Age < 0 {
		return nil, fmt.Errorf("add user: %w", domain.ErrInvalidInput)
	}

	if _, err := s.repo.FindUserByLogin(ctx, in.Login); err == nil {
		return nil, domain.ErrDuplicateLogin
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("add user: %w", err)
	}

	role, err := s.repo.FindRoleByName(ctx, in.RoleName)
	if err != nil {
		return nil, err
	}

	hash, err := s.creds.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}

	created, err = s.repo.CreateUser(ctx, &domain.User{
		Login:        in.Login,
		PasswordHash: hash,
		Age:          in.Age,
		Role:         *role,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("login", created.Login).Int64("user_id", created.ID).Str("role", role.Name).Msg("user added")

	if len(in.SubordinateLogins) == 0 {
		return created, nil
	}
	if !role.Tier().CanSupervise() {
		s.logger.Debug().Str("login", created.Login).Str("role", role.Name).Msg("subordinates ignored for role")
		return created, nil
	}

	ids := s.resolveSkipping(ctx, created, in.SubordinateLogins)
	if len(ids) == 0 {
		return created, nil
	}
	if err := s.repo.ReplaceSubordinates(ctx, created.ID, ids); err != nil {
		return created, fmt.Errorf("add user: attach subordinates: %w", err)
	}
	return created, nil
}

// resolveSkipping maps logins to IDs, dropping those that do not resolve.
func (s *AdminService) resolveSkipping(ctx context.Context, owner *domain.User, logins []string) []int64 {
	seen := make(map[int64]struct{}, len(logins))
	ids := make([]int64, 0, len(logins))
	for _, login := range logins {
		login = strings.TrimSpace(login)
		if login == "" {
			continue
		}
		sub, err := s.repo.FindUserByLogin(ctx, login)
		if err != nil {
			s.logger.Warn().Err(err).Str("login", owner.Login).Str("subordinate", login).Msg("subordinate skipped")
			continue
		}
		if sub.ID == owner.ID {
			s.logger.Warn().Str("login", owner.Login).Msg("user cannot supervise itself, skipped")
			continue
		}
		if _, dup := seen[sub.ID]; dup {
			continue
		}
		seen[sub.ID] = struct{}{}
		ids = append(ids, sub.ID)
	}
	return ids
}

// DeleteUser removes the user and every subordinate link that mentions it.
func (s *AdminService) DeleteUser(ctx context.Context, userID int64) (err error) {
	defer func() { metrics.ObserveAdmin(string(domain.OpDeleteUser), err) }()

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.Info().Str("login", user.Login).Int64("user_id", userID).Msg("user deleted")
	return nil
}

func (s *AdminService) ChangeUserRole(ctx context.Context, userID int64, roleName string) (err error) {
	defer func() { metrics.ObserveAdmin(string(domain.OpChangeRole), err) }()

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	role, err := s.repo.FindRoleByName(ctx, roleName)
	if err != nil {
		return err
	}
	user.Role = *role
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("change role: %w", err)
	}
	s.logger.Info().Str("login", user.Login).Str("role", role.Name).Msg("role changed")
	return nil
}

// ChangePassword is an administrative reset; the old password is not checked.
func (s *AdminService) ChangePassword(ctx context.Context, userID int64, newPassword string) (err error) {
	defer func() { metrics.ObserveAdmin(string(domain.OpResetPassword), err) }()

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	hash, err := s.creds.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	s.logger.Info().Str("login", user.Login).Msg("password reset")
	return nil
}

// ChangeSubordinates replaces the subordinate set all-or-nothing: one login
// that fails to resolve, or one that would close a cycle, leaves the set as is.
func (s *AdminService) ChangeSubordinates(ctx context.Context, userID int64, logins []string) (err error) {
	defer func() { metrics.ObserveAdmin(string(domain.OpChangeSubordinates), err) }()

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	seen := make(map[int64]struct{}, len(logins))
	ids := make([]int64, 0, len(logins))
	for _, login := range logins {
		login = strings.TrimSpace(login)
		if login == "" {
			continue
		}
		sub, err := s.repo.FindUserByLogin(ctx, login)
		if err != nil {
			return fmt.Errorf("change subordinates: %q: %w", login, err)
		}
		if _, dup := seen[sub.ID]; dup {
			continue
		}
		seen[sub.ID] = struct{}{}
		ids = append(ids, sub.ID)
	}

	if err := s.checkAcyclic(ctx, user.ID, ids); err != nil {
		return err
	}
	if err := s.repo.ReplaceSubordinates(ctx, user.ID, ids); err != nil {
		return fmt.Errorf("change subordinates: %w", err)
	}
	s.logger.Info().Str("login", user.Login).Int("count", len(ids)).Msg("subordinates replaced")
	return nil
}

// checkAcyclic walks down from each proposed subordinate and fails if the
// manager is reachable, which would make it its own (transitive) subordinate.
func (s *AdminService) checkAcyclic(ctx context.Context, managerID int64, subordinateIDs []int64) error {
	visited := make(map[int64]struct{})
	queue := append([]int64(nil), subordinateIDs...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id == managerID {
			return domain.ErrSubordinateCycle
		}
		if _, ok := visited[id]; ok {
			continue
		}
		visited[id] = struct{}{}

		children, err := s.repo.Subordinates(ctx, id)
		if err != nil {
			return fmt.Errorf("change subordinates: walk hierarchy: %w", err)
		}
		for _, c := range children {
			queue = append(queue, c.ID)
		}
	}
	return nil
}

func (s *AdminService) ListUsers(ctx context.Context) (users []*domain.User, err error) {
	defer func() { metrics.ObserveAdmin(string(domain.OpListUsers), err) }()
	return s.repo.ListUsers(ctx)
}

func (s *AdminService) ListSubordinates(ctx context.Context, userID int64) (subs []*domain.User, err error) {
	defer func() { metrics.ObserveAdmin(string(domain.OpListSubordinates), err) }()

	if _, err := s.repo.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.Subordinates(ctx, userID)
}

func (s *AdminService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.repo.ListRoles(ctx)
}

func (s *AdminService) ListFunctions(ctx context.Context) ([]*domain.Function, error) {
	return s.repo.ListFunctions(ctx)
}

// AddRole inserts a role unless one with the same name exists.
func (s *AdminService) AddRole(ctx context.Context, name string) (role *domain.Role, err error) {
	defer func() { metrics.ObserveAdmin("add_role", err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("add role: %w", domain.ErrInvalidInput)
	}
	if _, err := s.repo.FindRoleByName(ctx, name); err == nil {
		return nil, domain.ErrDuplicateRole
	} else if !errors.Is(err, domain.ErrRoleNotFound) {
		return nil, fmt.Errorf("add role: %w", err)
	}

	role, err = s.repo.CreateRole(ctx, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("role", name).Msg("role added")
	return role, nil
}

// AddFunction inserts a function unless the (name, role) pair exists.
func (s *AdminService) AddFunction(ctx context.Context, name string, accessLevel int, roleName string) (fn *domain.Function, err error) {
	defer func() { metrics.ObserveAdmin("add_function", err) }()

	role, err := s.repo.FindRoleByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindFunction(ctx, name, role.ID); err == nil {
		return nil, domain.ErrDuplicateFunction
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("add function: %w", err)
	}

	fn, err = s.repo.CreateFunction(ctx, &domain.Function{Name: name, AccessLevel: accessLevel, RoleID: role.ID})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("function", name).Int("access_level", accessLevel).Str("role", roleName).Msg("function added")
	return fn, nil
}
