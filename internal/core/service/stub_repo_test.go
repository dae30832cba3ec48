package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/RiasZoV/Practice/internal/core/domain"
	"github.com/RiasZoV/Practice/internal/infrastructure/credential"
)

// ---------------------------------------------------------------------------
// In-memory stub directory
// ---------------------------------------------------------------------------

type stubDirectory struct {
	users     map[int64]*domain.User
	roles     map[int64]*domain.Role
	functions map[int64]*domain.Function
	subs      map[int64][]int64
	nextID    int64

	updateErr  error // if set, UpdateUser returns this error
	replaceErr error // if set, ReplaceSubordinates returns this error
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{
		users:     make(map[int64]*domain.User),
		roles:     make(map[int64]*domain.Role),
		functions: make(map[int64]*domain.Function),
		subs:      make(map[int64][]int64),
	}
}

func (d *stubDirectory) id() int64 {
	d.nextID++
	return d.nextID
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.LastLogin != nil {
		ts := *u.LastLogin
		clone.LastLogin = &ts
	}
	return &clone
}

func (d *stubDirectory) FindUserByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (d *stubDirectory) FindUserByLogin(_ context.Context, login string) (*domain.User, error) {
	for _, u := range d.users {
		if u.Login == login {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (d *stubDirectory) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	if _, err := d.FindUserByLogin(ctx, u.Login); err == nil {
		return nil, domain.ErrDuplicateLogin
	}
	if _, ok := d.roles[u.Role.ID]; !ok {
		return nil, domain.ErrRoleNotFound
	}
	stored := cloneUser(u)
	stored.ID = d.id()
	d.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (d *stubDirectory) UpdateUser(_ context.Context, u *domain.User) error {
	if d.updateErr != nil {
		return d.updateErr
	}
	if _, ok := d.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	d.users[u.ID] = cloneUser(u)
	return nil
}

func (d *stubDirectory) DeleteUser(_ context.Context, id int64) error {
	if _, ok := d.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(d.users, id)
	delete(d.subs, id)
	for manager, ids := range d.subs {
		kept := ids[:0]
		for _, sid := range ids {
			if sid != id {
				kept = append(kept, sid)
			}
		}
		d.subs[manager] = kept
	}
	return nil
}

func (d *stubDirectory) ListUsers(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *stubDirectory) CountUsers(_ context.Context) (int64, error) {
	return int64(len(d.users)), nil
}

func (d *stubDirectory) Subordinates(_ context.Context, managerID int64) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range d.subs[managerID] {
		if u, ok := d.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (d *stubDirectory) ReplaceSubordinates(_ context.Context, managerID int64, ids []int64) error {
	if d.replaceErr != nil {
		return d.replaceErr
	}
	d.subs[managerID] = append([]int64(nil), ids...)
	return nil
}

func (d *stubDirectory) FindRoleByName(_ context.Context, name string) (*domain.Role, error) {
	for _, r := range d.roles {
		if r.Name == name {
			clone := *r
			return &clone, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (d *stubDirectory) CreateRole(ctx context.Context, name string) (*domain.Role, error) {
	if _, err := d.FindRoleByName(ctx, name); err == nil {
		return nil, domain.ErrDuplicateRole
	}
	r := &domain.Role{ID: d.id(), Name: name}
	d.roles[r.ID] = r
	clone := *r
	return &clone, nil
}

func (d *stubDirectory) ListRoles(_ context.Context) ([]*domain.Role, error) {
	out := make([]*domain.Role, 0, len(d.roles))
	for _, r := range d.roles {
		clone := *r
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *stubDirectory) FindFunction(_ context.Context, name string, roleID int64) (*domain.Function, error) {
	for _, f := range d.functions {
		if f.Name == name && f.RoleID == roleID {
			clone := *f
			return &clone, nil
		}
	}
	return nil, domain.ErrFunctionNotFound
}

func (d *stubDirectory) CreateFunction(_ context.Context, f *domain.Function) (*domain.Function, error) {
	stored := *f
	stored.ID = d.id()
	d.functions[stored.ID] = &stored
	clone := stored
	return &clone, nil
}

func (d *stubDirectory) ListFunctions(_ context.Context) ([]*domain.Function, error) {
	out := make([]*domain.Function, 0, len(d.functions))
	for _, f := range d.functions {
		clone := *f
		out = append(out, &clone)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var errStub = errors.New("stub failure")

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testCredentials() *credential.Bcrypt {
	return credential.NewBcrypt(bcrypt.MinCost)
}

// newSeededDirectory returns a directory holding the three default roles.
func newSeededDirectory(t *testing.T) *stubDirectory {
	t.Helper()
	d := newStubDirectory()
	for _, name := range []string{domain.RoleNameUser, domain.RoleNameManager, domain.RoleNameAdmin} {
		if _, err := d.CreateRole(context.Background(), name); err != nil {
			t.Fatalf("seed role %s: %v", name, err)
		}
	}
	return d
}

func subordinateLogins(t *testing.T, d *stubDirectory, managerID int64) []string {
	t.Helper()
	subs, err := d.Subordinates(context.Background(), managerID)
	if err != nil {
		t.Fatalf("subordinates: %v", err)
	}
	logins := make([]string, 0, len(subs))
	for _, s := range subs {
		logins = append(logins, s.Login)
	}
	sort.Strings(logins)
	return logins
}
