package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/RiasZoV/Practice/internal/core/domain"
	"github.com/RiasZoV/Practice/internal/core/ports"
	"github.com/RiasZoV/Practice/internal/metrics"
)

func sessionFor(u *domain.User) *domain.Session {
	return domain.NewSession(u, time.Now())
}

func TestAuthorizer_Allows(t *testing.T) {
	authz := NewAuthorizer(newStubDirectory(), false, testLogger())
	admin := sessionFor(&domain.User{ID: 1, Role: domain.Role{Name: domain.RoleNameAdmin}})

	for _, op := range []domain.Operation{domain.OpAddUser, domain.OpDeleteUser, domain.OpChangeSubordinates, domain.OpLogout} {
		if err := authz.Authorize(admin, op); err != nil {
			t.Fatalf("admin denied %s: %v", op, err)
		}
	}
}

func TestAuthorizer_Forbids(t *testing.T) {
	authz := NewAuthorizer(newStubDirectory(), false, testLogger())
	user := sessionFor(&domain.User{ID: 2, Role: domain.Role{Name: domain.RoleNameUser}})

	before := testutil.ToFloat64(metrics.AuthorizationDeniedTotal.WithLabelValues("user", string(domain.OpDeleteUser)))
	if err := authz.Authorize(user, domain.OpDeleteUser); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.AuthorizationDeniedTotal.WithLabelValues("user", string(domain.OpDeleteUser))) - before; got != 1 {
		t.Fatalf("expected one denial recorded, got %v", got)
	}

	user.Close()
	if err := authz.Authorize(user, domain.OpViewProfile); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("closed session should be refused, got %v", err)
	}
	if err := authz.Authorize(nil, domain.OpLogout); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("nil session should be refused, got %v", err)
	}
}

func TestAuthorizer_CheckResetScope(t *testing.T) {
	repo := newSeededDirectory(t)
	admin := NewAdminService(repo, testCredentials(), testLogger())
	ctx := context.Background()

	mustAdd(t, admin, ports.AddUserInput{Login: "bob", Password: "pw", RoleName: domain.RoleNameUser})
	outsider := mustAdd(t, admin, ports.AddUserInput{Login: "zed", Password: "pw", RoleName: domain.RoleNameUser})
	mgr := mustAdd(t, admin, ports.AddUserInput{Login: "mgr", Password: "pw", RoleName: domain.RoleNameManager, SubordinateLogins: []string{"bob"}})
	boss := mustAdd(t, admin, ports.AddUserInput{Login: "boss", Password: "pw", RoleName: domain.RoleNameAdmin})
	bob, _ := repo.FindUserByLogin(ctx, "bob")

	lenient := NewAuthorizer(repo, false, testLogger())
	strict := NewAuthorizer(repo, true, testLogger())

	if err := strict.CheckResetScope(ctx, sessionFor(mgr), bob.ID); err != nil {
		t.Fatalf("own subordinate refused: %v", err)
	}

	before := testutil.ToFloat64(metrics.OutOfScopeResetsTotal.WithLabelValues("false"))
	if err := lenient.CheckResetScope(ctx, sessionFor(mgr), outsider.ID); err != nil {
		t.Fatalf("unscoped reset should be flagged, not refused: %v", err)
	}
	if got := testutil.ToFloat64(metrics.OutOfScopeResetsTotal.WithLabelValues("false")) - before; got != 1 {
		t.Fatalf("expected flagged reset, got %v", got)
	}

	if err := strict.CheckResetScope(ctx, sessionFor(mgr), outsider.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("strict mode: expected ErrForbidden, got %v", err)
	}
	if err := strict.CheckResetScope(ctx, sessionFor(boss), outsider.ID); err != nil {
		t.Fatalf("admins are never scoped: %v", err)
	}
	if err := strict.CheckResetScope(ctx, sessionFor(outsider), bob.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("user tier cannot reset others: %v", err)
	}
}

func TestAuthorizer_CheckResetScope_UnknownTarget(t *testing.T) {
	repo := newSeededDirectory(t)
	admin := NewAdminService(repo, testCredentials(), testLogger())
	ctx := context.Background()

	mgr := mustAdd(t, admin, ports.AddUserInput{Login: "mgr", Password: "pw", RoleName: domain.RoleNameManager})
	boss := mustAdd(t, admin, ports.AddUserInput{Login: "boss", Password: "pw", RoleName: domain.RoleNameAdmin})
	const missing int64 = 9999

	for _, strict := range []bool{false, true} {
		authz := NewAuthorizer(repo, strict, testLogger())
		label := metrics.OutOfScopeResetsTotal.WithLabelValues(strconv.FormatBool(strict))
		before := testutil.ToFloat64(label)

		if err := authz.CheckResetScope(ctx, sessionFor(mgr), missing); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("strict=%v manager: expected ErrUserNotFound, got %v", strict, err)
		}
		if err := authz.CheckResetScope(ctx, sessionFor(boss), missing); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("strict=%v admin: expected ErrUserNotFound, got %v", strict, err)
		}
		if got := testutil.ToFloat64(label) - before; got != 0 {
			t.Fatalf("strict=%v: missing target must not be counted as out of scope, got %v", strict, got)
		}
	}
}
