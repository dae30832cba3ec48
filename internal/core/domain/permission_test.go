package domain

import (
	"testing"
	"time"
)

func TestTierForName(t *testing.T) {
	cases := map[string]RoleTier{
		"User":    TierUser,
		"Manager": TierManager,
		"Admin":   TierAdmin,
		"admin":   TierUnknown,
		"Auditor": TierUnknown,
		"":        TierUnknown,
	}
	for name, want := range cases {
		if got := TierForName(name); got != want {
			t.Fatalf("TierForName(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestPermits_Table(t *testing.T) {
	if !TierUser.Permits(OpChangeOwnPassword) || TierUser.Permits(OpResetPassword) {
		t.Fatalf("user tier must change own password only")
	}
	if !TierManager.Permits(OpResetPassword) || TierManager.Permits(OpAddUser) {
		t.Fatalf("manager tier must reset passwords but not add users")
	}
	for _, op := range []Operation{OpAddUser, OpDeleteUser, OpChangeRole, OpListUsers, OpResetPassword, OpChangeSubordinates} {
		if !TierAdmin.Permits(op) {
			t.Fatalf("admin tier should permit %s", op)
		}
	}
	if TierAdmin.Permits(OpViewProfile) {
		t.Fatalf("admin tier has no view_profile entry")
	}
	for _, tier := range []RoleTier{TierUnknown, TierUser, TierManager, TierAdmin} {
		if !tier.Permits(OpLogout) {
			t.Fatalf("%s tier must permit logout", tier)
		}
	}
	if TierUnknown.Permits(OpViewProfile) {
		t.Fatalf("unknown tier should permit logout only")
	}
}

func TestPermittedOperations_ReturnsCopy(t *testing.T) {
	ops := PermittedOperations(TierUser)
	ops[0] = OpAddUser
	if TierUser.Permits(OpAddUser) {
		t.Fatalf("mutating the returned slice changed the table")
	}
}

func TestSession_CloseRevokesEverything(t *testing.T) {
	u := &User{ID: 1, Login: "alice", Role: Role{ID: 3, Name: RoleNameAdmin}}
	s := NewSession(u, time.Now())
	if s.Tier != TierAdmin || !s.Permits(OpListUsers) {
		t.Fatalf("admin session should list users")
	}
	s.Close()
	if !s.Closed() || s.Permits(OpLogout) || s.User != nil {
		t.Fatalf("closed session still usable: %+v", s)
	}

	var nilSession *Session
	if nilSession.Permits(OpLogout) {
		t.Fatalf("nil session permitted an operation")
	}
}
