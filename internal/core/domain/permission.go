package domain

import "time"

// Operation identifies one action a session may invoke.
type Operation string

const (
	OpViewProfile        Operation = "view_profile"
	OpChangeOwnPassword  Operation = "change_own_password"
	OpListSubordinates   Operation = "list_subordinates"
	OpResetPassword      Operation = "reset_password"
	OpAddUser            Operation = "add_user"
	OpDeleteUser         Operation = "delete_user"
	OpChangeRole         Operation = "change_role"
	OpListUsers          Operation = "list_users"
	OpChangeSubordinates Operation = "change_subordinates"
	OpLogout             Operation = "logout"
)

// permitted is the fixed permitted-operation set of each tier.
var permitted = map[RoleTier][]Operation{
	TierUser:    {OpViewProfile, OpChangeOwnPassword, OpLogout},
	TierManager: {OpListSubordinates, OpResetPassword, OpLogout},
	TierAdmin: {
		OpAddUser, OpDeleteUser, OpChangeRole, OpListUsers,
		OpResetPassword, OpChangeSubordinates, OpLogout,
	},
	TierUnknown: {OpLogout},
}

// PermittedOperations returns a copy of the tier's permitted set.
func PermittedOperations(t RoleTier) []Operation {
	ops := permitted[t]
	out := make([]Operation, len(ops))
	copy(out, ops)
	return out
}

// Permits reports whether op is in the tier's permitted set.
func (t RoleTier) Permits(op Operation) bool {
	for _, allowed := range permitted[t] {
		if allowed == op {
			return true
		}
	}
	return false
}

// Session is the identity held by the console between login and logout.
// It is never re-read from the directory once built.
type Session struct {
	User      *User
	Tier      RoleTier
	StartedAt time.Time
	closed    bool
}

// NewSession builds an open session for an authenticated user.
func NewSession(u *User, now time.Time) *Session {
	return &Session{User: u, Tier: u.Tier(), StartedAt: now}
}

// Permits reports whether the session is open and its tier allows op.
func (s *Session) Permits(op Operation) bool {
	return s != nil && !s.closed && s.Tier.Permits(op)
}

// Close ends the session. A closed session permits nothing.
func (s *Session) Close() {
	s.closed = true
	s.User = nil
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	return s.closed
}
