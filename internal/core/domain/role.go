package domain

// Role names created at bootstrap.
const (
	RoleNameUser    = "User"
	RoleNameManager = "Manager"
	RoleNameAdmin   = "Admin"
)

// RoleTier is the closed set of privilege tiers a session can hold.
type RoleTier int

const (
	TierUnknown RoleTier = iota
	TierUser
	TierManager
	TierAdmin
)

var tierNames = map[RoleTier]string{
	TierUnknown: "unknown",
	TierUser:    "user",
	TierManager: "manager",
	TierAdmin:   "admin",
}

func (t RoleTier) String() string {
	if s, ok := tierNames[t]; ok {
		return s
	}
	return tierNames[TierUnknown]
}

// CanSupervise reports whether users of this tier may hold subordinates.
func (t RoleTier) CanSupervise() bool {
	return t == TierManager || t == TierAdmin
}

// Role is a named role row. The model accepts any name; only the three
// bootstrap names map onto a tier other than TierUnknown.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Tier maps the role name onto its privilege tier.
func (r Role) Tier() RoleTier {
	return TierForName(r.Name)
}

// TierForName resolves a role name, case-sensitively, to its tier.
func TierForName(name string) RoleTier {
	switch name {
	case RoleNameUser:
		return TierUser
	case RoleNameManager:
		return TierManager
	case RoleNameAdmin:
		return TierAdmin
	default:
		return TierUnknown
	}
}
