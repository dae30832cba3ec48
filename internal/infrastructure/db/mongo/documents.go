package mongo

import (
	"time"

	"github.com/RiasZoV/Practice/internal/core/domain"
)

const (
	collectionUsers     = "users"
	collectionRoles     = "roles"
	collectionFunctions = "functions"
	collectionCounters  = "counters"
)

// userDoc embeds the subordinate set so a replacement is a single-document
// update.
type userDoc struct {
	ID             int64      `bson:"_id"`
	Login          string     `bson:"login"`
	PasswordHash   string     `bson:"password_hash"`
	Age            int        `bson:"age"`
	RoleID         int64      `bson:"role_id"`
	LastLogin      *time.Time `bson:"last_login,omitempty"`
	SubordinateIDs []int64    `bson:"subordinate_ids,omitempty"`
}

type roleDoc struct {
	ID   int64  `bson:"_id"`
	Name string `bson:"name"`
}

type functionDoc struct {
	ID          int64  `bson:"_id"`
	Name        string `bson:"name"`
	AccessLevel int    `bson:"access_level"`
	RoleID      int64  `bson:"role_id"`
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func (d *userDoc) toDomain(role roleDoc) *domain.User {
	var last *time.Time
	if d.LastLogin != nil {
		ts := d.LastLogin.UTC()
		last = &ts
	}
	return &domain.User{
		ID:           d.ID,
		Login:        d.Login,
		PasswordHash: d.PasswordHash,
		Age:          d.Age,
		Role:         domain.Role{ID: role.ID, Name: role.Name},
		LastLogin:    last,
	}
}

func (d *functionDoc) toDomain() *domain.Function {
	return &domain.Function{ID: d.ID, Name: d.Name, AccessLevel: d.AccessLevel, RoleID: d.RoleID}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
