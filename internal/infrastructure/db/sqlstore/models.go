package sqlstore

import (
	"time"

	"github.com/RiasZoV/Practice/internal/core/domain"
)

type roleRecord struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"uniqueIndex;not null"`
}

func (roleRecord) TableName() string { return "roles" }

type userRecord struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	Login     string     `gorm:"uniqueIndex;not null"`
	Password  string     `gorm:"not null"`
	Age       int        `gorm:"not null;default:0"`
	RoleID    int64      `gorm:"not null;index"`
	Role      roleRecord `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	LastLogin *time.Time
}

func (userRecord) TableName() string { return "users" }

type functionRecord struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	Name        string     `gorm:"not null;uniqueIndex:idx_functions_name_role"`
	AccessLevel int        `gorm:"not null"`
	RoleID      int64      `gorm:"not null;uniqueIndex:idx_functions_name_role"`
	Role        roleRecord `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
}

func (functionRecord) TableName() string { return "functions" }

// subordinateRecord is one (manager, subordinate) pair.
type subordinateRecord struct {
	ManagerID     int64 `gorm:"primaryKey;autoIncrement:false"`
	SubordinateID int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

func (subordinateRecord) TableName() string { return "user_subordinates" }

func (r *roleRecord) toDomain() *domain.Role {
	return &domain.Role{ID: r.ID, Name: r.Name}
}

func (r *userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Login:        r.Login,
		PasswordHash: r.Password,
		Age:          r.Age,
		Role:         *r.Role.toDomain(),
		LastLogin:    r.LastLogin,
	}
}

func (r *functionRecord) toDomain() *domain.Function {
	return &domain.Function{ID: r.ID, Name: r.Name, AccessLevel: r.AccessLevel, RoleID: r.RoleID}
}

func usersToDomain(recs []userRecord) []*domain.User {
	out := make([]*domain.User, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toDomain())
	}
	return out
}
