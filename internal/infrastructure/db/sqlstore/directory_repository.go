package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/RiasZoV/Practice/internal/core/domain"
)

// DirectoryRepository stores the directory in relational tables.
type DirectoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

func (r *DirectoryRepository) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Preload("Role").First(&rec, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound, "find user")
	}
	return rec.toDomain(), nil
}

func (r *DirectoryRepository) FindUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Preload("Role").First(&rec, "login = ?", login).Error
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound, "find user")
	}
	return rec.toDomain(), nil
}

func (r *DirectoryRepository) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	rec := userRecord{
		Login:     u.Login,
		Password:  u.PasswordHash,
		Age:       u.Age,
		RoleID:    u.Role.ID,
		LastLogin: u.LastLogin,
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateLogin
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return r.FindUserByID(ctx, rec.ID)
}

func (r *DirectoryRepository) UpdateUser(ctx context.Context, u *domain.User) error {
	res := r.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", u.ID).Updates(map[string]any{
		"password":   u.PasswordHash,
		"age":        u.Age,
		"role_id":    u.Role.ID,
		"last_login": u.LastLogin,
	})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return domain.ErrRoleNotFound
		}
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *DirectoryRepository) DeleteUser(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("manager_id = ? OR subordinate_id = ?", id, id).Delete(&subordinateRecord{}).Error
		if err != nil {
			return fmt.Errorf("delete subordinate links: %w", err)
		}
		res := tx.Delete(&userRecord{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

func (r *DirectoryRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var recs []userRecord
	if err := r.db.WithContext(ctx).Preload("Role").Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return usersToDomain(recs), nil
}

func (r *DirectoryRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&userRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *DirectoryRepository) Subordinates(ctx context.Context, managerID int64) ([]*domain.User, error) {
	var recs []userRecord
	err := r.db.WithContext(ctx).
		Preload("Role").
		Joins("JOIN user_subordinates ON user_subordinates.subordinate_id = users.id").
		Where("user_subordinates.manager_id = ?", managerID).
		Order("users.id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list subordinates: %w", err)
	}
	return usersToDomain(recs), nil
}

func (r *DirectoryRepository) ReplaceSubordinates(ctx context.Context, managerID int64, subordinateIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := append([]int64{managerID}, subordinateIDs...)
		var found int64
		if err := tx.Model(&userRecord{}).Where("id IN ?", unique(ids)).Count(&found).Error; err != nil {
			return fmt.Errorf("check users: %w", err)
		}
		if found != int64(len(unique(ids))) {
			return domain.ErrUserNotFound
		}

		if err := tx.Where("manager_id = ?", managerID).Delete(&subordinateRecord{}).Error; err != nil {
			return fmt.Errorf("clear subordinates: %w", err)
		}
		if len(subordinateIDs) == 0 {
			return nil
		}

		links := make([]subordinateRecord, 0, len(subordinateIDs))
		for _, id := range unique(subordinateIDs) {
			links = append(links, subordinateRecord{ManagerID: managerID, SubordinateID: id})
		}
		if err := tx.Create(&links).Error; err != nil {
			return fmt.Errorf("insert subordinates: %w", err)
		}
		return nil
	})
}

func (r *DirectoryRepository) FindRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	var rec roleRecord
	if err := r.db.WithContext(ctx).First(&rec, "name = ?", name).Error; err != nil {
		return nil, notFound(err, domain.ErrRoleNotFound, "find role")
	}
	return rec.toDomain(), nil
}

func (r *DirectoryRepository) CreateRole(ctx context.Context, name string) (*domain.Role, error) {
	rec := roleRecord{Name: name}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateRole
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *DirectoryRepository) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	var recs []roleRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	out := make([]*domain.Role, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toDomain())
	}
	return out, nil
}

func (r *DirectoryRepository) FindFunction(ctx context.Context, name string, roleID int64) (*domain.Function, error) {
	var rec functionRecord
	err := r.db.WithContext(ctx).First(&rec, "name = ? AND role_id = ?", name, roleID).Error
	if err != nil {
		return nil, notFound(err, domain.ErrFunctionNotFound, "find function")
	}
	return rec.toDomain(), nil
}

func (r *DirectoryRepository) CreateFunction(ctx context.Context, f *domain.Function) (*domain.Function, error) {
	rec := functionRecord{Name: f.Name, AccessLevel: f.AccessLevel, RoleID: f.RoleID}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateFunction
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("insert function: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *DirectoryRepository) ListFunctions(ctx context.Context) ([]*domain.Function, error) {
	var recs []functionRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list functions: %w", err)
	}
	out := make([]*domain.Function, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toDomain())
	}
	return out, nil
}

func notFound(err, sentinel error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return fmt.Errorf("%s: %w", op, err)
}

func unique(ids []int64) []int64 {
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
