package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/todo-api/internal"
	userDatamodel "github.com/frahmantamala/todo-api/internal/core/datamodel/user"
	"github.com/frahmantamala/todo-api/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrUserAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *userDatamodel.User) error {
	res := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"name":          u.Name,
			"email":         u.Email,
			"password_hash": u.PasswordHash,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return internal.ErrUserAlreadyExists
		}
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userDatamodel.User{})
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) GetRoleByName(ctx context.Context, name string) (*userDatamodel.Role, error) {
	var role userDatamodel.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, fmt.Errorf("get role %q: %w", name, err)
	}
	return &role, nil
}

func (r *UserRepository) GetPermissionsByRole(ctx context.Context, roleID int64) ([]string, error) {
	var permissions []string
	err := r.db.WithContext(ctx).
		Table("permissions").
		Joins("JOIN role_permissions rp ON rp.permission_id = permissions.id").
		Where("rp.role_id = ?", roleID).
		Order("permissions.id ASC").
		Pluck("permissions.name", &permissions).Error
	if err != nil {
		return nil, fmt.Errorf("get permissions by role: %w", err)
	}
	return permissions, nil
}
