package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/todo-api/internal"
	"github.com/frahmantamala/todo-api/internal/auth"
	userDatamodel "github.com/frahmantamala/todo-api/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

var _ auth.CredentialStore = (*Repository)(nil)

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*auth.Credential, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return toCredential(&u), nil
}

func (r *Repository) GetPermissionsByRole(ctx context.Context, roleID int64) ([]string, error) {
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

func toCredential(u *userDatamodel.User) *auth.Credential {
	return &auth.Credential{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		RoleID:       u.RoleID,
	}
}
