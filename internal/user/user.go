package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/todo-api/internal/core/datamodel/user"
)

const DefaultRoleName = "user"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       int64     `json:"-"`
	Permissions  []string  `json:"permissions"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		RoleID:       u.RoleID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		Permissions:  []string{},
	}
}

func FromDataModelWithPermissions(u *userDatamodel.User, permissions []string) *User {
	domainUser := FromDataModel(u)
	if permissions != nil {
		domainUser.Permissions = permissions
	}
	return domainUser
}
