package user

import (
	"github.com/frahmantamala/todo-api/internal/core/common/validation"
)

// CreateUserDTO is the body of POST /users. PUT /users/{id} uses the same shape.
type CreateUserDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserDTO = CreateUserDTO

func (d CreateUserDTO) Validate() error {
	if err := validation.ValidateUserInput(d.Name, d.Email, d.Password); err != nil {
		return err
	}
	return nil
}

type MessageResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

type UserResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	User       *User  `json:"user"`
}
