package auth

import (
	"github.com/frahmantamala/todo-api/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	if err := validation.ValidateCredentials(d.Email, d.Password); err != nil {
		return err
	}
	return nil
}

type LoginResponse struct {
	StatusCode   int      `json:"statusCode"`
	Message      string   `json:"message"`
	User         Identity `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

type RefreshResponse struct {
	StatusCode  int    `json:"statusCode"`
	AccessToken string `json:"accessToken"`
}
