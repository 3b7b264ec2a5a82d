package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/todo-api/internal"
	"github.com/frahmantamala/todo-api/internal/core/events"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	RefreshAccessToken(ctx context.Context, authorizationHeader string) (*RefreshResponse, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

// Service is the main auth service with dependencies
type Service struct {
	store          CredentialStore
	tokenGenerator TokenGeneratorAPI
	publisher      events.Publisher
	logger         *slog.Logger
}

func NewService(store CredentialStore, tokenGen TokenGeneratorAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:          store,
		tokenGenerator: tokenGen,
		publisher:      publisher,
		logger:         logger,
	}
}

// Login verifies credentials and issues an access and a refresh token built from the same claims.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cred, err := s.store.GetUserByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			s.loginFailed(ctx, dto.Email, "unknown email")
			return nil, internal.ErrEmailNotRegistered
		}
		s.logger.ErrorContext(ctx, "failed to load credentials", "error", err)
		return nil, internal.NewInternalError("failed to load credentials", err)
	}

	if !VerifyPassword(cred.PasswordHash, dto.Password) {
		s.loginFailed(ctx, dto.Email, "password mismatch")
		return nil, internal.ErrInvalidCredentials
	}

	permissions, err := s.store.GetPermissionsByRole(ctx, cred.RoleID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to resolve permissions", "user_id", cred.ID, "role_id", cred.RoleID, "error", err)
		return nil, internal.NewInternalError("failed to resolve permissions", err)
	}
	if permissions == nil {
		permissions = []string{}
	}

	identity := Identity{
		ID:          cred.ID,
		Name:        cred.Name,
		Email:       cred.Email,
		Permissions: permissions,
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(identity)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue access token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(identity)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue refresh token", err)
	}

	_ = s.publisher.Publish(ctx, events.NewLoginSucceededEvent(identity.ID, identity.Email))
	s.logger.InfoContext(ctx, "user logged in", "user_id", identity.ID)

	return &LoginResponse{
		StatusCode:   http.StatusOK,
		Message:      "User login successful.",
		User:         identity,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshAccessToken mints a new access token from a "Bearer <refresh token>" header.
// The refresh token itself is not rotated.
func (s *Service) RefreshAccessToken(ctx context.Context, authorizationHeader string) (*RefreshResponse, error) {
	if authorizationHeader == "" {
		return nil, internal.ErrNoTokenProvided
	}

	token, ok := bearerToken(authorizationHeader)
	if !ok {
		return nil, internal.ErrNoBearerProvided
	}

	claims, err := s.tokenGenerator.ValidateRefreshToken(token)
	if err != nil {
		s.logger.WarnContext(ctx, "refresh token rejected", "error", err)
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(claims.Identity())
	if err != nil {
		return nil, internal.NewInternalError("failed to issue access token", err)
	}

	_ = s.publisher.Publish(ctx, events.NewTokenRefreshedEvent(claims.UserID))

	return &RefreshResponse{
		StatusCode:  http.StatusOK,
		AccessToken: accessToken,
	}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

func (s *Service) loginFailed(ctx context.Context, email, reason string) {
	s.logger.WarnContext(ctx, "login failed", "reason", reason)
	_ = s.publisher.Publish(ctx, events.NewLoginFailedEvent(email, reason))
}

// bearerToken splits on single spaces and expects exactly "Bearer" and a token.
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
