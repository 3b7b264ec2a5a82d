package user

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/todo-api/internal"
	"github.com/frahmantamala/todo-api/internal/auth"
	"github.com/frahmantamala/todo-api/internal/core/events"
	userDatamodel "github.com/frahmantamala/todo-api/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	Create(ctx context.Context, user *userDatamodel.User) error
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	Update(ctx context.Context, user *userDatamodel.User) error
	Delete(ctx context.Context, id int64) error
	GetRoleByName(ctx context.Context, name string) (*userDatamodel.Role, error)
	GetPermissionsByRole(ctx context.Context, roleID int64) ([]string, error)
}

type Options struct {
	BCryptCost  int
	AdminUserID int64
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	opts      Options
	policy    *auth.Policy
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, opts Options, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		opts:      opts,
		policy:    auth.NewPolicy(opts.AdminUserID),
		logger:    logger,
	}
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*MessageResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, dto.Email, 0); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(dto.Password, s.opts.BCryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	role, err := s.repo.GetRoleByName(ctx, DefaultRoleName)
	if err != nil {
		s.logger.ErrorContext(ctx, "default role missing", "role", DefaultRoleName, "error", err)
		return nil, internal.NewInternalError("failed to resolve default role", err)
	}

	u := &userDatamodel.User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
		RoleID:       role.ID,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, internal.ErrUserAlreadyExists) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to create user", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	_ = s.publisher.Publish(ctx, events.NewUserCreatedEvent(u.ID, u.Email, role.Name))
	s.logger.InfoContext(ctx, "user created", "new_user_id", u.ID)

	return &MessageResponse{
		StatusCode: http.StatusCreated,
		Message:    "User created successfully",
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*UserResponse, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewInternalError("failed to get user", err)
	}

	perms, err := s.repo.GetPermissionsByRole(ctx, u.RoleID)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user permissions", err)
	}

	return &UserResponse{
		StatusCode: http.StatusOK,
		Message:    "User fetched successfully.",
		User:       FromDataModelWithPermissions(u, perms),
	}, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateUserDTO) (*UserResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, errNoSuchUser
		}
		return nil, internal.NewInternalError("failed to get user", err)
	}

	if err := s.ensureEmailFree(ctx, dto.Email, id); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(dto.Password, s.opts.BCryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u.Name = dto.Name
	u.Email = dto.Email
	u.PasswordHash = hash
	if err := s.repo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, internal.ErrUserNotFound):
			return nil, errNoSuchUser
		case errors.Is(err, internal.ErrUserAlreadyExists):
			return nil, err
		}
		return nil, internal.NewInternalError("failed to update user", err)
	}

	perms, err := s.repo.GetPermissionsByRole(ctx, u.RoleID)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user permissions", err)
	}

	return &UserResponse{
		StatusCode: http.StatusOK,
		Message:    "User updated successfully",
		User:       FromDataModelWithPermissions(u, perms),
	}, nil
}

// Delete removes a user. The designated admin can never be deleted, whoever asks.
func (s *Service) Delete(ctx context.Context, id int64) (*MessageResponse, error) {
	if err := s.policy.CanDeleteUser(id); err != nil {
		s.logger.WarnContext(ctx, "refusing to delete the admin user", "target_user_id", id)
		return nil, internal.ErrTaskForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, errNoSuchUser
		}
		return nil, internal.NewInternalError("failed to delete user", err)
	}

	_ = s.publisher.Publish(ctx, events.NewUserDeletedEvent(id))

	return &MessageResponse{
		StatusCode: http.StatusOK,
		Message:    "User deleted successfully",
	}, nil
}

var errNoSuchUser = internal.NewNotFoundError("No such user found.", internal.ErrCodeUserNotFound)

// ensureEmailFree fails with Conflict when email belongs to a user other than self.
func (s *Service) ensureEmailFree(ctx context.Context, email string, self int64) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, internal.ErrUserNotFound):
		return nil
	case err != nil:
		return internal.NewInternalError("failed to check email", err)
	case existing.ID != self:
		return internal.ErrUserAlreadyExists
	}
	return nil
}
