package todo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/todo-api/internal"
	"github.com/frahmantamala/todo-api/internal/auth"
	todoDatamodel "github.com/frahmantamala/todo-api/internal/core/datamodel/todo"
)

type RepositoryAPI interface {
	Create(ctx context.Context, todo *todoDatamodel.Todo) error
	GetAllByUser(ctx context.Context, userID int64) ([]*todoDatamodel.Todo, error)
	GetByID(ctx context.Context, id, userID int64) (*todoDatamodel.Todo, error)
	Update(ctx context.Context, todo *todoDatamodel.Todo) error
	ToggleCompleted(ctx context.Context, id, userID int64) error
	Delete(ctx context.Context, id, userID int64) error
}

type Options struct {
	AdminUserID int64
}

type Service struct {
	repo   RepositoryAPI
	policy *auth.Policy
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		policy: auth.NewPolicy(opts.AdminUserID),
		logger: logger,
	}
}

var (
	errNoTodos    = internal.NewNotFoundError("No todos found.", internal.ErrCodeTodoNotFound)
	errNoSuchTodo = internal.NewNotFoundError("No such todo found.", internal.ErrCodeTodoNotFound)
)

func (s *Service) Create(ctx context.Context, userID int64, dto CreateTodoDTO) (*MessageResponse, error) {
	if err := s.guard(ctx, userID); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &todoDatamodel.Todo{
		Title:       dto.Title,
		Description: dto.Description,
		UserID:      userID,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to create todo", "error", err)
		return nil, internal.NewInternalError("failed to create todo", err)
	}

	return &MessageResponse{
		StatusCode: http.StatusCreated,
		Message:    "Todo created successfully.",
	}, nil
}

func (s *Service) GetAll(ctx context.Context, userID int64) (*TodoListResponse, error) {
	if err := s.guard(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := s.repo.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list todos", err)
	}
	if len(rows) == 0 {
		return nil, errNoTodos
	}

	return &TodoListResponse{
		StatusCode: http.StatusOK,
		Todos:      FromDataModels(rows),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, userID, id int64) (*TodoResponse, error) {
	if err := s.guard(ctx, userID); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError(fmt.Sprintf("No todo found with id: %d", id), internal.ErrCodeTodoNotFound)
		}
		return nil, internal.NewInternalError("failed to get todo", err)
	}

	return &TodoResponse{
		StatusCode: http.StatusOK,
		Todo:       FromDataModel(row),
	}, nil
}

func (s *Service) Update(ctx context.Context, userID, id int64, dto UpdateTodoDTO) (*MessageResponse, error) {
	if err := s.guard(ctx, userID); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &todoDatamodel.Todo{
		ID:          id,
		Title:       dto.Title,
		Description: dto.Description,
		UserID:      userID,
	}
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, s.mapWriteError(err, "failed to update todo")
	}

	return updatedResponse(), nil
}

// ToggleCompleted flips is_completed on the caller's todo.
func (s *Service) ToggleCompleted(ctx context.Context, userID, id int64) (*MessageResponse, error) {
	if err := s.guard(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.repo.ToggleCompleted(ctx, id, userID); err != nil {
		return nil, s.mapWriteError(err, "failed to toggle todo")
	}

	return updatedResponse(), nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) (*MessageResponse, error) {
	if err := s.guard(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return nil, s.mapWriteError(err, "failed to delete todo")
	}

	return &MessageResponse{
		StatusCode: http.StatusOK,
		Message:    "Todo deleted successfully.",
	}, nil
}

// guard rejects callers the policy does not let own todos.
func (s *Service) guard(ctx context.Context, userID int64) error {
	if err := s.policy.CanOwnTodos(userID); err != nil {
		s.logger.WarnContext(ctx, "admin attempted a todo operation", "user_id", userID)
		return internal.ErrTaskForbidden
	}
	return nil
}

func (s *Service) mapWriteError(err error, msg string) error {
	if errors.Is(err, ErrNotFound) {
		return errNoSuchTodo
	}
	return internal.NewInternalError(msg, err)
}

func updatedResponse() *MessageResponse {
	return &MessageResponse{
		StatusCode: http.StatusOK,
		Message:    "Todo updated successfully",
	}
}
