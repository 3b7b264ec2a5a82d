package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/todo-api/internal"
	todoDatamodel "github.com/frahmantamala/todo-api/internal/core/datamodel/todo"
	"github.com/frahmantamala/todo-api/internal/todo"
	"github.com/jmoiron/sqlx"
)

const todoColumns = `id, title, description, user_id, is_completed, created_at, updated_at`

type TodoRepository struct {
	db           *sqlx.DB
	queryTimeout time.Duration
}

func NewTodoRepository(db *sqlx.DB, queryTimeout time.Duration) todo.RepositoryAPI {
	return &TodoRepository{db: db, queryTimeout: queryTimeout}
}

func (r *TodoRepository) Create(ctx context.Context, t *todoDatamodel.Todo) error {
	ctx, cancel := internal.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `INSERT INTO todos (title, description, user_id) VALUES ($1, $2, $3) RETURNING id, is_completed, created_at`
	err := r.db.QueryRowxContext(ctx, query, t.Title, t.Description, t.UserID).
		Scan(&t.ID, &t.IsCompleted, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) GetAllByUser(ctx context.Context, userID int64) ([]*todoDatamodel.Todo, error) {
	ctx, cancel := internal.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var rows []*todoDatamodel.Todo
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1 ORDER BY id ASC`
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return rows, nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id, userID int64) (*todoDatamodel.Todo, error) {
	ctx, cancel := internal.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var t todoDatamodel.Todo
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &t, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, todo.ErrNotFound
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return &t, nil
}

func (r *TodoRepository) Update(ctx context.Context, t *todoDatamodel.Todo) error {
	query := `UPDATE todos SET title = $1, description = $2, updated_at = NOW() WHERE id = $3 AND user_id = $4`
	return r.execAffecting(ctx, "update todo", query, t.Title, t.Description, t.ID, t.UserID)
}

func (r *TodoRepository) ToggleCompleted(ctx context.Context, id, userID int64) error {
	query := `UPDATE todos SET is_completed = NOT is_completed, updated_at = NOW() WHERE id = $1 AND user_id = $2`
	return r.execAffecting(ctx, "toggle todo", query, id, userID)
}

func (r *TodoRepository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`
	return r.execAffecting(ctx, "delete todo", query, id, userID)
}

// execAffecting runs a write and reports todo.ErrNotFound when no row matched.
func (r *TodoRepository) execAffecting(ctx context.Context, op, query string, args ...any) error {
	ctx, cancel := internal.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return todo.ErrNotFound
	}
	return nil
}
