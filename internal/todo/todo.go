package todo

import (
	"errors"
	"time"

	todoDatamodel "github.com/frahmantamala/todo-api/internal/core/datamodel/todo"
)

// ErrNotFound is returned by repositories when no todo matches both id and owner.
var ErrNotFound = errors.New("todo not found")

type Todo struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	UserID      int64      `json:"user_id"`
	IsCompleted bool       `json:"is_completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func FromDataModel(t *todoDatamodel.Todo) *Todo {
	if t == nil {
		return nil
	}
	return &Todo{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		UserID:      t.UserID,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromDataModels(rows []*todoDatamodel.Todo) []*Todo {
	out := make([]*Todo, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out
}
