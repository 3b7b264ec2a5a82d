package todo

import (
	"github.com/frahmantamala/todo-api/internal/core/common/validation"
)

// CreateTodoDTO is the body of POST /todos and PUT /todos/{id}.
type CreateTodoDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type UpdateTodoDTO = CreateTodoDTO

func (d CreateTodoDTO) Validate() error {
	if err := validation.ValidateTodoInput(d.Title, d.Description); err != nil {
		return err
	}
	return nil
}

type MessageResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

type TodoResponse struct {
	StatusCode int   `json:"statusCode"`
	Todo       *Todo `json:"todo"`
}

type TodoListResponse struct {
	StatusCode int     `json:"statusCode"`
	Todos      []*Todo `json:"todos"`
}
