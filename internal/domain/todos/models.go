package todos

import (
	"errors"
	"time"
)

var (
	ErrTodoNotFound = errors.New("todo not found")
	ErrInvalidTodo  = errors.New("todo invalid args")
)

type Todo struct {
	ID          int64     `json:"todo_id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
}

type NewTodo struct {
	UserID      int64
	Title       string
	Description string
}
