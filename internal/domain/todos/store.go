package todos

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const todoColumns = `todo_id, user_id, title, description, is_completed, created_at`

func scanTodo(row pgx.Row) (Todo, error) {
	var t Todo
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.IsCompleted, &t.CreatedAt)
	return t, err
}

func (s *Store) ListByUser(ctx context.Context, userID int64) ([]Todo, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+todoColumns+`
    FROM todos
    WHERE user_id = $1
    ORDER BY created_at DESC, todo_id DESC
  `, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	out := make([]Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, in NewTodo) (Todo, error) {
	t, err := scanTodo(s.DB.QueryRow(ctx, `
    INSERT INTO todos (user_id, title, description)
    VALUES ($1, $2, $3)
    RETURNING `+todoColumns, in.UserID, in.Title, in.Description))
	if err != nil {
		return Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return t, nil
}

func (s *Store) SetCompleted(ctx context.Context, id int64, completed bool) (Todo, error) {
	t, err := scanTodo(s.DB.QueryRow(ctx, `
    UPDATE todos SET is_completed = $1
    WHERE todo_id = $2
    RETURNING `+todoColumns, completed, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Todo{}, ErrTodoNotFound
	}
	if err != nil {
		return Todo{}, fmt.Errorf("update todo: %w", err)
	}
	return t, nil
}

// Delete does not report whether a row existed.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.DB.Exec(ctx, "DELETE FROM todos WHERE todo_id = $1", id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}
