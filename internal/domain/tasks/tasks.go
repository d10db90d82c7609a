// Package tasks reads tasks assigned to employees. Rows are created outside
// this application.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoAssignedTasks = errors.New("no assigned tasks")

type AssignedTask struct {
	TaskID      int64      `json:"task_id"`
	EmployeeID  int64      `json:"employee_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	AssignedBy  *int64     `json:"assigned_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

type StoreAPI interface {
	ListByEmployee(ctx context.Context, employeeID int64) ([]AssignedTask, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID int64) ([]AssignedTask, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT task_id, employee_id, title, description, status, due_date, assigned_by, created_at
    FROM assigned_tasks
    WHERE employee_id = $1
    ORDER BY task_id
  `, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list assigned tasks: %w", err)
	}
	defer rows.Close()

	var out []AssignedTask
	for rows.Next() {
		var t AssignedTask
		if err := rows.Scan(&t.TaskID, &t.EmployeeID, &t.Title, &t.Description, &t.Status, &t.DueDate, &t.AssignedBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// ForEmployee returns ErrNoAssignedTasks when the employee has none.
func (s *Service) ForEmployee(ctx context.Context, employeeID int64) ([]AssignedTask, error) {
	items, err := s.store.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoAssignedTasks
	}
	return items, nil
}
