package directory

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

const employeeColumns = `employee_id, name, email, department, manager_id, phone_number, photo_url, role`

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    ORDER BY employee_id
  `)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return collectEmployees(rows)
}

func (s *Store) DepartmentByEmail(ctx context.Context, email string) (string, error) {
	var department string
	err := s.DB.QueryRow(ctx, "SELECT department FROM employees WHERE email = $1", email).Scan(&department)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrEmployeeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("department by email: %w", err)
	}
	return department, nil
}

func (s *Store) ListByDepartment(ctx context.Context, department string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE department = $1
    ORDER BY employee_id
  `, department)
	if err != nil {
		return nil, fmt.Errorf("list employees by department: %w", err)
	}
	return collectEmployees(rows)
}

func collectEmployees(rows pgx.Rows) ([]Employee, error) {
	defer rows.Close()

	out := make([]Employee, 0)
	for rows.Next() {
		var emp Employee
		var role string
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Email, &emp.Department, &emp.ManagerID, &emp.PhoneNumber, &emp.PhotoURL, &role); err != nil {
			return nil, err
		}
		emp.Role = Role(role)
		out = append(out, emp)
	}
	return out, rows.Err()
}
