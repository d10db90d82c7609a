package auth

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

// Credentials is the subset of an employee row needed to authenticate.
type Credentials struct {
	EmployeeID   int64
	Email        string
	PasswordHash string
	Department   string
	ManagerID    *int64
}

func (s *Store) FindByEmail(ctx context.Context, email string) (Credentials, error) {
	var out Credentials
	err := s.DB.QueryRow(ctx, `
    SELECT employee_id, email, password, department, manager_id
    FROM employees
    WHERE email = $1
  `, email).Scan(&out.EmployeeID, &out.Email, &out.PasswordHash, &out.Department, &out.ManagerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credentials{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("find employee by email: %w", err)
	}
	return out, nil
}
