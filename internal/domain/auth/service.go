package auth

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Service struct {
	store  StoreAPI
	secret string
	ttl    time.Duration
}

func NewService(store StoreAPI, secret string) *Service {
	return &Service{store: store, secret: secret, ttl: TokenTTL}
}

// LoginResult is the issued token plus a snapshot of the employee row.
type LoginResult struct {
	Token      string `json:"token"`
	Email      string `json:"email"`
	Department string `json:"department"`
	EmployeeID int64  `json:"employee_id"`
	ManagerID  *int64 `json:"manager_id"`
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	creds, err := s.store.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return LoginResult{}, err
	}

	if err := CheckPassword(creds.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidPassword
	}

	token, err := GenerateToken(s.secret, Claims{EmployeeID: creds.EmployeeID, ManagerID: creds.ManagerID}, s.ttl)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}

	return LoginResult{
		Token:      token,
		Email:      creds.Email,
		Department: creds.Department,
		EmployeeID: creds.EmployeeID,
		ManagerID:  creds.ManagerID,
	}, nil
}

func (s *Service) ParseToken(token string) (*Claims, error) {
	return ParseToken(s.secret, token)
}
