package auth

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrInvalidPassword  = errors.New("invalid password")
)
