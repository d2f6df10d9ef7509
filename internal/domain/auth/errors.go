package auth

import "errors"

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAdminRequired      = errors.New("admin privilege required")
	ErrEmployeeIDRequired = errors.New("token is not linked to an employee")
	ErrUnknownRole        = errors.New("unknown role")
)
