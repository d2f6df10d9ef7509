package employee

import "errors"

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrPositionStartTooEarly = errors.New("new position must start after the current position's start date")
	ErrStartBeforeHireDate   = errors.New("position cannot start before the employee's hire date")
)
