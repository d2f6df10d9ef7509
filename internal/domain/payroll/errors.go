package payroll

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDateRange       = errors.New("invalid payroll date range")
	ErrPositionSalaryMismatch = errors.New("position or salary does not match the employee's position history")
	ErrPayHeadNotFound        = errors.New("pay head not found")
	ErrPayslipNotFound        = errors.New("payslip not found")
	ErrUnauthorized           = errors.New("employees can only access their own payroll records")
)

// PositionSalaryMismatchError carries the historical values the request disagreed with.
type PositionSalaryMismatchError struct {
	ExpectedPosition string
	ReceivedPosition string
	ExpectedSalary   decimal.Decimal
	ReceivedSalary   decimal.Decimal
}

func (e *PositionSalaryMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s at %s, received %s at %s",
		ErrPositionSalaryMismatch.Error(),
		e.ExpectedPosition, e.ExpectedSalary.StringFixed(2),
		e.ReceivedPosition, e.ReceivedSalary.StringFixed(2),
	)
}

func (e *PositionSalaryMismatchError) Is(target error) bool {
	return target == ErrPositionSalaryMismatch
}

// Details returns expected and received values for API responses.
func (e *PositionSalaryMismatchError) Details() map[string]any {
	return map[string]any{
		"expected": map[string]string{"position": e.ExpectedPosition, "salary": e.ExpectedSalary.StringFixed(2)},
		"received": map[string]string{"position": e.ReceivedPosition, "salary": e.ReceivedSalary.StringFixed(2)},
	}
}
