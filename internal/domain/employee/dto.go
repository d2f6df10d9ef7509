package employee

import (
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

type RecordPositionRequest struct {
	EmployeeID string `json:"-"`
	Position   string `json:"position"`
	Salary     string `json:"salary"`
	StartDate  string `json:"start_date"`
}

func (r *RecordPositionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.Position) {
		errs.Add("position", "position is required")
	}
	if _, ok := validator.IsNonNegativeAmount(r.Salary); !ok {
		errs.Add("salary", "salary must be a non-negative number")
	}
	if _, valid := validator.IsValidDate(r.StartDate); !valid {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}

	return errs.Err()
}

type PositionResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Position   string  `json:"position"`
	Salary     string  `json:"salary"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date"`
}
