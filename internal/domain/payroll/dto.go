package payroll

import (
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

// ========================================
// AGGREGATION DTOs
// ========================================

// AggregateRequest selects an employee's salary month and payday. Position and
// Salary, when given, are checked against the position history effective on PayDate.
type AggregateRequest struct {
	EmployeeID  string  `json:"employee_id"`
	SalaryMonth string  `json:"salary_month"` // YYYY-MM
	PaydayType  string  `json:"payday_type"`  // mid-month, end-of-month, full-month
	PayDate     *string `json:"pay_date,omitempty"`
	Position    *string `json:"position,omitempty"`
	Salary      *string `json:"salary,omitempty"`
}

func (r *AggregateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	validatePeriod(&errs, r.SalaryMonth, r.PaydayType)
	if r.PayDate != nil {
		if _, valid := validator.IsValidDate(*r.PayDate); !valid {
			errs.Add("pay_date", "pay_date must be in YYYY-MM-DD format")
		}
	}
	if r.Salary != nil {
		if _, ok := validator.IsNonNegativeAmount(*r.Salary); !ok {
			errs.Add("salary", "salary must be a non-negative number")
		}
	}

	return errs.Err()
}

type BulkAggregateRequest struct {
	SalaryMonth string `json:"salary_month"`
	PaydayType  string `json:"payday_type"`
}

func (r *BulkAggregateRequest) Validate() error {
	var errs validator.ValidationErrors
	validatePeriod(&errs, r.SalaryMonth, r.PaydayType)
	return errs.Err()
}

func validatePeriod(errs *validator.ValidationErrors, salaryMonth, paydayType string) {
	if _, ok := validator.IsValidSalaryMonth(salaryMonth); !ok {
		errs.Add("salary_month", "salary_month must be in YYYY-MM format")
	}
	if !validator.IsInSlice(paydayType, validPaydayTypes) {
		errs.Add("payday_type", "payday_type must be one of: "+strings.Join(validPaydayTypes, ", "))
	}
}

type BulkAggregateResponse struct {
	SalaryMonth    string               `json:"salary_month"`
	PaydayType     string               `json:"payday_type"`
	Count          int                  `json:"count"`
	TotalNetSalary string               `json:"total_net_salary"`
	Breakdowns     []DeductionBreakdown `json:"breakdowns"`
}

type ContributionRatesResponse struct {
	EmployeeID string `json:"employee_id"`
	Salary     string `json:"salary"`
	SSS        string `json:"sss"`
	PhilHealth string `json:"philhealth"`
	PagIBIG    string `json:"pagibig"`
	Total      string `json:"total"`
}

// ========================================
// PAYSLIP DTOs
// ========================================

type GeneratePayslipRequest struct {
	AggregateRequest
}

func (r *GeneratePayslipRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := r.AggregateRequest.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	if r.PayDate == nil {
		errs.Add("pay_date", "pay_date is required")
	}
	if r.Position == nil || validator.IsEmpty(*r.Position) {
		errs.Add("position", "position is required")
	}
	if r.Salary == nil {
		errs.Add("salary", "salary is required")
	}
	return errs.Err()
}

type PayslipResponse struct {
	ID              string             `json:"id"`
	EmployeeID      string             `json:"employee_id"`
	SalaryMonth     string             `json:"salary_month"`
	PaydayType      string             `json:"payday_type"`
	PayDate         string             `json:"pay_date"`
	Position        string             `json:"position"`
	Salary          string             `json:"salary"`
	GrossEarnings   string             `json:"gross_earnings"`
	TotalDeductions string             `json:"total_deductions"`
	NetSalary       string             `json:"net_salary"`
	Breakdown       DeductionBreakdown `json:"breakdown"`
	CreatedAt       string             `json:"created_at"`
	UpdatedAt       string             `json:"updated_at"`
}

type PayslipFilter struct {
	EmployeeID  *string `json:"employee_id,omitempty"`
	SalaryMonth *string `json:"salary_month,omitempty"`
}

func (f *PayslipFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.SalaryMonth != nil {
		if _, ok := validator.IsValidSalaryMonth(*f.SalaryMonth); !ok {
			errs.Add("salary_month", "salary_month must be in YYYY-MM format")
		}
	}
	return errs.Err()
}

// ========================================
// PAY HEAD DTOs
// ========================================

type CreatePayHeadRequest struct {
	EmployeeID           *string `json:"employee_id,omitempty"`
	Name                 string  `json:"name"`
	Amount               string  `json:"amount"`
	Type                 string  `json:"type"`
	IsRecurring          bool    `json:"is_recurring"`
	IsAttendanceAffected bool    `json:"is_attendance_affected"`
	EffectiveDate        string  `json:"effective_date"`
	EndDate              *string `json:"end_date,omitempty"`
}

func (r *CreatePayHeadRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if _, ok := validator.IsNonNegativeAmount(r.Amount); !ok {
		errs.Add("amount", "amount must be a non-negative number")
	}
	if !validator.IsInSlice(r.Type, []string{string(PayHeadTypeEarnings), string(PayHeadTypeDeductions)}) {
		errs.Add("type", "type must be one of: Earnings, Deductions")
	}

	effective, validEffective := validator.IsValidDate(r.EffectiveDate)
	if !validEffective {
		errs.Add("effective_date", "effective_date must be in YYYY-MM-DD format")
	}
	if r.EndDate != nil {
		end, valid := validator.IsValidDate(*r.EndDate)
		if !valid {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		} else if validEffective && end.Before(effective) {
			errs.Add("end_date", "end_date must not be before effective_date")
		}
	}

	return errs.Err()
}

type PayHeadFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Type       *string `json:"type,omitempty"`
}

type PayHeadResponse struct {
	ID                   string  `json:"id"`
	EmployeeID           *string `json:"employee_id"`
	Name                 string  `json:"name"`
	Amount               string  `json:"amount"`
	Type                 string  `json:"type"`
	IsRecurring          bool    `json:"is_recurring"`
	IsAttendanceAffected bool    `json:"is_attendance_affected"`
	EffectiveDate        string  `json:"effective_date"`
	EndDate              *string `json:"end_date"`
}
