package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayHeadType enum
type PayHeadType string

const (
	PayHeadTypeEarnings   PayHeadType = "Earnings"
	PayHeadTypeDeductions PayHeadType = "Deductions"
)

// PayHead is a named earning or deduction line. A nil EmployeeID applies it to every employee.
//
// Recurring heads are monthly amounts. Attendance-affected heads are per-day
// amounts: earnings per day worked and deductions per day absent. Other heads
// are one-off amounts paid in the period containing EffectiveDate.
type PayHead struct {
	ID                   string
	EmployeeID           *string
	Name                 string
	Amount               decimal.Decimal
	Type                 PayHeadType
	IsRecurring          bool
	IsAttendanceAffected bool
	EffectiveDate        time.Time
	EndDate              *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ActiveOn reports whether the head is in effect on date.
func (p PayHead) ActiveOn(date time.Time) bool {
	d := dateOnly(date)
	if d.Before(dateOnly(p.EffectiveDate)) {
		return false
	}
	return p.EndDate == nil || !d.After(dateOnly(*p.EndDate))
}

// ActiveBetween reports whether the head is in effect on any day of [start, end].
func (p PayHead) ActiveBetween(start, end time.Time) bool {
	if dateOnly(p.EffectiveDate).After(dateOnly(end)) {
		return false
	}
	return p.EndDate == nil || !dateOnly(*p.EndDate).Before(dateOnly(start))
}

// LineCategory groups breakdown lines.
type LineCategory string

const (
	CategoryBasic         LineCategory = "basic"
	CategoryPayHead       LineCategory = "pay_head"
	CategorySupplementary LineCategory = "supplementary"
	CategoryAttendance    LineCategory = "attendance"
	CategoryStatutory     LineCategory = "statutory"
	CategoryTax           LineCategory = "tax"
)

type LineItem struct {
	Name     string          `json:"name"`
	Category LineCategory    `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// DeductionBreakdown is the payslip-ready result for one employee and period.
type DeductionBreakdown struct {
	EmployeeID  string     `json:"employee_id"`
	Position    string     `json:"position"`
	SalaryMonth string     `json:"salary_month"`
	PaydayType  PaydayType `json:"payday_type"`
	PeriodStart string     `json:"period_start"`
	PeriodEnd   string     `json:"period_end"`

	MonthlySalary decimal.Decimal `json:"monthly_salary"`
	Earnings      []LineItem      `json:"earnings"`
	GrossEarnings decimal.Decimal `json:"gross_earnings"`

	LateHours      int             `json:"late_hours"`
	AbsentDays     int             `json:"absent_days"`
	LateDeductions decimal.Decimal `json:"late_deductions"`
	SSS            decimal.Decimal `json:"sss"`
	PhilHealth     decimal.Decimal `json:"philhealth"`
	PagIBIG        decimal.Decimal `json:"pagibig"`
	WithholdingTax decimal.Decimal `json:"withholding_tax"`

	TaxableIncome    decimal.Decimal `json:"taxable_income"`
	NonTaxableIncome decimal.Decimal `json:"non_taxable_income"`
	MinimumWage      bool            `json:"minimum_wage_earner"`

	Deductions      []LineItem      `json:"deductions"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
}

// Payslip is a stored breakdown, unique per (employee, salary month, payday type).
type Payslip struct {
	ID              string
	EmployeeID      string
	SalaryMonth     string
	PaydayType      PaydayType
	PayDate         time.Time
	Position        string
	Salary          decimal.Decimal
	GrossEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
	Breakdown       DeductionBreakdown
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
