package employee

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	Position         string
	Salary           decimal.Decimal
	HireDate         time.Time
	EmploymentStatus EmploymentStatus
	Supplementary    SupplementaryIncome
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusInactive EmploymentStatus = "inactive"
)

// SupplementaryIncome holds the monthly figures paid on top of basic salary.
type SupplementaryIncome struct {
	Commission           decimal.Decimal
	ProfitSharing        decimal.Decimal
	Fees                 decimal.Decimal
	ThirteenthMonthPay   decimal.Decimal
	HazardPay            decimal.Decimal
	OtherTaxable         decimal.Decimal
	DeMinimis            decimal.Decimal
	RegularOvertimeHours decimal.Decimal
	HolidayOvertimeHours decimal.Decimal
}

// PositionRecord is one entry of an employee's position history.
// EndDate is nil for the current position.
type PositionRecord struct {
	ID         string
	EmployeeID string
	Position   string
	Salary     decimal.Decimal
	StartDate  time.Time
	EndDate    *time.Time
	CreatedAt  time.Time
}

// Covers reports whether date falls within the record's effective range.
func (p PositionRecord) Covers(date time.Time) bool {
	if date.Before(p.StartDate) {
		return false
	}
	return p.EndDate == nil || !date.After(*p.EndDate)
}

// ActivePositionAt picks the position effective on date. When no entry covers
// the date the latest entry is used. An empty history falls back to the
// employee's current position and salary.
func ActivePositionAt(emp Employee, history []PositionRecord, date time.Time) PositionRecord {
	if len(history) == 0 {
		return PositionRecord{
			EmployeeID: emp.ID,
			Position:   emp.Position,
			Salary:     emp.Salary,
			StartDate:  emp.HireDate,
		}
	}

	sorted := make([]PositionRecord, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})

	for _, rec := range sorted {
		if rec.Covers(date) {
			return rec
		}
	}
	return sorted[len(sorted)-1]
}

// CurrentPosition returns the open-ended history entry, if any.
func CurrentPosition(history []PositionRecord) (PositionRecord, bool) {
	for _, rec := range history {
		if rec.EndDate == nil {
			return rec, true
		}
	}
	return PositionRecord{}, false
}
