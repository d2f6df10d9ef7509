package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// PaydayType selects the part of the salary month being paid.
type PaydayType string

const (
	PaydayMidMonth   PaydayType = "mid-month"
	PaydayEndOfMonth PaydayType = "end-of-month"
	PaydayFullMonth  PaydayType = "full-month"
)

var validPaydayTypes = []string{string(PaydayMidMonth), string(PaydayEndOfMonth), string(PaydayFullMonth)}

const midMonthLastDay = 15

var two = decimal.NewFromInt(2)

// Period is the date range a payday covers. Start and End are inclusive.
type Period struct {
	SalaryMonth string
	PaydayType  PaydayType
	MonthStart  time.Time
	MonthEnd    time.Time
	Start       time.Time
	End         time.Time
}

// NewPeriod resolves a YYYY-MM salary month and payday type.
// mid-month covers days 1-15 and end-of-month day 16 to the last day.
func NewPeriod(salaryMonth string, payday PaydayType) (Period, error) {
	month, ok := validator.IsValidSalaryMonth(salaryMonth)
	if !ok {
		return Period{}, fmt.Errorf("%w: salary month %q must be in YYYY-MM format", ErrInvalidDateRange, salaryMonth)
	}

	p := Period{
		SalaryMonth: salaryMonth,
		PaydayType:  payday,
		MonthStart:  month,
		MonthEnd:    month.AddDate(0, 1, -1),
	}
	switch payday {
	case PaydayMidMonth:
		p.Start, p.End = p.MonthStart, month.AddDate(0, 0, midMonthLastDay-1)
	case PaydayEndOfMonth:
		p.Start, p.End = month.AddDate(0, 0, midMonthLastDay), p.MonthEnd
	case PaydayFullMonth:
		p.Start, p.End = p.MonthStart, p.MonthEnd
	default:
		return Period{}, fmt.Errorf("%w: unknown payday type %q", ErrInvalidDateRange, payday)
	}
	return p, nil
}

// Contains compares calendar dates only.
func (p Period) Contains(date time.Time) bool {
	d := dateOnly(date)
	return !d.Before(p.Start) && !d.After(p.End)
}

// InMonth reports whether date falls in the salary month.
func (p Period) InMonth(date time.Time) bool {
	d := dateOnly(date)
	return !d.Before(p.MonthStart) && !d.After(p.MonthEnd)
}

// Share returns the part of a monthly amount paid in this period. The two
// halves always add back up to the monthly amount.
func (p Period) Share(monthly decimal.Decimal) decimal.Decimal {
	half := monthly.Div(two).Round(2)
	switch p.PaydayType {
	case PaydayMidMonth:
		return half
	case PaydayEndOfMonth:
		return monthly.Sub(half)
	default:
		return monthly
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
