package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/clock"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusOnTime         Status = "On Time"
	StatusPresent        Status = "Present"
	StatusLate           Status = "Late"
	StatusHalfDay        Status = "Half Day"
	StatusAbsent         Status = "Absent"
	StatusEarlyDeparture Status = "Early Departure"
	StatusIncomplete     Status = "Incomplete"
	StatusLeave          Status = "Leave"
)

var validStatuses = []string{
	string(StatusOnTime),
	string(StatusPresent),
	string(StatusLate),
	string(StatusHalfDay),
	string(StatusAbsent),
	string(StatusEarlyDeparture),
	string(StatusIncomplete),
	string(StatusLeave),
}

// Late hours charged for a half day and a full absence.
const (
	HalfDayLateHours = 4
	AbsentLateHours  = 8
)

// Attendance is one employee's record for one calendar day.
type Attendance struct {
	ID               string
	EmployeeID       string
	Date             time.Time
	MorningTimeIn    *clock.Minute
	MorningTimeOut   *clock.Minute
	AfternoonTimeIn  *clock.Minute
	AfternoonTimeOut *clock.Minute
	Status           Status
	LateHours        int
	LateDeduction    decimal.Decimal
	WorkedHours      float64
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO
	EmployeeName *string
}

// MorningOpen reports a morning time-in without a matching time-out.
func (a Attendance) MorningOpen() bool {
	return a.MorningTimeIn != nil && a.MorningTimeOut == nil
}

// AfternoonOpen reports an afternoon time-in without a matching time-out.
func (a Attendance) AfternoonOpen() bool {
	return a.AfternoonTimeIn != nil && a.AfternoonTimeOut == nil
}

// HasOpenSession reports whether either half-day session is still open.
func (a Attendance) HasOpenSession() bool {
	return a.MorningOpen() || a.AfternoonOpen()
}

// HasTimeIn reports whether any time-in was recorded for the day.
func (a Attendance) HasTimeIn() bool {
	return a.MorningTimeIn != nil || a.AfternoonTimeIn != nil
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
