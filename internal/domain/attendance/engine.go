package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/clock"
	"github.com/shopspring/decimal"
)

// Outcome is the derived part of an attendance record.
type Outcome struct {
	Status        Status
	LateHours     int
	LateDeduction decimal.Decimal
}

func newOutcome(status Status, lateHours int, s Settings) Outcome {
	return Outcome{Status: status, LateHours: lateHours, LateDeduction: s.Deduction(lateHours)}
}

// Apply copies the outcome onto a.
func (o Outcome) Apply(a *Attendance) {
	a.Status = o.Status
	a.LateHours = o.LateHours
	a.LateDeduction = o.LateDeduction
}

// LateHours rounds the minutes between officeStart and punch up to whole hours.
func LateHours(officeStart, punch clock.Minute) int {
	minutes := punch.Sub(officeStart)
	if minutes <= 0 {
		return 0
	}
	return (minutes + 59) / 60
}

// RecordTimeIn applies a time-in punch to the employee's record for day.
// existing is nil when no record exists yet. The returned record has no ID
// when it must be created.
func RecordTimeIn(employeeID string, day time.Time, punch clock.Minute, s Settings, existing *Attendance) (Attendance, error) {
	if punch < s.EarlyTimeInThreshold {
		return Attendance{}, ErrOutsideWindow
	}
	if punch >= s.BreakStart && punch <= s.BreakEnd {
		return Attendance{}, ErrOnBreak
	}

	rec := Attendance{EmployeeID: employeeID, Date: Day(day)}
	if existing != nil {
		rec = *existing
	}
	if isOpen(rec) {
		return Attendance{}, ErrAlreadyClockedIn
	}

	if punch < s.BreakStart {
		if rec.MorningTimeIn != nil || rec.AfternoonTimeIn != nil {
			return Attendance{}, fmt.Errorf("%w: morning", ErrSessionRecorded)
		}
		rec.MorningTimeIn = punch.Ptr()
		if punch > s.LateThreshold() {
			newOutcome(StatusLate, LateHours(s.OfficeStart, punch), s).Apply(&rec)
		} else {
			newOutcome(StatusOnTime, 0, s).Apply(&rec)
		}
	} else {
		if rec.AfternoonTimeIn != nil {
			return Attendance{}, fmt.Errorf("%w: afternoon", ErrSessionRecorded)
		}
		rec.AfternoonTimeIn = punch.Ptr()
		switch {
		case rec.MorningTimeIn == nil:
			newOutcome(StatusHalfDay, HalfDayLateHours, s).Apply(&rec)
		case *rec.MorningTimeIn > s.LateThreshold():
			newOutcome(StatusLate, LateHours(s.OfficeStart, *rec.MorningTimeIn), s).Apply(&rec)
		default:
			newOutcome(StatusPresent, 0, s).Apply(&rec)
		}
	}

	rec.WorkedHours = ComputeWorkedHours(rec, s)
	return rec, nil
}

// RecordTimeOut closes the open session of today's record.
//
// A morning session still open after the break is closed as an afternoon
// session that starts and ends at punch. The morning time-out stays empty and
// the day is treated as one continuous span.
func RecordTimeOut(punch clock.Minute, s Settings, open *Attendance) (Attendance, error) {
	if open == nil || !open.HasOpenSession() {
		return Attendance{}, ErrNoOpenSession
	}
	if punch < s.EarlyTimeOutThreshold {
		return Attendance{}, ErrTooEarly
	}

	rec := *open
	switch {
	case rec.MorningOpen() && punch <= s.BreakEnd:
		if punch < *rec.MorningTimeIn {
			return Attendance{}, fmt.Errorf("%w: before morning time-in", ErrTooEarly)
		}
		rec.MorningTimeOut = punch.Ptr()
	case rec.AfternoonOpen():
		if punch < *rec.AfternoonTimeIn {
			return Attendance{}, fmt.Errorf("%w: before afternoon time-in", ErrTooEarly)
		}
		rec.AfternoonTimeOut = punch.Ptr()
	case rec.MorningOpen() && rec.AfternoonTimeIn == nil:
		rec.AfternoonTimeIn = punch.Ptr()
		rec.AfternoonTimeOut = punch.Ptr()
	default:
		return Attendance{}, ErrNoOpenSession
	}

	lateThreshold := s.LateThreshold()
	switch {
	case punch < s.OfficeEnd && rec.AfternoonTimeOut != nil:
		rec.Status = StatusEarlyDeparture
	case rec.MorningTimeIn != nil && rec.AfternoonTimeOut != nil:
		if *rec.MorningTimeIn > lateThreshold {
			newOutcome(StatusLate, LateHours(s.OfficeStart, *rec.MorningTimeIn), s).Apply(&rec)
		} else {
			newOutcome(StatusPresent, 0, s).Apply(&rec)
		}
	case rec.MorningTimeIn == nil && rec.AfternoonTimeOut != nil:
		rec.Status = StatusHalfDay
		if rec.AfternoonTimeIn != nil && *rec.AfternoonTimeIn >= s.HalfDayThreshold {
			newOutcome(StatusHalfDay, HalfDayLateHours, s).Apply(&rec)
		}
	case isOpen(rec):
		rec.Status = StatusIncomplete
	}

	rec.WorkedHours = ComputeWorkedHours(rec, s)
	return rec, nil
}

// ComputeStatus derives status and late fields from whichever punches are present.
func ComputeStatus(a Attendance, s Settings) Outcome {
	mIn, aIn, aOut := a.MorningTimeIn, a.AfternoonTimeIn, a.AfternoonTimeOut
	morningLate := mIn != nil && *mIn > s.LateThreshold()

	switch {
	case mIn == nil && aIn == nil:
		return newOutcome(StatusAbsent, AbsentLateHours, s)
	case mIn != nil && aOut != nil && *aOut >= s.OfficeEnd:
		if morningLate {
			return newOutcome(StatusLate, LateHours(s.OfficeStart, *mIn), s)
		}
		return newOutcome(StatusPresent, 0, s)
	case mIn == nil:
		return newOutcome(StatusHalfDay, HalfDayLateHours, s)
	case aIn == nil && aOut == nil:
		if morningLate {
			return newOutcome(StatusLate, max(HalfDayLateHours, LateHours(s.OfficeStart, *mIn)), s)
		}
		return newOutcome(StatusHalfDay, HalfDayLateHours, s)
	case morningLate:
		return newOutcome(StatusLate, LateHours(s.OfficeStart, *mIn), s)
	case isOpen(a):
		return newOutcome(StatusIncomplete, 0, s)
	case (aOut != nil && *aOut < s.OfficeEnd) || (a.MorningTimeOut != nil && *a.MorningTimeOut < s.BreakStart):
		return newOutcome(StatusEarlyDeparture, 0, s)
	default:
		return newOutcome(StatusPresent, 0, s)
	}
}

// OutcomeFor fills in the late fields for an explicitly chosen status.
// Late hours follow the morning time-in for Late and the fixed charges for
// Half Day and Absent. Every other status carries none.
func OutcomeFor(status Status, a Attendance, s Settings) Outcome {
	switch status {
	case StatusAbsent:
		return newOutcome(status, AbsentLateHours, s)
	case StatusHalfDay:
		return newOutcome(status, HalfDayLateHours, s)
	case StatusLate:
		if a.MorningTimeIn != nil {
			return newOutcome(status, LateHours(s.OfficeStart, *a.MorningTimeIn), s)
		}
		return newOutcome(status, 0, s)
	default:
		return newOutcome(status, 0, s)
	}
}

// WithLateHours overrides the late hours and recomputes the deduction.
func (o Outcome) WithLateHours(hours int, s Settings) Outcome {
	return newOutcome(o.Status, hours, s)
}

// ComputeWorkedHours sums the closed sessions in hours, never below zero.
// A continuous morning-in to afternoon-out span has the break subtracted.
func ComputeWorkedHours(a Attendance, s Settings) float64 {
	minutes := 0
	if continuousSpan(a) {
		minutes = a.AfternoonTimeOut.Sub(*a.MorningTimeIn) - s.BreakMinutes()
	} else {
		if a.MorningTimeIn != nil && a.MorningTimeOut != nil {
			minutes += max(0, a.MorningTimeOut.Sub(*a.MorningTimeIn))
		}
		if a.AfternoonTimeIn != nil && a.AfternoonTimeOut != nil {
			minutes += max(0, a.AfternoonTimeOut.Sub(*a.AfternoonTimeIn))
		}
	}
	if minutes <= 0 {
		return 0
	}
	return math.Round(float64(minutes)/60*100) / 100
}

// OfficeHoursOver reports whether now is past officeEnd on day.
func OfficeHoursOver(day, now time.Time, s Settings) bool {
	today := Day(now)
	y, m, d := day.Date()
	day = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	switch {
	case day.Before(today):
		return true
	case day.Equal(today):
		return clock.At(now) > s.OfficeEnd
	default:
		return false
	}
}

// PlanAbsences builds Absent records for every roster employee without a record on day.
func PlanAbsences(roster []string, existing []Attendance, day time.Time, s Settings) []Attendance {
	covered := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		covered[rec.EmployeeID] = struct{}{}
	}

	var absences []Attendance
	for _, employeeID := range roster {
		if _, ok := covered[employeeID]; ok {
			continue
		}
		covered[employeeID] = struct{}{}

		rec := Attendance{EmployeeID: employeeID, Date: Day(day)}
		newOutcome(StatusAbsent, AbsentLateHours, s).Apply(&rec)
		absences = append(absences, rec)
	}
	return absences
}

// continuousSpan matches a morning time-in closed only by an afternoon time-out,
// including the same-minute afternoon session written when a morning session is
// closed after the break.
func continuousSpan(a Attendance) bool {
	if a.MorningTimeIn == nil || a.MorningTimeOut != nil || a.AfternoonTimeOut == nil {
		return false
	}
	return a.AfternoonTimeIn == nil || *a.AfternoonTimeIn == *a.AfternoonTimeOut
}

func isOpen(a Attendance) bool {
	if continuousSpan(a) {
		return false
	}
	return a.HasOpenSession()
}
