package attendance

import "errors"

// Attendance domain errors
var (
	// Punch errors
	ErrOutsideWindow    = errors.New("time-in is not allowed before the early time-in threshold")
	ErrOnBreak          = errors.New("time-in is not allowed during the lunch break")
	ErrAlreadyClockedIn = errors.New("a session is already open for today")
	ErrSessionRecorded  = errors.New("this session has already been recorded today")
	ErrNoOpenSession    = errors.New("no open session found for today")
	ErrTooEarly         = errors.New("time-out is not allowed before the early time-out threshold")

	// Sweep errors
	ErrOfficeHoursNotOver = errors.New("office hours are not over for this date")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAttendanceConflict = errors.New("attendance record already exists or was modified concurrently")
	ErrEmployeeMismatch   = errors.New("employee id does not match the attendance record")
	ErrSettingsNotFound   = errors.New("attendance settings not found")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
)

// EmployeeMismatchError reports the employee an update targeted against the stored one.
type EmployeeMismatchError struct {
	Expected string
	Received string
}

func (e *EmployeeMismatchError) Error() string {
	return ErrEmployeeMismatch.Error() + ": expected " + e.Expected + ", received " + e.Received
}

func (e *EmployeeMismatchError) Is(target error) bool {
	return target == ErrEmployeeMismatch
}

func (e *EmployeeMismatchError) Details() map[string]any {
	return map[string]any{"expected": e.Expected, "received": e.Received}
}
