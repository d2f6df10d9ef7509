package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Records are unique per (employee_id, date).
type AttendanceRepository interface {
	// Create inserts a new record. Returns ErrAttendanceConflict when the employee
	// already has a record for the date.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// Update replaces a record if it has not changed since it was read.
	// Returns ErrAttendanceConflict for a stale UpdatedAt.
	Update(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves a record by ID
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil, nil when the employee has no record for the date
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// GetOpenSession returns the record with a time-in but no matching time-out, or nil
	GetOpenSession(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// ListByDate returns every record for the date
	ListByDate(ctx context.Context, date time.Time) ([]Attendance, error)

	// ListByEmployeeAndRange returns an employee's records with start <= date <= end
	ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)

	// List retrieves records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// BulkCreateAbsences inserts absence records, skipping employees that already
	// have a record, and returns the employee IDs actually inserted.
	BulkCreateAbsences(ctx context.Context, records []Attendance) ([]string, error)

	// Delete removes a record
	Delete(ctx context.Context, id string) error
}

// SettingsRepository stores the single attendance settings row.
type SettingsRepository interface {
	// Get returns ErrSettingsNotFound when no row exists
	Get(ctx context.Context) (Settings, error)

	Upsert(ctx context.Context, settings Settings) (Settings, error)
}
