package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// TimeIn records a time-in punch for today or the given date
	TimeIn(ctx context.Context, req TimeInRequest) (AttendanceResponse, error)

	// TimeOut closes the employee's open session for today
	TimeOut(ctx context.Context, req TimeOutRequest) (AttendanceResponse, error)

	// CreateAttendance adds a record manually (admin)
	CreateAttendance(ctx context.Context, req CreateAttendanceRequest) (AttendanceResponse, error)

	// UpdateAttendance corrects a record (admin). Status is recomputed unless given.
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	DeleteAttendance(ctx context.Context, id string) error

	// SweepAbsences marks every active employee without a record as absent
	SweepAbsences(ctx context.Context, req SweepRequest) (SweepResponse, error)
}

// SettingsService manages the attendance settings singleton
type SettingsService interface {
	// Current returns the settings, creating the defaults on first use
	Current(ctx context.Context) (Settings, error)

	GetSettings(ctx context.Context) (SettingsResponse, error)

	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)
}
