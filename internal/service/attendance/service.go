package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

type AttendanceServiceImpl struct {
	tx              database.Transactor
	attendanceRepo  attendance.AttendanceRepository
	employeeRepo    employee.EmployeeRepository
	settingsService attendance.SettingsService
	loc             *time.Location
	now             func() time.Time
}

// NewAttendanceService creates the attendance service. loc defines the
// business day that punches and sweeps are recorded against.
func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	settingsService attendance.SettingsService,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		tx:              tx,
		attendanceRepo:  attendanceRepo,
		employeeRepo:    employeeRepo,
		settingsService: settingsService,
		loc:             loc,
		now:             time.Now,
	}
}

func (a *AttendanceServiceImpl) localNow() time.Time {
	return a.now().In(a.loc)
}

// parseDay reads an optional YYYY-MM-DD date in the business location, defaulting to today.
func (a *AttendanceServiceImpl) parseDay(date *string, now time.Time) time.Time {
	if date == nil || *date == "" {
		return attendance.Day(now)
	}
	day, err := time.ParseInLocation("2006-01-02", *date, a.loc)
	if err != nil {
		return attendance.Day(now)
	}
	return day
}

func parsePunch(value *string, now time.Time) clock.Minute {
	if value == nil || *value == "" {
		return clock.At(now)
	}
	return clock.MustParse(*value)
}

// save creates rec when it has no ID yet and updates it otherwise.
func (a *AttendanceServiceImpl) save(ctx context.Context, rec attendance.Attendance) (attendance.Attendance, error) {
	if rec.ID == "" {
		return a.attendanceRepo.Create(ctx, rec)
	}
	return a.attendanceRepo.Update(ctx, rec)
}

// ========== PUNCHES ==========

// TimeIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) TimeIn(ctx context.Context, req attendance.TimeInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if _, err := a.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	settings, err := a.settingsService.Current(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance settings: %w", err)
	}

	now := a.localNow()
	day := a.parseDay(req.Date, now)
	punch := parsePunch(req.Time, now)

	var saved attendance.Attendance
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, day)
		if err != nil {
			return fmt.Errorf("failed to get attendance for the day: %w", err)
		}

		rec, err := attendance.RecordTimeIn(req.EmployeeID, day, punch, settings, existing)
		if err != nil {
			return err
		}

		saved, err = a.save(ctx, rec)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Time-in recorded",
		"employee_id", saved.EmployeeID,
		"date", saved.Date.Format("2006-01-02"),
		"time", punch.String(),
		"status", saved.Status,
		"late_hours", saved.LateHours,
	)

	return mapAttendanceToResponse(saved), nil
}

// TimeOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) TimeOut(ctx context.Context, req attendance.TimeOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	settings, err := a.settingsService.Current(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance settings: %w", err)
	}

	now := a.localNow()
	day := attendance.Day(now)
	punch := parsePunch(req.Time, now)

	var saved attendance.Attendance
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		open, err := a.attendanceRepo.GetOpenSession(ctx, req.EmployeeID, day)
		if err != nil {
			return fmt.Errorf("failed to get open session: %w", err)
		}

		rec, err := attendance.RecordTimeOut(punch, settings, open)
		if err != nil {
			return err
		}

		saved, err = a.attendanceRepo.Update(ctx, rec)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Time-out recorded",
		"employee_id", saved.EmployeeID,
		"date", saved.Date.Format("2006-01-02"),
		"time", punch.String(),
		"status", saved.Status,
		"worked_hours", saved.WorkedHours,
	)

	return mapAttendanceToResponse(saved), nil
}

// ========== ADMINISTRATION ==========

// CreateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CreateAttendance(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if _, err := a.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	settings, err := a.settingsService.Current(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance settings: %w", err)
	}

	day, _ := time.ParseInLocation("2006-01-02", req.Date, a.loc)
	rec := attendance.Attendance{EmployeeID: req.EmployeeID, Date: day}
	rec.MorningTimeIn, _ = clock.ParsePtr(req.MorningTimeIn)
	rec.MorningTimeOut, _ = clock.ParsePtr(req.MorningTimeOut)
	rec.AfternoonTimeIn, _ = clock.ParsePtr(req.AfternoonTimeIn)
	rec.AfternoonTimeOut, _ = clock.ParsePtr(req.AfternoonTimeOut)

	applyDerived(&rec, settings, req.Status, req.LateHours, req.WorkedHours)

	created, err := a.attendanceRepo.Create(ctx, rec)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance created", "id", created.ID, "employee_id", created.EmployeeID, "date", req.Date, "status", created.Status)

	return mapAttendanceToResponse(created), nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	settings, err := a.settingsService.Current(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance settings: %w", err)
	}

	var saved attendance.Attendance
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		rec, err := a.attendanceRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.EmployeeID != nil && *req.EmployeeID != rec.EmployeeID {
			return &attendance.EmployeeMismatchError{Expected: rec.EmployeeID, Received: *req.EmployeeID}
		}

		if req.Date != nil {
			rec.Date, _ = time.ParseInLocation("2006-01-02", *req.Date, a.loc)
		}
		before := rec
		mergePunch(&rec.MorningTimeIn, req.MorningTimeIn)
		mergePunch(&rec.MorningTimeOut, req.MorningTimeOut)
		mergePunch(&rec.AfternoonTimeIn, req.AfternoonTimeIn)
		mergePunch(&rec.AfternoonTimeOut, req.AfternoonTimeOut)

		if punchesChanged(before, rec) || req.Status != nil {
			applyDerived(&rec, settings, req.Status, req.LateHours, req.WorkedHours)
		} else {
			keepDerived(&rec, settings, req.LateHours, req.WorkedHours)
		}

		saved, err = a.attendanceRepo.Update(ctx, rec)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance updated", "id", saved.ID, "employee_id", saved.EmployeeID, "status", saved.Status)

	return mapAttendanceToResponse(saved), nil
}

// mergePunch leaves the field unchanged for nil and clears it for an empty string.
func mergePunch(field **clock.Minute, value *string) {
	if value == nil {
		return
	}
	parsed, _ := clock.ParsePtr(value)
	*field = parsed
}

// applyDerived sets status, late fields and worked hours. Explicit values win
// over the ones computed from the punches.
func applyDerived(rec *attendance.Attendance, s attendance.Settings, status *string, lateHours *int, workedHours *float64) {
	outcome := attendance.ComputeStatus(*rec, s)
	if status != nil {
		outcome = attendance.OutcomeFor(attendance.Status(*status), *rec, s)
	}
	if lateHours != nil {
		outcome = outcome.WithLateHours(*lateHours, s)
	}
	outcome.Apply(rec)

	rec.WorkedHours = attendance.ComputeWorkedHours(*rec, s)
	if workedHours != nil {
		rec.WorkedHours = *workedHours
	}
}

// keepDerived preserves the stored outcome and worked hours, applying only
// explicit overrides. Used when no punch changed.
func keepDerived(rec *attendance.Attendance, s attendance.Settings, lateHours *int, workedHours *float64) {
	if lateHours != nil {
		attendance.Outcome{Status: rec.Status}.WithLateHours(*lateHours, s).Apply(rec)
	}
	if workedHours != nil {
		rec.WorkedHours = *workedHours
	}
}

func punchesChanged(before, after attendance.Attendance) bool {
	return !samePunch(before.MorningTimeIn, after.MorningTimeIn) ||
		!samePunch(before.MorningTimeOut, after.MorningTimeOut) ||
		!samePunch(before.AfternoonTimeIn, after.AfternoonTimeIn) ||
		!samePunch(before.AfternoonTimeOut, after.AfternoonTimeOut)
}

func samePunch(a, b *clock.Minute) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	rec, err := a.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return mapAttendanceToResponse(rec), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapAttendanceToResponse(rec))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		Attendances: responses,
	}, nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	if err := a.attendanceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	slog.Info("Attendance deleted", "id", id)
	return nil
}

func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:               att.ID,
		EmployeeID:       att.EmployeeID,
		EmployeeName:     att.EmployeeName,
		Date:             att.Date.Format("2006-01-02"),
		MorningTimeIn:    clock.Format(att.MorningTimeIn),
		MorningTimeOut:   clock.Format(att.MorningTimeOut),
		AfternoonTimeIn:  clock.Format(att.AfternoonTimeIn),
		AfternoonTimeOut: clock.Format(att.AfternoonTimeOut),
		Status:           string(att.Status),
		LateHours:        att.LateHours,
		LateDeduction:    att.LateDeduction.StringFixed(2),
		WorkedHours:      att.WorkedHours,
		CreatedAt:        att.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        att.UpdatedAt.Format(time.RFC3339),
	}
}
