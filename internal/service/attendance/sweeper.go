package attendance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
)

// SweepAbsences implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) SweepAbsences(ctx context.Context, req attendance.SweepRequest) (attendance.SweepResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SweepResponse{}, err
	}

	settings, err := a.settingsService.Current(ctx)
	if err != nil {
		return attendance.SweepResponse{}, fmt.Errorf("failed to load attendance settings: %w", err)
	}

	now := a.localNow()
	day := a.parseDay(req.Date, now)
	date := day.Format("2006-01-02")

	if !attendance.OfficeHoursOver(day, now, settings) {
		return attendance.SweepResponse{}, fmt.Errorf("%w: %s", attendance.ErrOfficeHoursNotOver, date)
	}

	roster, err := a.employeeRepo.ListActiveIDs(ctx, day)
	if err != nil {
		return attendance.SweepResponse{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	existing, err := a.attendanceRepo.ListByDate(ctx, day)
	if err != nil {
		return attendance.SweepResponse{}, fmt.Errorf("failed to list attendance for %s: %w", date, err)
	}

	inserted := []string{}
	if absences := attendance.PlanAbsences(roster, existing, day, settings); len(absences) > 0 {
		ids, err := a.attendanceRepo.BulkCreateAbsences(ctx, absences)
		if err != nil {
			return attendance.SweepResponse{}, fmt.Errorf("failed to record absences: %w", err)
		}
		inserted = append(inserted, ids...)
	}

	slog.Info("Absence sweep completed", "date", date, "roster", len(roster), "marked_absent", len(inserted))

	return attendance.SweepResponse{
		Date:        date,
		Count:       len(inserted),
		EmployeeIDs: inserted,
	}, nil
}
