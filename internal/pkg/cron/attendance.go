package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
)

const sweepAbsencesJob = "sweep_absences"

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, sweepInterval time.Duration) {
	scheduler.AddJob(sweepAbsencesJob, sweepInterval, j.SweepAbsences)
}

// SweepAbsences marks today's missing employees absent once office hours are over.
// Runs before the end of office hours are skipped quietly.
func (j *AttendanceJobs) SweepAbsences(ctx context.Context) error {
	result, err := j.attendanceService.SweepAbsences(ctx, attendance.SweepRequest{})
	if errors.Is(err, attendance.ErrOfficeHoursNotOver) {
		slog.Debug("Cron: Office hours not over, skipping absence sweep")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to sweep absences: %w", err)
	}

	slog.Info("Cron: Marked absent employees", "date", result.Date, "count", result.Count)
	return nil
}
