package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) attendance.SettingsRepository {
	return &settingsRepository{db: db}
}

func scanSettings(row pgx.Row) (attendance.Settings, error) {
	var (
		s                                  attendance.Settings
		officeStart, officeEnd             pgtype.Time
		breakStart, breakEnd               pgtype.Time
		earlyTimeIn, earlyTimeOut, halfDay pgtype.Time
	)
	err := row.Scan(
		&s.ID, &officeStart, &officeEnd, &breakStart, &breakEnd,
		&earlyTimeIn, &earlyTimeOut, &halfDay,
		&s.GracePeriod, &s.DeductionRate, &s.UpdatedAt,
	)
	if err != nil {
		return attendance.Settings{}, err
	}

	s.OfficeStart = fromPgTimeValue(officeStart)
	s.OfficeEnd = fromPgTimeValue(officeEnd)
	s.BreakStart = fromPgTimeValue(breakStart)
	s.BreakEnd = fromPgTimeValue(breakEnd)
	s.EarlyTimeInThreshold = fromPgTimeValue(earlyTimeIn)
	s.EarlyTimeOutThreshold = fromPgTimeValue(earlyTimeOut)
	s.HalfDayThreshold = fromPgTimeValue(halfDay)
	return s, nil
}

// Get implements attendance.SettingsRepository.
func (r *settingsRepository) Get(ctx context.Context) (attendance.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, office_start, office_end, break_start, break_end,
			   early_time_in_threshold, early_time_out_threshold, half_day_threshold,
			   grace_period, deduction_rate, updated_at
		FROM attendance_settings
		LIMIT 1
	`

	s, err := scanSettings(q.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Settings{}, attendance.ErrSettingsNotFound
		}
		return attendance.Settings{}, fmt.Errorf("failed to get attendance settings: %w", err)
	}
	return s, nil
}

// Upsert implements attendance.SettingsRepository. The table holds at most one row.
func (r *settingsRepository) Upsert(ctx context.Context, s attendance.Settings) (attendance.Settings, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Settings{}, fmt.Errorf("failed to generate settings id: %w", err)
	}

	query := `
		INSERT INTO attendance_settings (
			id, office_start, office_end, break_start, break_end,
			early_time_in_threshold, early_time_out_threshold, half_day_threshold,
			grace_period, deduction_rate
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (singleton) DO UPDATE SET
			office_start = EXCLUDED.office_start,
			office_end = EXCLUDED.office_end,
			break_start = EXCLUDED.break_start,
			break_end = EXCLUDED.break_end,
			early_time_in_threshold = EXCLUDED.early_time_in_threshold,
			early_time_out_threshold = EXCLUDED.early_time_out_threshold,
			half_day_threshold = EXCLUDED.half_day_threshold,
			grace_period = EXCLUDED.grace_period,
			deduction_rate = EXCLUDED.deduction_rate,
			updated_at = NOW()
		RETURNING id, office_start, office_end, break_start, break_end,
			early_time_in_threshold, early_time_out_threshold, half_day_threshold,
			grace_period, deduction_rate, updated_at
	`

	saved, err := scanSettings(q.QueryRow(ctx, query,
		id.String(),
		toPgTime(&s.OfficeStart),
		toPgTime(&s.OfficeEnd),
		toPgTime(&s.BreakStart),
		toPgTime(&s.BreakEnd),
		toPgTime(&s.EarlyTimeInThreshold),
		toPgTime(&s.EarlyTimeOutThreshold),
		toPgTime(&s.HalfDayThreshold),
		s.GracePeriod,
		s.DeductionRate,
	))
	if err != nil {
		return attendance.Settings{}, fmt.Errorf("failed to save attendance settings: %w", err)
	}
	return saved, nil
}
