package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const attendanceColumns = `
	a.id, a.employee_id, a.date,
	a.morning_time_in, a.morning_time_out, a.afternoon_time_in, a.afternoon_time_out,
	a.status, a.late_hours, a.late_deduction, a.worked_hours,
	a.created_at, a.updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// scanAttendance reads attendanceColumns plus any trailing destinations.
func scanAttendance(row pgx.Row, extra ...interface{}) (attendance.Attendance, error) {
	var (
		att                       attendance.Attendance
		status                    string
		morningIn, morningOut     pgtype.Time
		afternoonIn, afternoonOut pgtype.Time
	)
	dest := []interface{}{
		&att.ID, &att.EmployeeID, &att.Date,
		&morningIn, &morningOut, &afternoonIn, &afternoonOut,
		&status, &att.LateHours, &att.LateDeduction, &att.WorkedHours,
		&att.CreatedAt, &att.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return attendance.Attendance{}, err
	}

	att.Status = attendance.Status(status)
	att.MorningTimeIn = fromPgTime(morningIn)
	att.MorningTimeOut = fromPgTime(morningOut)
	att.AfternoonTimeIn = fromPgTime(afternoonIn)
	att.AfternoonTimeOut = fromPgTime(afternoonOut)
	return att, nil
}

func (a *attendanceRepository) queryList(ctx context.Context, query string, args ...interface{}) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return attendances, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	query := `
		INSERT INTO attendances (
			id, employee_id, date,
			morning_time_in, morning_time_out, afternoon_time_in, afternoon_time_out,
			status, late_hours, late_deduction, worked_hours
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		id.String(),
		newAttendance.EmployeeID,
		dateParam(newAttendance.Date),
		toPgTime(newAttendance.MorningTimeIn),
		toPgTime(newAttendance.MorningTimeOut),
		toPgTime(newAttendance.AfternoonTimeIn),
		toPgTime(newAttendance.AfternoonTimeOut),
		string(newAttendance.Status),
		newAttendance.LateHours,
		newAttendance.LateDeduction,
		newAttendance.WorkedHours,
	).Scan(&newAttendance.ID, &newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		if database.IsUniqueViolation(err) {
			return attendance.Attendance{}, fmt.Errorf("%w: employee %s on %s",
				attendance.ErrAttendanceConflict, newAttendance.EmployeeID, newAttendance.Date.Format("2006-01-02"))
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			employee_id = $2,
			date = $3,
			morning_time_in = $4,
			morning_time_out = $5,
			afternoon_time_in = $6,
			afternoon_time_out = $7,
			status = $8,
			late_hours = $9,
			late_deduction = $10,
			worked_hours = $11,
			updated_at = NOW()
		WHERE id = $1 AND updated_at = $12
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		att.ID,
		att.EmployeeID,
		dateParam(att.Date),
		toPgTime(att.MorningTimeIn),
		toPgTime(att.MorningTimeOut),
		toPgTime(att.AfternoonTimeIn),
		toPgTime(att.AfternoonTimeOut),
		string(att.Status),
		att.LateHours,
		att.LateDeduction,
		att.WorkedHours,
		att.UpdatedAt,
	).Scan(&att.UpdatedAt)

	if err == nil {
		return att, nil
	}
	if database.IsUniqueViolation(err) {
		return attendance.Attendance{}, fmt.Errorf("%w: employee %s on %s",
			attendance.ErrAttendanceConflict, att.EmployeeID, att.Date.Format("2006-01-02"))
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	// No row matched: either the record is gone or someone updated it first.
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM attendances WHERE id = $1)`, att.ID).Scan(&exists); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to check attendance: %w", err)
	}
	if !exists {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return attendance.Attendance{}, fmt.Errorf("%w: record %s changed since it was read", attendance.ErrAttendanceConflict, att.ID)
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `, e.full_name
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`

	var employeeName *string
	att, err := scanAttendance(q.QueryRow(ctx, query, id), &employeeName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	att.EmployeeName = employeeName

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date = $2
		FOR UPDATE
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, dateParam(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// GetOpenSession implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetOpenSession(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1
		  AND a.date = $2
		  AND (
			(a.morning_time_in IS NOT NULL AND a.morning_time_out IS NULL)
			OR (a.afternoon_time_in IS NOT NULL AND a.afternoon_time_out IS NULL)
		  )
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, dateParam(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}

	return &att, nil
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.date = $1
		ORDER BY a.employee_id
	`
	return a.queryList(ctx, query, dateParam(date))
}

// ListByEmployeeAndRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1
		  AND a.date >= $2
		  AND a.date <= $3
		ORDER BY a.date
	`
	return a.queryList(ctx, query, employeeID, dateParam(start), dateParam(end))
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}

	// Date range filters
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := `SELECT COUNT(*) FROM attendances a WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	// Build ORDER BY
	orderByField := "a.date"
	switch filter.SortBy {
	case "employee_id":
		orderByField = "a.employee_id"
	case "status":
		orderByField = "a.status"
	case "late_hours":
		orderByField = "a.late_hours"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s, e.full_name
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY %s %s, a.id
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var employeeName *string
		att, err := scanAttendance(rows, &employeeName)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		att.EmployeeName = employeeName
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, total, nil
}

// BulkCreateAbsences implements attendance.AttendanceRepository.
func (a *attendanceRepository) BulkCreateAbsences(ctx context.Context, records []attendance.Attendance) ([]string, error) {
	inserted := []string{}
	if len(records) == 0 {
		return inserted, nil
	}
	q := GetQuerier(ctx, a.db)

	var (
		values []string
		args   []interface{}
	)
	for i, rec := range records {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate attendance id: %w", err)
		}
		base := i * 6
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, 0)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args, id.String(), rec.EmployeeID, dateParam(rec.Date),
			string(rec.Status), rec.LateHours, rec.LateDeduction)
	}

	query := `
		INSERT INTO attendances (id, employee_id, date, status, late_hours, late_deduction, worked_hours)
		VALUES ` + strings.Join(values, ", ") + `
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING employee_id
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert absences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var employeeID string
		if err := rows.Scan(&employeeID); err != nil {
			return nil, fmt.Errorf("failed to scan inserted absence: %w", err)
		}
		inserted = append(inserted, employeeID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to insert absences: %w", err)
	}

	return inserted, nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
