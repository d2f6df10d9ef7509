package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, full_name, position, salary, hire_date, employment_status,
			   commission, profit_sharing, fees, thirteenth_month_pay, hazard_pay,
			   other_taxable, de_minimis, regular_overtime_hours, holiday_overtime_hours,
			   created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	var (
		emp    employee.Employee
		status string
	)
	sup := &emp.Supplementary
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.Position, &emp.Salary, &emp.HireDate, &status,
		&sup.Commission, &sup.ProfitSharing, &sup.Fees, &sup.ThirteenthMonthPay, &sup.HazardPay,
		&sup.OtherTaxable, &sup.DeMinimis, &sup.RegularOvertimeHours, &sup.HolidayOvertimeHours,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	emp.EmploymentStatus = employee.EmploymentStatus(status)

	return emp, nil
}

// ListActiveIDs implements employee.EmployeeRepository.
func (r *employeeRepository) ListActiveIDs(ctx context.Context, hiredBy time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id
		FROM employees
		WHERE employment_status = $1
		  AND hire_date <= $2
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, string(employee.EmploymentStatusActive), dateParam(hiredBy))
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan employee id: %w", err)
	}
	return ids, nil
}

// GetPositionHistory implements employee.EmployeeRepository.
func (r *employeeRepository) GetPositionHistory(ctx context.Context, employeeID string) ([]employee.PositionRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, position, salary, start_date, end_date, created_at
		FROM position_history
		WHERE employee_id = $1
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query position history: %w", err)
	}
	defer rows.Close()

	var history []employee.PositionRecord
	for rows.Next() {
		var rec employee.PositionRecord
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Position, &rec.Salary,
			&rec.StartDate, &rec.EndDate, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan position history: %w", err)
		}
		history = append(history, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate position history: %w", err)
	}

	return history, nil
}

// ClosePosition implements employee.EmployeeRepository.
func (r *employeeRepository) ClosePosition(ctx context.Context, id string, endDate time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE position_history SET end_date = $2 WHERE id = $1`, id, dateParam(endDate))
	if err != nil {
		return fmt.Errorf("failed to close position: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("position history entry %s not found", id)
	}
	return nil
}

// AddPosition implements employee.EmployeeRepository.
func (r *employeeRepository) AddPosition(ctx context.Context, rec employee.PositionRecord) (employee.PositionRecord, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return employee.PositionRecord{}, fmt.Errorf("failed to generate position id: %w", err)
	}

	query := `
		INSERT INTO position_history (id, employee_id, position, salary, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err = q.QueryRow(ctx, query,
		id.String(), rec.EmployeeID, rec.Position, rec.Salary,
		dateParam(rec.StartDate), optionalDateParam(rec.EndDate),
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return employee.PositionRecord{}, fmt.Errorf("failed to insert position history: %w", err)
	}

	if rec.EndDate == nil {
		_, err = q.Exec(ctx, `
			UPDATE employees SET position = $2, salary = $3, updated_at = NOW()
			WHERE id = $1
		`, rec.EmployeeID, rec.Position, rec.Salary)
		if err != nil {
			return employee.PositionRecord{}, fmt.Errorf("failed to update employee position: %w", err)
		}
	}

	return rec, nil
}
