package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== PAY HEADS ==========

const payHeadColumns = `
	id, employee_id, name, amount, type, is_recurring, is_attendance_affected,
	effective_date, end_date, created_at, updated_at`

func scanPayHead(row pgx.Row) (payroll.PayHead, error) {
	var (
		h        payroll.PayHead
		headType string
	)
	err := row.Scan(
		&h.ID, &h.EmployeeID, &h.Name, &h.Amount, &headType, &h.IsRecurring, &h.IsAttendanceAffected,
		&h.EffectiveDate, &h.EndDate, &h.CreatedAt, &h.UpdatedAt,
	)
	h.Type = payroll.PayHeadType(headType)
	return h, err
}

func (r *payrollRepository) queryPayHeads(ctx context.Context, query string, args ...interface{}) ([]payroll.PayHead, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pay heads: %w", err)
	}
	defer rows.Close()

	var heads []payroll.PayHead
	for rows.Next() {
		h, err := scanPayHead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pay head: %w", err)
		}
		heads = append(heads, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pay heads: %w", err)
	}
	return heads, nil
}

func (r *payrollRepository) CreatePayHead(ctx context.Context, head payroll.PayHead) (payroll.PayHead, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.PayHead{}, fmt.Errorf("failed to generate pay head id: %w", err)
	}

	query := `
		INSERT INTO pay_heads (
			id, employee_id, name, amount, type, is_recurring, is_attendance_affected,
			effective_date, end_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + payHeadColumns

	created, err := scanPayHead(q.QueryRow(ctx, query,
		id.String(), head.EmployeeID, head.Name, head.Amount, string(head.Type),
		head.IsRecurring, head.IsAttendanceAffected,
		dateParam(head.EffectiveDate), optionalDateParam(head.EndDate),
	))
	if err != nil {
		return payroll.PayHead{}, fmt.Errorf("failed to create pay head: %w", err)
	}
	return created, nil
}

func (r *payrollRepository) ListPayHeads(ctx context.Context, filter payroll.PayHeadFilter) ([]payroll.PayHead, error) {
	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Type != nil && *filter.Type != "" {
		baseWhere += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, *filter.Type)
	}

	query := `SELECT ` + payHeadColumns + ` FROM pay_heads WHERE ` + baseWhere +
		` ORDER BY effective_date DESC, name`
	return r.queryPayHeads(ctx, query, args...)
}

func (r *payrollRepository) GetPayHeadsForEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]payroll.PayHead, error) {
	query := `
		SELECT ` + payHeadColumns + `
		FROM pay_heads
		WHERE (employee_id = $1 OR employee_id IS NULL)
		  AND effective_date <= $3
		  AND (end_date IS NULL OR end_date >= $2)
		ORDER BY effective_date, name
	`
	return r.queryPayHeads(ctx, query, employeeID, dateParam(start), dateParam(end))
}

func (r *payrollRepository) DeletePayHead(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM pay_heads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pay head: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayHeadNotFound
	}
	return nil
}

// ========== PAYSLIPS ==========

const payslipColumns = `
	id, employee_id, salary_month, payday_type, pay_date, position, salary,
	gross_earnings, total_deductions, net_salary, breakdown, created_at, updated_at`

func scanPayslip(row pgx.Row, extra ...interface{}) (payroll.Payslip, error) {
	var (
		p          payroll.Payslip
		paydayType string
		breakdown  []byte
	)
	dest := []interface{}{
		&p.ID, &p.EmployeeID, &p.SalaryMonth, &paydayType, &p.PayDate, &p.Position, &p.Salary,
		&p.GrossEarnings, &p.TotalDeductions, &p.NetSalary, &breakdown, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return payroll.Payslip{}, err
	}
	p.PaydayType = payroll.PaydayType(paydayType)

	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &p.Breakdown); err != nil {
			return payroll.Payslip{}, fmt.Errorf("failed to decode payslip breakdown: %w", err)
		}
	}
	return p, nil
}

func (r *payrollRepository) UpsertPayslip(ctx context.Context, payslip payroll.Payslip) (payroll.Payslip, bool, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.Payslip{}, false, fmt.Errorf("failed to generate payslip id: %w", err)
	}

	breakdown, err := json.Marshal(payslip.Breakdown)
	if err != nil {
		return payroll.Payslip{}, false, fmt.Errorf("failed to encode payslip breakdown: %w", err)
	}

	// xmax is zero only for freshly inserted rows.
	query := `
		INSERT INTO payslips (
			id, employee_id, salary_month, payday_type, pay_date, position, salary,
			gross_earnings, total_deductions, net_salary, breakdown
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (employee_id, salary_month, payday_type) DO UPDATE SET
			pay_date = EXCLUDED.pay_date,
			position = EXCLUDED.position,
			salary = EXCLUDED.salary,
			gross_earnings = EXCLUDED.gross_earnings,
			total_deductions = EXCLUDED.total_deductions,
			net_salary = EXCLUDED.net_salary,
			breakdown = EXCLUDED.breakdown,
			updated_at = NOW()
		RETURNING ` + payslipColumns + `, (xmax = 0) AS created`

	var created bool
	saved, err := scanPayslip(q.QueryRow(ctx, query,
		id.String(), payslip.EmployeeID, payslip.SalaryMonth, string(payslip.PaydayType),
		dateParam(payslip.PayDate), payslip.Position, payslip.Salary,
		payslip.GrossEarnings, payslip.TotalDeductions, payslip.NetSalary, breakdown,
	), &created)
	if err != nil {
		return payroll.Payslip{}, false, fmt.Errorf("failed to save payslip: %w", err)
	}
	return saved, created, nil
}

func (r *payrollRepository) ListPayslips(ctx context.Context, filter payroll.PayslipFilter) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.SalaryMonth != nil && *filter.SalaryMonth != "" {
		baseWhere += fmt.Sprintf(" AND salary_month = $%d", argIdx)
		args = append(args, *filter.SalaryMonth)
	}

	query := `SELECT ` + payslipColumns + ` FROM payslips WHERE ` + baseWhere +
		` ORDER BY salary_month DESC, pay_date DESC, employee_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payslips: %w", err)
	}
	return payslips, nil
}

func (r *payrollRepository) GetPayslipByID(ctx context.Context, id string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payslipColumns + ` FROM payslips WHERE id = $1`
	p, err := scanPayslip(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}
	return p, nil
}

func (r *payrollRepository) DeletePayslip(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payslips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payslip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayslipNotFound
	}
	return nil
}
