package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// aggregateConcurrency bounds the number of employees aggregated at once.
const aggregateConcurrency = 8

type PayrollServiceImpl struct {
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	table          payroll.ContributionTable
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	table payroll.ContributionTable,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		table:          table,
	}
}

// ========== AGGREGATION ==========

// AggregateDeductions implements payroll.PayrollService.
func (s *PayrollServiceImpl) AggregateDeductions(ctx context.Context, req payroll.AggregateRequest) (payroll.DeductionBreakdown, error) {
	if err := req.Validate(); err != nil {
		return payroll.DeductionBreakdown{}, err
	}

	breakdown, _, err := s.aggregate(ctx, req)
	return breakdown, err
}

// aggregate loads the inputs for one employee and period, validates the
// requested position and salary, and returns the breakdown with the position used.
func (s *PayrollServiceImpl) aggregate(ctx context.Context, req payroll.AggregateRequest) (payroll.DeductionBreakdown, employee.PositionRecord, error) {
	period, err := payroll.NewPeriod(req.SalaryMonth, payroll.PaydayType(req.PaydayType))
	if err != nil {
		return payroll.DeductionBreakdown{}, employee.PositionRecord{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.DeductionBreakdown{}, employee.PositionRecord{}, err
	}

	payDate := period.End
	if req.PayDate != nil {
		payDate, _ = time.Parse("2006-01-02", *req.PayDate)
	}
	if payDate.Before(emp.HireDate) {
		return payroll.DeductionBreakdown{}, employee.PositionRecord{}, fmt.Errorf("%w: pay date %s is before hire date %s",
			payroll.ErrInvalidDateRange, payDate.Format("2006-01-02"), emp.HireDate.Format("2006-01-02"))
	}
	if !period.InMonth(payDate) {
		return payroll.DeductionBreakdown{}, employee.PositionRecord{}, fmt.Errorf("%w: pay date %s is outside salary month %s",
			payroll.ErrInvalidDateRange, payDate.Format("2006-01-02"), period.SalaryMonth)
	}

	history, err := s.employeeRepo.GetPositionHistory(ctx, emp.ID)
	if err != nil {
		return payroll.DeductionBreakdown{}, employee.PositionRecord{}, fmt.Errorf("failed to get position history: %w", err)
	}
	position := employee.ActivePositionAt(emp, history, payDate)

	if err := checkPosition(position, req.Position, req.Salary); err != nil {
		slog.Warn("Payslip position mismatch", "employee_id", emp.ID, "salary_month", period.SalaryMonth, "error", err)
		return payroll.DeductionBreakdown{}, employee.PositionRecord{}, err
	}

	records, err := s.attendanceRepo.ListByEmployeeAndRange(ctx, emp.ID, period.MonthStart, period.MonthEnd)
	if err != nil {
		return payroll.DeductionBreakdown{}, employee.PositionRecord{}, fmt.Errorf("failed to get attendance records: %w", err)
	}

	heads, err := s.payrollRepo.GetPayHeadsForEmployee(ctx, emp.ID, period.MonthStart, period.MonthEnd)
	if err != nil {
		return payroll.DeductionBreakdown{}, employee.PositionRecord{}, fmt.Errorf("failed to get pay heads: %w", err)
	}

	breakdown := AggregateDeductions(AggregateInput{
		EmployeeID:    emp.ID,
		Position:      position,
		Supplementary: emp.Supplementary,
		Records:       records,
		PayHeads:      heads,
		Period:        period,
		Table:         s.table,
	})
	return breakdown, position, nil
}

func checkPosition(expected employee.PositionRecord, position, salary *string) error {
	mismatch := false
	received := &payroll.PositionSalaryMismatchError{
		ExpectedPosition: expected.Position,
		ExpectedSalary:   expected.Salary,
		ReceivedPosition: expected.Position,
		ReceivedSalary:   expected.Salary,
	}

	if position != nil && *position != expected.Position {
		mismatch = true
		received.ReceivedPosition = *position
	}
	if salary != nil {
		amount, err := decimal.NewFromString(*salary)
		if err != nil {
			return fmt.Errorf("%w: invalid salary %q", payroll.ErrPositionSalaryMismatch, *salary)
		}
		if !amount.Equal(expected.Salary) {
			mismatch = true
			received.ReceivedSalary = amount
		}
	}

	if mismatch {
		return received
	}
	return nil
}

// AggregatePeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) AggregatePeriod(ctx context.Context, req payroll.BulkAggregateRequest) (payroll.BulkAggregateResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BulkAggregateResponse{}, err
	}

	period, err := payroll.NewPeriod(req.SalaryMonth, payroll.PaydayType(req.PaydayType))
	if err != nil {
		return payroll.BulkAggregateResponse{}, err
	}

	ids, err := s.employeeRepo.ListActiveIDs(ctx, period.End)
	if err != nil {
		return payroll.BulkAggregateResponse{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	breakdowns := make([]payroll.DeductionBreakdown, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(aggregateConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			b, _, err := s.aggregate(gctx, payroll.AggregateRequest{
				EmployeeID:  id,
				SalaryMonth: req.SalaryMonth,
				PaydayType:  req.PaydayType,
			})
			if err != nil {
				return fmt.Errorf("employee %s: %w", id, err)
			}
			breakdowns[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.BulkAggregateResponse{}, err
	}

	total := decimal.Zero
	for _, b := range breakdowns {
		total = total.Add(b.NetSalary)
	}

	slog.Info("Aggregated payroll period", "salary_month", req.SalaryMonth, "payday_type", req.PaydayType, "employees", len(breakdowns))

	return payroll.BulkAggregateResponse{
		SalaryMonth:    req.SalaryMonth,
		PaydayType:     req.PaydayType,
		Count:          len(breakdowns),
		TotalNetSalary: total.StringFixed(2),
		Breakdowns:     breakdowns,
	}, nil
}

// ContributionRates implements payroll.PayrollService.
func (s *PayrollServiceImpl) ContributionRates(ctx context.Context, employeeID string) (payroll.ContributionRatesResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.ContributionRatesResponse{}, err
	}

	sss, philHealth, pagIBIG, total := NewContributionCalculator(s.table).Statutory(emp.Salary)
	return payroll.ContributionRatesResponse{
		EmployeeID: emp.ID,
		Salary:     emp.Salary.StringFixed(2),
		SSS:        sss.StringFixed(2),
		PhilHealth: philHealth.StringFixed(2),
		PagIBIG:    pagIBIG.StringFixed(2),
		Total:      total.StringFixed(2),
	}, nil
}

// ========== PAYSLIPS ==========

// GeneratePayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) GeneratePayslip(ctx context.Context, req payroll.GeneratePayslipRequest) (payroll.PayslipResponse, bool, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayslipResponse{}, false, err
	}

	breakdown, position, err := s.aggregate(ctx, req.AggregateRequest)
	if err != nil {
		return payroll.PayslipResponse{}, false, err
	}

	payDate, _ := time.Parse("2006-01-02", *req.PayDate)
	saved, created, err := s.payrollRepo.UpsertPayslip(ctx, payroll.Payslip{
		EmployeeID:      req.EmployeeID,
		SalaryMonth:     req.SalaryMonth,
		PaydayType:      payroll.PaydayType(req.PaydayType),
		PayDate:         payDate,
		Position:        position.Position,
		Salary:          position.Salary,
		GrossEarnings:   breakdown.GrossEarnings,
		TotalDeductions: breakdown.TotalDeductions,
		NetSalary:       breakdown.NetSalary,
		Breakdown:       breakdown,
	})
	if err != nil {
		return payroll.PayslipResponse{}, false, fmt.Errorf("failed to save payslip: %w", err)
	}

	slog.Info("Payslip generated",
		"employee_id", saved.EmployeeID,
		"salary_month", saved.SalaryMonth,
		"payday_type", saved.PaydayType,
		"created", created,
		"net_salary", saved.NetSalary.StringFixed(2),
	)

	return mapPayslipToResponse(saved), created, nil
}

// ListPayslips implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPayslips(ctx context.Context, filter payroll.PayslipFilter) ([]payroll.PayslipResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	payslips, err := s.payrollRepo.ListPayslips(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}

	responses := make([]payroll.PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		responses = append(responses, mapPayslipToResponse(p))
	}
	return responses, nil
}

// GetPayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	p, err := s.payrollRepo.GetPayslipByID(ctx, id)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return mapPayslipToResponse(p), nil
}

// DeletePayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) DeletePayslip(ctx context.Context, id string) error {
	return s.payrollRepo.DeletePayslip(ctx, id)
}

// ========== PAY HEADS ==========

// CreatePayHead implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreatePayHead(ctx context.Context, req payroll.CreatePayHeadRequest) (payroll.PayHeadResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayHeadResponse{}, err
	}

	if req.EmployeeID != nil {
		if _, err := s.employeeRepo.GetByID(ctx, *req.EmployeeID); err != nil {
			return payroll.PayHeadResponse{}, err
		}
	}

	amount, _ := decimal.NewFromString(req.Amount)
	effective, _ := time.Parse("2006-01-02", req.EffectiveDate)
	head := payroll.PayHead{
		EmployeeID:           req.EmployeeID,
		Name:                 req.Name,
		Amount:               amount,
		Type:                 payroll.PayHeadType(req.Type),
		IsRecurring:          req.IsRecurring,
		IsAttendanceAffected: req.IsAttendanceAffected,
		EffectiveDate:        effective,
	}
	if req.EndDate != nil {
		end, _ := time.Parse("2006-01-02", *req.EndDate)
		head.EndDate = &end
	}

	created, err := s.payrollRepo.CreatePayHead(ctx, head)
	if err != nil {
		return payroll.PayHeadResponse{}, fmt.Errorf("failed to create pay head: %w", err)
	}
	return mapPayHeadToResponse(created), nil
}

// ListPayHeads implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPayHeads(ctx context.Context, filter payroll.PayHeadFilter) ([]payroll.PayHeadResponse, error) {
	heads, err := s.payrollRepo.ListPayHeads(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay heads: %w", err)
	}

	responses := make([]payroll.PayHeadResponse, 0, len(heads))
	for _, h := range heads {
		responses = append(responses, mapPayHeadToResponse(h))
	}
	return responses, nil
}

// DeletePayHead implements payroll.PayrollService.
func (s *PayrollServiceImpl) DeletePayHead(ctx context.Context, id string) error {
	if err := s.payrollRepo.DeletePayHead(ctx, id); err != nil {
		if errors.Is(err, payroll.ErrPayHeadNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete pay head: %w", err)
	}
	return nil
}

// ========== MAPPERS ==========

func mapPayslipToResponse(p payroll.Payslip) payroll.PayslipResponse {
	return payroll.PayslipResponse{
		ID:              p.ID,
		EmployeeID:      p.EmployeeID,
		SalaryMonth:     p.SalaryMonth,
		PaydayType:      string(p.PaydayType),
		PayDate:         p.PayDate.Format("2006-01-02"),
		Position:        p.Position,
		Salary:          p.Salary.StringFixed(2),
		GrossEarnings:   p.GrossEarnings.StringFixed(2),
		TotalDeductions: p.TotalDeductions.StringFixed(2),
		NetSalary:       p.NetSalary.StringFixed(2),
		Breakdown:       p.Breakdown,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       p.UpdatedAt.Format(time.RFC3339),
	}
}

func mapPayHeadToResponse(h payroll.PayHead) payroll.PayHeadResponse {
	resp := payroll.PayHeadResponse{
		ID:                   h.ID,
		EmployeeID:           h.EmployeeID,
		Name:                 h.Name,
		Amount:               h.Amount.StringFixed(2),
		Type:                 string(h.Type),
		IsRecurring:          h.IsRecurring,
		IsAttendanceAffected: h.IsAttendanceAffected,
		EffectiveDate:        h.EffectiveDate.Format("2006-01-02"),
	}
	if h.EndDate != nil {
		end := h.EndDate.Format("2006-01-02")
		resp.EndDate = &end
	}
	return resp
}
