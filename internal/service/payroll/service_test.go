package payroll

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKES =====

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees map[string]employee.Employee
	history   map[string][]employee.PositionRecord
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) ListActiveIDs(ctx context.Context, hiredBy time.Time) ([]string, error) {
	var ids []string
	for id, emp := range f.employees {
		if emp.EmploymentStatus == employee.EmploymentStatusActive && !emp.HireDate.After(hiredBy) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeEmployeeRepo) GetPositionHistory(ctx context.Context, employeeID string) ([]employee.PositionRecord, error) {
	return f.history[employeeID], nil
}

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	records []attendance.Attendance
}

func (f *fakeAttendanceRepo) ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && !rec.Date.Before(start) && !rec.Date.After(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakePayrollRepo struct {
	mu       sync.Mutex
	heads    []payroll.PayHead
	payslips map[string]payroll.Payslip
	nextID   int
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{payslips: make(map[string]payroll.Payslip)}
}

func (f *fakePayrollRepo) CreatePayHead(ctx context.Context, head payroll.PayHead) (payroll.PayHead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	head.ID = "head-" + strconv.Itoa(f.nextID)
	f.heads = append(f.heads, head)
	return head, nil
}

func (f *fakePayrollRepo) ListPayHeads(ctx context.Context, filter payroll.PayHeadFilter) ([]payroll.PayHead, error) {
	return f.heads, nil
}

func (f *fakePayrollRepo) GetPayHeadsForEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]payroll.PayHead, error) {
	var out []payroll.PayHead
	for _, h := range f.heads {
		if (h.EmployeeID == nil || *h.EmployeeID == employeeID) && h.ActiveBetween(start, end) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakePayrollRepo) DeletePayHead(ctx context.Context, id string) error {
	for i, h := range f.heads {
		if h.ID == id {
			f.heads = append(f.heads[:i], f.heads[i+1:]...)
			return nil
		}
	}
	return payroll.ErrPayHeadNotFound
}

func (f *fakePayrollRepo) UpsertPayslip(ctx context.Context, p payroll.Payslip) (payroll.Payslip, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := p.EmployeeID + "|" + p.SalaryMonth + "|" + string(p.PaydayType)
	existing, ok := f.payslips[key]
	if ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = key
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = time.Now()
	f.payslips[key] = p
	return p, !ok, nil
}

func (f *fakePayrollRepo) ListPayslips(ctx context.Context, filter payroll.PayslipFilter) ([]payroll.Payslip, error) {
	var out []payroll.Payslip
	for _, p := range f.payslips {
		if filter.EmployeeID != nil && p.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePayrollRepo) GetPayslipByID(ctx context.Context, id string) (payroll.Payslip, error) {
	p, ok := f.payslips[id]
	if !ok {
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}
	return p, nil
}

func (f *fakePayrollRepo) DeletePayslip(ctx context.Context, id string) error {
	if _, ok := f.payslips[id]; !ok {
		return payroll.ErrPayslipNotFound
	}
	delete(f.payslips, id)
	return nil
}

// ===== FIXTURES =====

func strPtr(s string) *string { return &s }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newTestService has emp-1 hired 2025-06-01 as Engineer at 20000 and
// promoted to Senior Engineer at 30000 from 2026-03-10.
func newTestService() (payroll.PayrollService, *fakePayrollRepo) {
	promoted := date(2026, 3, 9)
	employees := &fakeEmployeeRepo{
		employees: map[string]employee.Employee{
			"emp-1": {
				ID: "emp-1", FullName: "Ana Cruz", Position: "Senior Engineer", Salary: amount("30000"),
				HireDate: date(2025, 6, 1), EmploymentStatus: employee.EmploymentStatusActive,
			},
			"emp-2": {
				ID: "emp-2", FullName: "Ben Reyes", Position: "Analyst", Salary: amount("20000"),
				HireDate: date(2026, 3, 20), EmploymentStatus: employee.EmploymentStatusActive,
			},
			"emp-3": {
				ID: "emp-3", FullName: "Carla Diaz", Position: "Clerk", Salary: amount("15000"),
				HireDate: date(2020, 1, 1), EmploymentStatus: employee.EmploymentStatusInactive,
			},
		},
		history: map[string][]employee.PositionRecord{
			"emp-1": {
				{ID: "pos-1", EmployeeID: "emp-1", Position: "Engineer", Salary: amount("20000"), StartDate: date(2025, 6, 1), EndDate: &promoted},
				{ID: "pos-2", EmployeeID: "emp-1", Position: "Senior Engineer", Salary: amount("30000"), StartDate: date(2026, 3, 10)},
			},
		},
	}
	records := &fakeAttendanceRepo{records: []attendance.Attendance{
		late(3, 2),
		absent(20),
	}}
	repo := newFakePayrollRepo()
	return NewPayrollService(repo, employees, records, payroll.DefaultContributionTable()), repo
}

// ===== AGGREGATION =====

func TestPayrollService_AggregateDeductions_UsesPositionAtPayDate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	early, err := svc.AggregateDeductions(ctx, payroll.AggregateRequest{
		EmployeeID:  "emp-1",
		SalaryMonth: "2026-03",
		PaydayType:  string(payroll.PaydayMidMonth),
		PayDate:     strPtr("2026-03-05"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Engineer", early.Position)
	assertAmount(t, "20000", early.MonthlySalary)
	assertAmount(t, "75", early.LateDeductions)

	endOfMonth, err := svc.AggregateDeductions(ctx, payroll.AggregateRequest{
		EmployeeID:  "emp-1",
		SalaryMonth: "2026-03",
		PaydayType:  string(payroll.PaydayEndOfMonth),
	})
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", endOfMonth.Position)
	assertAmount(t, "30000", endOfMonth.MonthlySalary)
	assertAmount(t, "300", endOfMonth.LateDeductions)
	assert.Equal(t, 1, endOfMonth.AbsentDays)
}

func TestPayrollService_AggregateDeductions_PositionMismatch(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AggregateDeductions(context.Background(), payroll.AggregateRequest{
		EmployeeID:  "emp-1",
		SalaryMonth: "2026-03",
		PaydayType:  string(payroll.PaydayMidMonth),
		PayDate:     strPtr("2026-03-05"),
		Position:    strPtr("Senior Engineer"),
		Salary:      strPtr("30000"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, payroll.ErrPositionSalaryMismatch))

	var mismatch *payroll.PositionSalaryMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "Engineer", mismatch.ExpectedPosition)
	assert.Equal(t, "Senior Engineer", mismatch.ReceivedPosition)
	assertAmount(t, "20000", mismatch.ExpectedSalary)
	assertAmount(t, "30000", mismatch.ReceivedSalary)
}

func TestPayrollService_AggregateDeductions_MatchingPositionAccepted(t *testing.T) {
	svc, _ := newTestService()

	b, err := svc.AggregateDeductions(context.Background(), payroll.AggregateRequest{
		EmployeeID:  "emp-1",
		SalaryMonth: "2026-03",
		PaydayType:  string(payroll.PaydayFullMonth),
		PayDate:     strPtr("2026-03-31"),
		Position:    strPtr("Senior Engineer"),
		Salary:      strPtr("30000.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", b.Position)
}

func TestPayrollService_AggregateDeductions_InvalidDateRange(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  payroll.AggregateRequest
	}{
		{
			name: "pay date before hire date",
			req: payroll.AggregateRequest{
				EmployeeID: "emp-2", SalaryMonth: "2026-03", PaydayType: string(payroll.PaydayMidMonth),
			},
		},
		{
			name: "pay date outside salary month",
			req: payroll.AggregateRequest{
				EmployeeID: "emp-1", SalaryMonth: "2026-03", PaydayType: string(payroll.PaydayFullMonth),
				PayDate: strPtr("2026-04-01"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AggregateDeductions(ctx, tt.req)
			assert.ErrorIs(t, err, payroll.ErrInvalidDateRange)
		})
	}
}

func TestPayrollService_AggregateDeductions_Validation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AggregateDeductions(context.Background(), payroll.AggregateRequest{
		SalaryMonth: "March",
		PaydayType:  "weekly",
	})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := verrs.ToMap()
	assert.Contains(t, fields, "employee_id")
	assert.Contains(t, fields, "salary_month")
	assert.Contains(t, fields, "payday_type")
}

func TestPayrollService_AggregateDeductions_UnknownEmployee(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AggregateDeductions(context.Background(), payroll.AggregateRequest{
		EmployeeID: "nobody", SalaryMonth: "2026-03", PaydayType: string(payroll.PaydayFullMonth),
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestPayrollService_AggregatePeriod(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.AggregatePeriod(context.Background(), payroll.BulkAggregateRequest{
		SalaryMonth: "2026-03",
		PaydayType:  string(payroll.PaydayEndOfMonth),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count, "inactive employees are skipped")
	require.Len(t, resp.Breakdowns, 2)

	total := amount("0")
	for _, b := range resp.Breakdowns {
		total = total.Add(b.NetSalary)
	}
	assert.Equal(t, total.StringFixed(2), resp.TotalNetSalary)
}

func TestPayrollService_ContributionRates(t *testing.T) {
	svc, _ := newTestService()

	rates, err := svc.ContributionRates(context.Background(), "emp-2")
	require.NoError(t, err)
	assert.Equal(t, "889.00", rates.SSS)
	assert.Equal(t, "500.00", rates.PhilHealth)
	assert.Equal(t, "100.00", rates.PagIBIG)
	assert.Equal(t, "1489.00", rates.Total)
}

// ===== PAYSLIPS =====

func TestPayrollService_GeneratePayslip_Upserts(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	req := payroll.GeneratePayslipRequest{AggregateRequest: payroll.AggregateRequest{
		EmployeeID:  "emp-1",
		SalaryMonth: "2026-03",
		PaydayType:  string(payroll.PaydayEndOfMonth),
		PayDate:     strPtr("2026-03-31"),
		Position:    strPtr("Senior Engineer"),
		Salary:      strPtr("30000"),
	}}

	first, created, err := svc.GeneratePayslip(ctx, req)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "2026-03-31", first.PayDate)
	assert.Equal(t, "Senior Engineer", first.Position)
	assert.Equal(t, first.Breakdown.NetSalary.StringFixed(2), first.NetSalary)

	second, created, err := svc.GeneratePayslip(ctx, req)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.payslips, 1)

	got, err := svc.GetPayslip(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.NetSalary, got.NetSalary)

	list, err := svc.ListPayslips(ctx, payroll.PayslipFilter{EmployeeID: strPtr("emp-1")})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeletePayslip(ctx, first.ID))
	_, err = svc.GetPayslip(ctx, first.ID)
	assert.ErrorIs(t, err, payroll.ErrPayslipNotFound)
}

func TestPayrollService_GeneratePayslip_RequiresPositionAndSalary(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.GeneratePayslip(context.Background(), payroll.GeneratePayslipRequest{AggregateRequest: payroll.AggregateRequest{
		EmployeeID:  "emp-1",
		SalaryMonth: "2026-03",
		PaydayType:  string(payroll.PaydayEndOfMonth),
	}})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := verrs.ToMap()
	assert.Contains(t, fields, "pay_date")
	assert.Contains(t, fields, "position")
	assert.Contains(t, fields, "salary")
}

// ===== PAY HEADS =====

func TestPayrollService_PayHeadsFlowIntoAggregation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	head, err := svc.CreatePayHead(ctx, payroll.CreatePayHeadRequest{
		EmployeeID:    strPtr("emp-1"),
		Name:          "Rice Subsidy",
		Amount:        "2000",
		Type:          string(payroll.PayHeadTypeEarnings),
		IsRecurring:   true,
		EffectiveDate: "2026-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "2000.00", head.Amount)
	assert.Nil(t, head.EndDate)

	b, err := svc.AggregateDeductions(ctx, payroll.AggregateRequest{
		EmployeeID: "emp-1", SalaryMonth: "2026-03", PaydayType: string(payroll.PaydayFullMonth),
	})
	require.NoError(t, err)
	subsidy, ok := lineAmount(b.Earnings, "Rice Subsidy")
	require.True(t, ok)
	assertAmount(t, "2000", subsidy)

	heads, err := svc.ListPayHeads(ctx, payroll.PayHeadFilter{})
	require.NoError(t, err)
	assert.Len(t, heads, 1)

	require.NoError(t, svc.DeletePayHead(ctx, head.ID))
	assert.ErrorIs(t, svc.DeletePayHead(ctx, head.ID), payroll.ErrPayHeadNotFound)
}

func TestPayrollService_CreatePayHead_UnknownEmployee(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreatePayHead(context.Background(), payroll.CreatePayHeadRequest{
		EmployeeID:    strPtr("nobody"),
		Name:          "Bonus",
		Amount:        "100",
		Type:          string(payroll.PayHeadTypeEarnings),
		EffectiveDate: "2026-03-01",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
