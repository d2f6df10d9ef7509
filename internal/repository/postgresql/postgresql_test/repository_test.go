package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	ctx := context.Background()

	setup, err := NewTestDatabase(ctx)
	if errors.Is(err, ErrNoTestDatabase) {
		t.Skip("TEST_DATABASE_URL not set, skipping repository tests")
	}
	require.NoError(t, err)

	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(func() {
		_ = setup.TruncateAllTables(context.Background())
		setup.Close()
	})
	return setup
}

func createTestEmployee(t *testing.T, setup *TestDatabaseSetup, code, status string, hireDate time.Time) string {
	t.Helper()
	id := uuid.NewString()
	_, err := setup.DB.Exec(context.Background(), `
		INSERT INTO employees (id, employee_code, full_name, position, salary, hire_date, employment_status)
		VALUES ($1, $2, $3, 'Engineer', 20000, $4, $5)
	`, id, code, "Employee "+code, hireDate, status)
	require.NoError(t, err)
	return id
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAttendanceRepository(t *testing.T) {
	setup := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	empID := createTestEmployee(t, setup, "E-001", "active", day(2025, 1, 6))

	in := clock.MustParse("08:07")
	created, err := repo.Create(ctx, attendance.Attendance{
		EmployeeID:    empID,
		Date:          day(2026, 3, 2),
		MorningTimeIn: &in,
		Status:        attendance.StatusOnTime,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	t.Run("duplicate employee and date conflicts", func(t *testing.T) {
		_, err := repo.Create(ctx, attendance.Attendance{
			EmployeeID: empID,
			Date:       day(2026, 3, 2),
			Status:     attendance.StatusAbsent,
		})
		assert.ErrorIs(t, err, attendance.ErrAttendanceConflict)
	})

	t.Run("open session round trips punch times", func(t *testing.T) {
		open, err := repo.GetOpenSession(ctx, empID, day(2026, 3, 2))
		require.NoError(t, err)
		require.NotNil(t, open)
		require.NotNil(t, open.MorningTimeIn)
		assert.Equal(t, "08:07", open.MorningTimeIn.String())
		assert.Nil(t, open.MorningTimeOut)
	})

	t.Run("stale update conflicts", func(t *testing.T) {
		current, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, current.EmployeeName)
		assert.Equal(t, "Employee E-001", *current.EmployeeName)

		out := clock.MustParse("11:30")
		current.MorningTimeOut = &out
		current.WorkedHours = 3.38
		updated, err := repo.Update(ctx, current)
		require.NoError(t, err)
		assert.True(t, updated.UpdatedAt.After(current.UpdatedAt) || updated.UpdatedAt.Equal(current.UpdatedAt))

		_, err = repo.Update(ctx, current)
		assert.ErrorIs(t, err, attendance.ErrAttendanceConflict)

		open, err := repo.GetOpenSession(ctx, empID, day(2026, 3, 2))
		require.NoError(t, err)
		assert.Nil(t, open)
	})

	t.Run("update of missing record", func(t *testing.T) {
		_, err := repo.Update(ctx, attendance.Attendance{ID: uuid.NewString(), EmployeeID: empID, Date: day(2026, 3, 9)})
		assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})

	t.Run("bulk absences skip existing records", func(t *testing.T) {
		other := createTestEmployee(t, setup, "E-002", "active", day(2025, 1, 6))
		records := []attendance.Attendance{
			{EmployeeID: empID, Date: day(2026, 3, 2), Status: attendance.StatusAbsent, LateHours: 8, LateDeduction: decimal.NewFromInt(300)},
			{EmployeeID: other, Date: day(2026, 3, 2), Status: attendance.StatusAbsent, LateHours: 8, LateDeduction: decimal.NewFromInt(300)},
		}
		inserted, err := repo.BulkCreateAbsences(ctx, records)
		require.NoError(t, err)
		assert.Equal(t, []string{other}, inserted)

		inserted, err = repo.BulkCreateAbsences(ctx, records)
		require.NoError(t, err)
		assert.Empty(t, inserted)
		assert.NotNil(t, inserted)

		byDate, err := repo.ListByDate(ctx, day(2026, 3, 2))
		require.NoError(t, err)
		assert.Len(t, byDate, 2)
	})

	t.Run("list filters and paginates", func(t *testing.T) {
		status := string(attendance.StatusAbsent)
		list, total, err := repo.List(ctx, attendance.AttendanceFilter{Status: &status, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, attendance.StatusAbsent, list[0].Status)
		assert.Equal(t, 8, list[0].LateHours)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, created.ID))
		assert.ErrorIs(t, repo.Delete(ctx, created.ID), attendance.ErrAttendanceNotFound)
		_, err := repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})
}

func TestSettingsRepository(t *testing.T) {
	setup := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewSettingsRepository(setup.DB)

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, attendance.ErrSettingsNotFound)

	saved, err := repo.Upsert(ctx, attendance.DefaultSettings())
	require.NoError(t, err)

	changed := saved
	changed.OfficeStart = clock.MustParse("09:00")
	changed.GracePeriod = 10
	_, err = repo.Upsert(ctx, changed)
	require.NoError(t, err)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "09:00", got.OfficeStart.String())
	assert.Equal(t, "12:59", got.BreakEnd.String())
	assert.Equal(t, 10, got.GracePeriod)
	assert.Equal(t, "37.50", got.DeductionRate.StringFixed(2))
}

func TestEmployeeRepository(t *testing.T) {
	setup := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)

	active := createTestEmployee(t, setup, "E-001", "active", day(2025, 1, 6))
	createTestEmployee(t, setup, "E-002", "inactive", day(2025, 1, 6))
	createTestEmployee(t, setup, "E-003", "active", day(2026, 4, 1))

	ids, err := repo.ListActiveIDs(ctx, day(2026, 3, 31))
	require.NoError(t, err)
	assert.Equal(t, []string{active}, ids)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	first, err := repo.AddPosition(ctx, employee.PositionRecord{
		EmployeeID: active, Position: "Engineer", Salary: decimal.NewFromInt(20000), StartDate: day(2025, 1, 6),
	})
	require.NoError(t, err)
	require.NoError(t, repo.ClosePosition(ctx, first.ID, day(2026, 3, 9)))
	_, err = repo.AddPosition(ctx, employee.PositionRecord{
		EmployeeID: active, Position: "Senior Engineer", Salary: decimal.NewFromInt(30000), StartDate: day(2026, 3, 10),
	})
	require.NoError(t, err)

	history, err := repo.GetPositionHistory(ctx, active)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Engineer", history[0].Position)
	require.NotNil(t, history[0].EndDate)
	assert.Equal(t, "2026-03-09", history[0].EndDate.Format("2006-01-02"))
	assert.Nil(t, history[1].EndDate)

	emp, err := repo.GetByID(ctx, active)
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", emp.Position)
	assert.Equal(t, "30000.00", emp.Salary.StringFixed(2))
	assert.Equal(t, employee.EmploymentStatusActive, emp.EmploymentStatus)
	assert.True(t, emp.Supplementary.Commission.IsZero())
}

func TestPayrollRepository(t *testing.T) {
	setup := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(setup.DB)
	empID := createTestEmployee(t, setup, "E-001", "active", day(2025, 1, 6))

	t.Run("pay heads in effect during the month", func(t *testing.T) {
		expired := day(2026, 2, 28)
		heads := []payroll.PayHead{
			{Name: "Transport", Amount: decimal.NewFromInt(1000), Type: payroll.PayHeadTypeEarnings, IsRecurring: true, EffectiveDate: day(2026, 1, 1)},
			{EmployeeID: &empID, Name: "Uniform", Amount: decimal.NewFromInt(250), Type: payroll.PayHeadTypeDeductions, EffectiveDate: day(2026, 3, 20)},
			{Name: "Old Allowance", Amount: decimal.NewFromInt(500), Type: payroll.PayHeadTypeEarnings, IsRecurring: true, EffectiveDate: day(2025, 1, 1), EndDate: &expired},
			{Name: "April Bonus", Amount: decimal.NewFromInt(900), Type: payroll.PayHeadTypeEarnings, EffectiveDate: day(2026, 4, 1)},
		}
		for _, h := range heads {
			_, err := repo.CreatePayHead(ctx, h)
			require.NoError(t, err)
		}

		got, err := repo.GetPayHeadsForEmployee(ctx, empID, day(2026, 3, 1), day(2026, 3, 31))
		require.NoError(t, err)
		var names []string
		for _, h := range got {
			names = append(names, h.Name)
		}
		assert.ElementsMatch(t, []string{"Transport", "Uniform"}, names)

		typ := string(payroll.PayHeadTypeDeductions)
		deductions, err := repo.ListPayHeads(ctx, payroll.PayHeadFilter{Type: &typ})
		require.NoError(t, err)
		require.Len(t, deductions, 1)
		require.NotNil(t, deductions[0].EmployeeID)
		assert.Equal(t, empID, *deductions[0].EmployeeID)

		require.NoError(t, repo.DeletePayHead(ctx, deductions[0].ID))
		assert.ErrorIs(t, repo.DeletePayHead(ctx, deductions[0].ID), payroll.ErrPayHeadNotFound)
	})

	t.Run("payslip upsert replaces by month and payday", func(t *testing.T) {
		slip := payroll.Payslip{
			EmployeeID:      empID,
			SalaryMonth:     "2026-03",
			PaydayType:      payroll.PaydayMidMonth,
			PayDate:         day(2026, 3, 15),
			Position:        "Engineer",
			Salary:          decimal.NewFromInt(20000),
			GrossEarnings:   decimal.NewFromInt(10000),
			TotalDeductions: decimal.RequireFromString("744.50"),
			NetSalary:       decimal.RequireFromString("9255.50"),
			Breakdown: payroll.DeductionBreakdown{
				EmployeeID:  empID,
				SalaryMonth: "2026-03",
				PaydayType:  payroll.PaydayMidMonth,
				NetSalary:   decimal.RequireFromString("9255.50"),
			},
		}

		first, created, err := repo.UpsertPayslip(ctx, slip)
		require.NoError(t, err)
		assert.True(t, created)

		slip.NetSalary = decimal.NewFromInt(9000)
		second, created, err := repo.UpsertPayslip(ctx, slip)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)

		got, err := repo.GetPayslipByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "9000.00", got.NetSalary.StringFixed(2))
		assert.Equal(t, "9255.50", got.Breakdown.NetSalary.StringFixed(2))
		assert.Equal(t, payroll.PaydayMidMonth, got.Breakdown.PaydayType)

		month := "2026-03"
		list, err := repo.ListPayslips(ctx, payroll.PayslipFilter{EmployeeID: &empID, SalaryMonth: &month})
		require.NoError(t, err)
		assert.Len(t, list, 1)

		require.NoError(t, repo.DeletePayslip(ctx, first.ID))
		_, err = repo.GetPayslipByID(ctx, first.ID)
		assert.ErrorIs(t, err, payroll.ErrPayslipNotFound)
	})
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	setup := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)
	empID := createTestEmployee(t, setup, "E-001", "active", day(2025, 1, 6))

	boom := errors.New("boom")
	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := repo.Create(ctx, attendance.Attendance{EmployeeID: empID, Date: day(2026, 3, 2), Status: attendance.StatusAbsent})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetByEmployeeAndDate(ctx, empID, day(2026, 3, 2))
	require.NoError(t, err)
	assert.Nil(t, got)
}
