package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// AggregateInput is everything needed to compute one breakdown.
// Records and PayHeads may span the whole salary month.
type AggregateInput struct {
	EmployeeID    string
	Position      employee.PositionRecord
	Supplementary employee.SupplementaryIncome
	Records       []attendance.Attendance
	PayHeads      []payroll.PayHead
	Period        payroll.Period
	Table         payroll.ContributionTable
}

// monthly holds the month-level figures that are split between paydays.
type monthly struct {
	earnings    []payroll.LineItem
	deductions  []payroll.LineItem
	sss         decimal.Decimal
	philHealth  decimal.Decimal
	pagIBIG     decimal.Decimal
	tax         decimal.Decimal
	taxable     decimal.Decimal
	nonTaxable  decimal.Decimal
	minimumWage bool
}

// AggregateDeductions builds the earnings and deductions for the input period.
//
// Monthly amounts (basic pay, recurring pay heads, supplementary income,
// contributions and tax) are split between the two paydays so that mid-month
// plus end-of-month equals full-month exactly. Dated amounts (late deductions,
// attendance-affected and one-off pay heads) belong to the period containing
// their date. Net salary is not clamped at zero.
func AggregateDeductions(in AggregateInput) payroll.DeductionBreakdown {
	p := in.Period
	m := computeMonthly(in)

	b := payroll.DeductionBreakdown{
		EmployeeID:    in.EmployeeID,
		Position:      in.Position.Position,
		SalaryMonth:   p.SalaryMonth,
		PaydayType:    p.PaydayType,
		PeriodStart:   p.Start.Format("2006-01-02"),
		PeriodEnd:     p.End.Format("2006-01-02"),
		MonthlySalary: in.Position.Salary,
		MinimumWage:   m.minimumWage,
	}

	for _, item := range m.earnings {
		b.Earnings = appendLine(b.Earnings, item.Name, item.Category, p.Share(item.Amount))
	}
	for _, item := range datedEarnings(in, p.Contains) {
		b.Earnings = appendLine(b.Earnings, item.Name, item.Category, item.Amount)
	}

	b.LateDeductions = decimal.Zero
	for _, rec := range in.Records {
		if !p.Contains(rec.Date) {
			continue
		}
		b.LateHours += rec.LateHours
		b.LateDeductions = b.LateDeductions.Add(rec.LateDeduction)
		if rec.Status == attendance.StatusAbsent {
			b.AbsentDays++
		}
	}

	b.SSS = p.Share(m.sss)
	b.PhilHealth = p.Share(m.philHealth)
	b.PagIBIG = p.Share(m.pagIBIG)
	b.WithholdingTax = p.Share(m.tax)
	b.TaxableIncome = p.Share(m.taxable)
	b.NonTaxableIncome = p.Share(m.nonTaxable)

	b.Deductions = appendLine(b.Deductions, "Late Deductions", payroll.CategoryAttendance, b.LateDeductions)
	b.Deductions = appendLine(b.Deductions, "SSS", payroll.CategoryStatutory, b.SSS)
	b.Deductions = appendLine(b.Deductions, "PhilHealth", payroll.CategoryStatutory, b.PhilHealth)
	b.Deductions = appendLine(b.Deductions, "Pag-IBIG", payroll.CategoryStatutory, b.PagIBIG)
	b.Deductions = appendLine(b.Deductions, "Withholding Tax", payroll.CategoryTax, b.WithholdingTax)
	for _, item := range m.deductions {
		b.Deductions = appendLine(b.Deductions, item.Name, item.Category, p.Share(item.Amount))
	}
	for _, item := range datedDeductions(in, p.Contains) {
		b.Deductions = appendLine(b.Deductions, item.Name, item.Category, item.Amount)
	}

	b.GrossEarnings = sumLines(b.Earnings)
	b.TotalDeductions = sumLines(b.Deductions)
	b.NetSalary = b.GrossEarnings.Sub(b.TotalDeductions)
	return b
}

func computeMonthly(in AggregateInput) monthly {
	calc := NewContributionCalculator(in.Table)
	t := in.Table
	salary := in.Position.Salary
	supp := in.Supplementary
	p := in.Period

	var m monthly
	m.earnings = appendLine(m.earnings, "Basic Pay", payroll.CategoryBasic, salary)

	// Recurring heads count for the whole month so both paydays see the same figures.
	for _, head := range in.PayHeads {
		if !head.IsRecurring || head.IsAttendanceAffected || !head.ActiveBetween(p.MonthStart, p.MonthEnd) {
			continue
		}
		item := payroll.LineItem{Name: head.Name, Category: payroll.CategoryPayHead, Amount: head.Amount}
		if head.Type == payroll.PayHeadTypeEarnings {
			m.earnings = append(m.earnings, item)
		} else {
			m.deductions = append(m.deductions, item)
		}
	}

	hourly := calc.HourlyRate(salary)
	regularOT := hourly.Mul(t.RegularOvertimeMultiplier).Mul(supp.RegularOvertimeHours).Round(2)
	holidayOT := hourly.Mul(t.HolidayOvertimeMultiplier).Mul(supp.HolidayOvertimeHours).Round(2)

	supplementary := []payroll.LineItem{
		{Name: "Commission", Amount: supp.Commission},
		{Name: "Profit Sharing", Amount: supp.ProfitSharing},
		{Name: "Fees", Amount: supp.Fees},
		{Name: "13th Month Pay", Amount: supp.ThirteenthMonthPay},
		{Name: "Hazard Pay", Amount: supp.HazardPay},
		{Name: "Regular Overtime", Amount: regularOT},
		{Name: "Holiday Overtime", Amount: holidayOT},
		{Name: "Other Taxable Income", Amount: supp.OtherTaxable},
		{Name: "De Minimis Benefits", Amount: supp.DeMinimis},
	}
	for _, item := range supplementary {
		m.earnings = appendLine(m.earnings, item.Name, payroll.CategorySupplementary, item.Amount)
	}

	m.sss, m.philHealth, m.pagIBIG, _ = calc.Statutory(salary)
	m.minimumWage = calc.IsMinimumWageEarner(salary)

	// Tax is assessed on the whole month, including dated earnings outside this period.
	gross := sumLines(m.earnings)
	for _, item := range datedEarnings(in, p.InMonth) {
		gross = gross.Add(item.Amount)
	}

	m.nonTaxable = decimal.Min(supp.ThirteenthMonthPay, t.ThirteenthMonthExemption).
		Add(decimal.Min(supp.DeMinimis, t.DeMinimisLimit)).
		Add(m.sss).Add(m.philHealth).Add(m.pagIBIG)
	if m.minimumWage {
		m.nonTaxable = m.nonTaxable.Add(salary).Add(regularOT).Add(holidayOT).Add(supp.HazardPay)
	}

	m.taxable = decimal.Max(decimal.Zero, gross.Sub(m.nonTaxable))
	m.tax = calc.WithholdingTax(m.taxable)
	return m
}

// datedEarnings returns attendance-affected and one-off earnings whose dates pass include.
func datedEarnings(in AggregateInput, include func(time.Time) bool) []payroll.LineItem {
	return datedItems(in, payroll.PayHeadTypeEarnings, include)
}

func datedDeductions(in AggregateInput, include func(time.Time) bool) []payroll.LineItem {
	return datedItems(in, payroll.PayHeadTypeDeductions, include)
}

func datedItems(in AggregateInput, headType payroll.PayHeadType, include func(time.Time) bool) []payroll.LineItem {
	var items []payroll.LineItem
	for _, head := range in.PayHeads {
		if head.Type != headType {
			continue
		}

		switch {
		case head.IsAttendanceAffected:
			days := 0
			for _, rec := range in.Records {
				if !include(rec.Date) || !head.ActiveOn(rec.Date) {
					continue
				}
				if countsFor(headType, rec) {
					days++
				}
			}
			if days > 0 {
				items = append(items, payroll.LineItem{
					Name:     head.Name,
					Category: payroll.CategoryPayHead,
					Amount:   head.Amount.Mul(decimal.NewFromInt(int64(days))),
				})
			}
		case !head.IsRecurring:
			if include(head.EffectiveDate) {
				items = append(items, payroll.LineItem{Name: head.Name, Category: payroll.CategoryPayHead, Amount: head.Amount})
			}
		}
	}
	return items
}

// countsFor decides whether a day triggers an attendance-affected head:
// earnings accrue on days with a time-in, deductions on absent days.
func countsFor(headType payroll.PayHeadType, rec attendance.Attendance) bool {
	if headType == payroll.PayHeadTypeEarnings {
		return rec.HasTimeIn()
	}
	return rec.Status == attendance.StatusAbsent
}

func appendLine(items []payroll.LineItem, name string, category payroll.LineCategory, amount decimal.Decimal) []payroll.LineItem {
	if amount.IsZero() {
		return items
	}
	return append(items, payroll.LineItem{Name: name, Category: category, Amount: amount})
}

func sumLines(items []payroll.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}
