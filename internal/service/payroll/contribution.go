package payroll

import (
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// ContributionCalculator computes statutory contributions from a monthly salary.
// All results are rounded to whole pesos.
type ContributionCalculator struct {
	table payroll.ContributionTable
}

func NewContributionCalculator(table payroll.ContributionTable) *ContributionCalculator {
	return &ContributionCalculator{table: table}
}

// SSS returns the employee share: the minimum below the floor, the maximum at
// or above the ceiling, and a linear rate on the excess over the floor between.
func (c *ContributionCalculator) SSS(salary decimal.Decimal) decimal.Decimal {
	t := c.table
	switch {
	case salary.LessThan(t.SSSFloor):
		return t.SSSMinimum
	case salary.GreaterThanOrEqual(t.SSSCeiling):
		return t.SSSMaximum
	default:
		return salary.Sub(t.SSSFloor).Mul(t.SSSRate).Add(t.SSSMinimum).Round(0)
	}
}

func (c *ContributionCalculator) PhilHealth(salary decimal.Decimal) decimal.Decimal {
	t := c.table
	base := decimal.Min(decimal.Max(salary, t.PhilHealthFloor), t.PhilHealthCap)
	return base.Mul(t.PhilHealthRate).Round(0)
}

func (c *ContributionCalculator) PagIBIG(salary decimal.Decimal) decimal.Decimal {
	t := c.table
	base := decimal.Min(salary, t.PagIBIGSalaryCap)
	rate := t.PagIBIGHighRate
	if base.LessThanOrEqual(t.PagIBIGBreakpoint) {
		rate = t.PagIBIGLowRate
	}
	return base.Mul(rate).Round(0)
}

// WithholdingTax applies the progressive schedule to monthly taxable income.
func (c *ContributionCalculator) WithholdingTax(taxable decimal.Decimal) decimal.Decimal {
	var bracket *payroll.TaxBracket
	for i := range c.table.TaxBrackets {
		b := &c.table.TaxBrackets[i]
		if taxable.GreaterThan(b.Floor) && (bracket == nil || b.Floor.GreaterThan(bracket.Floor)) {
			bracket = b
		}
	}
	if bracket == nil {
		return decimal.Zero
	}
	return bracket.Base.Add(taxable.Sub(bracket.Floor).Mul(bracket.Rate)).Round(0)
}

// Statutory returns the three mandatory contributions and their sum.
func (c *ContributionCalculator) Statutory(salary decimal.Decimal) (sss, philHealth, pagIBIG, total decimal.Decimal) {
	sss = c.SSS(salary)
	philHealth = c.PhilHealth(salary)
	pagIBIG = c.PagIBIG(salary)
	return sss, philHealth, pagIBIG, sss.Add(philHealth).Add(pagIBIG)
}

// HourlyRate derives the hourly rate used for overtime.
func (c *ContributionCalculator) HourlyRate(salary decimal.Decimal) decimal.Decimal {
	hours := decimal.NewFromInt(int64(c.table.WorkingDaysPerMonth * c.table.HoursPerDay))
	if hours.IsZero() {
		return decimal.Zero
	}
	return salary.Div(hours)
}

// IsMinimumWageEarner compares salary/MinimumWageDivisor with the minimum daily wage.
func (c *ContributionCalculator) IsMinimumWageEarner(salary decimal.Decimal) bool {
	if c.table.MinimumWageDivisor <= 0 || c.table.MinimumDailyWage.IsZero() {
		return false
	}
	daily := salary.Div(decimal.NewFromInt(int64(c.table.MinimumWageDivisor)))
	return daily.LessThanOrEqual(c.table.MinimumDailyWage)
}
