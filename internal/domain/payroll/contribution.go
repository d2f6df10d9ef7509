package payroll

import "github.com/shopspring/decimal"

// TaxBracket applies to taxable income above Floor:
// tax = Base + (income - Floor) * Rate.
type TaxBracket struct {
	Floor decimal.Decimal
	Base  decimal.Decimal
	Rate  decimal.Decimal
}

// ContributionTable holds the statutory rates. It is configuration, not code:
// deployments override fields through the environment.
type ContributionTable struct {
	SSSFloor   decimal.Decimal
	SSSCeiling decimal.Decimal
	SSSMinimum decimal.Decimal
	SSSMaximum decimal.Decimal
	SSSRate    decimal.Decimal

	PhilHealthRate  decimal.Decimal
	PhilHealthFloor decimal.Decimal
	PhilHealthCap   decimal.Decimal

	PagIBIGSalaryCap  decimal.Decimal
	PagIBIGBreakpoint decimal.Decimal
	PagIBIGLowRate    decimal.Decimal
	PagIBIGHighRate   decimal.Decimal

	TaxBrackets []TaxBracket

	// WorkingDaysPerMonth and HoursPerDay derive the overtime hourly rate.
	// MinimumWageDivisor converts salary to the daily rate compared with
	// MinimumDailyWage.
	WorkingDaysPerMonth       int
	HoursPerDay               int
	MinimumWageDivisor        int
	RegularOvertimeMultiplier decimal.Decimal
	HolidayOvertimeMultiplier decimal.Decimal
	ThirteenthMonthExemption  decimal.Decimal
	DeMinimisLimit            decimal.Decimal
	MinimumDailyWage          decimal.Decimal
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultContributionTable returns the rates the system ships with.
func DefaultContributionTable() ContributionTable {
	return ContributionTable{
		SSSFloor:   d("3250"),
		SSSCeiling: d("29750"),
		SSSMinimum: d("135"),
		SSSMaximum: d("1350"),
		SSSRate:    d("0.045"),

		PhilHealthRate:  d("0.025"),
		PhilHealthFloor: decimal.Zero,
		PhilHealthCap:   d("100000"),

		PagIBIGSalaryCap:  d("5000"),
		PagIBIGBreakpoint: d("1500"),
		PagIBIGLowRate:    d("0.01"),
		PagIBIGHighRate:   d("0.02"),

		TaxBrackets: []TaxBracket{
			{Floor: decimal.Zero, Base: decimal.Zero, Rate: decimal.Zero},
			{Floor: d("20833"), Base: decimal.Zero, Rate: d("0.15")},
			{Floor: d("33333"), Base: d("1875"), Rate: d("0.20")},
			{Floor: d("66667"), Base: d("13541.80"), Rate: d("0.25")},
			{Floor: d("166667"), Base: d("90841.80"), Rate: d("0.30")},
			{Floor: d("666667"), Base: d("408841.80"), Rate: d("0.35")},
		},

		WorkingDaysPerMonth:       22,
		HoursPerDay:               8,
		MinimumWageDivisor:        30,
		RegularOvertimeMultiplier: d("1.25"),
		HolidayOvertimeMultiplier: d("1.3"),
		ThirteenthMonthExemption:  d("90000"),
		DeMinimisLimit:            d("90000"),
		MinimumDailyWage:          d("610"),
	}
}
