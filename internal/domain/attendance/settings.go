package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Settings holds the deployment-wide attendance thresholds.
type Settings struct {
	ID                    string
	OfficeStart           clock.Minute
	OfficeEnd             clock.Minute
	BreakStart            clock.Minute
	BreakEnd              clock.Minute
	EarlyTimeInThreshold  clock.Minute
	EarlyTimeOutThreshold clock.Minute
	HalfDayThreshold      clock.Minute
	GracePeriod           int
	DeductionRate         decimal.Decimal
	UpdatedAt             time.Time
}

// DefaultSettings returns the thresholds used when no settings row exists.
func DefaultSettings() Settings {
	return Settings{
		OfficeStart:           clock.MustParse("08:00"),
		OfficeEnd:             clock.MustParse("17:00"),
		BreakStart:            clock.MustParse("11:30"),
		BreakEnd:              clock.MustParse("12:59"),
		EarlyTimeInThreshold:  clock.MustParse("06:00"),
		EarlyTimeOutThreshold: clock.MustParse("11:30"),
		HalfDayThreshold:      clock.MustParse("13:00"),
		GracePeriod:           15,
		DeductionRate:         decimal.RequireFromString("37.50"),
	}
}

// LateThreshold is the last minute a morning time-in still counts as punctual.
func (s Settings) LateThreshold() clock.Minute {
	return s.OfficeStart.Add(s.GracePeriod)
}

// BreakMinutes is the length of the lunch break.
func (s Settings) BreakMinutes() int {
	return s.BreakEnd.Sub(s.BreakStart)
}

// Deduction converts late hours to a currency amount.
func (s Settings) Deduction(lateHours int) decimal.Decimal {
	return s.DeductionRate.Mul(decimal.NewFromInt(int64(lateHours)))
}

// Validate checks the relations between thresholds.
func (s Settings) Validate() error {
	var errs validator.ValidationErrors
	if s.OfficeStart >= s.OfficeEnd {
		errs.Add("office_start", "office_start must be before office_end")
	}
	if s.BreakStart > s.BreakEnd {
		errs.Add("break_start", "break_start must not be after break_end")
	}
	if s.GracePeriod < 0 {
		errs.Add("grace_period", "grace_period must not be negative")
	}
	if s.DeductionRate.IsNegative() {
		errs.Add("deduction_rate", "deduction_rate must not be negative")
	}
	return errs.Err()
}
