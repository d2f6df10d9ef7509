package attendance

import (
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

// ========================================
// PUNCH DTOs
// ========================================

type TimeInRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       *string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	Time       *string `json:"time,omitempty"` // HH:MM, defaults to now
}

func (r *TimeInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if r.Date != nil && *r.Date != "" {
		if _, valid := validator.IsValidDate(*r.Date); !valid {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	if r.Time != nil && *r.Time != "" && !validator.IsValidClock(*r.Time) {
		errs.Add("time", "time must be in HH:MM format")
	}

	return errs.Err()
}

type TimeOutRequest struct {
	EmployeeID string  `json:"employee_id"`
	Time       *string `json:"time,omitempty"` // HH:MM, defaults to now
}

func (r *TimeOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if r.Time != nil && *r.Time != "" && !validator.IsValidClock(*r.Time) {
		errs.Add("time", "time must be in HH:MM format")
	}

	return errs.Err()
}

// ========================================
// ADMIN DTOs
// ========================================

type CreateAttendanceRequest struct {
	EmployeeID       string   `json:"employee_id"`
	Date             string   `json:"date"`
	MorningTimeIn    *string  `json:"morning_time_in,omitempty"`
	MorningTimeOut   *string  `json:"morning_time_out,omitempty"`
	AfternoonTimeIn  *string  `json:"afternoon_time_in,omitempty"`
	AfternoonTimeOut *string  `json:"afternoon_time_out,omitempty"`
	Status           *string  `json:"status,omitempty"`
	LateHours        *int     `json:"late_hours,omitempty"`
	WorkedHours      *float64 `json:"worked_hours,omitempty"`
}

func (r *CreateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	validatePunches(&errs, r.MorningTimeIn, r.MorningTimeOut, r.AfternoonTimeIn, r.AfternoonTimeOut)
	validateOverrides(&errs, r.Status, r.LateHours, r.WorkedHours)

	return errs.Err()
}

// UpdateAttendanceRequest is a partial update. A nil time leaves the field
// unchanged and an empty string clears it.
type UpdateAttendanceRequest struct {
	ID               string   `json:"-"`
	EmployeeID       *string  `json:"employee_id,omitempty"`
	Date             *string  `json:"date,omitempty"`
	MorningTimeIn    *string  `json:"morning_time_in,omitempty"`
	MorningTimeOut   *string  `json:"morning_time_out,omitempty"`
	AfternoonTimeIn  *string  `json:"afternoon_time_in,omitempty"`
	AfternoonTimeOut *string  `json:"afternoon_time_out,omitempty"`
	Status           *string  `json:"status,omitempty"`
	LateHours        *int     `json:"late_hours,omitempty"`
	WorkedHours      *float64 `json:"worked_hours,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Date != nil {
		if _, valid := validator.IsValidDate(*r.Date); !valid {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	validatePunches(&errs, r.MorningTimeIn, r.MorningTimeOut, r.AfternoonTimeIn, r.AfternoonTimeOut)
	validateOverrides(&errs, r.Status, r.LateHours, r.WorkedHours)

	return errs.Err()
}

func validatePunches(errs *validator.ValidationErrors, morningIn, morningOut, afternoonIn, afternoonOut *string) {
	fields := []struct {
		name  string
		value *string
	}{
		{"morning_time_in", morningIn},
		{"morning_time_out", morningOut},
		{"afternoon_time_in", afternoonIn},
		{"afternoon_time_out", afternoonOut},
	}
	for _, f := range fields {
		if f.value != nil && *f.value != "" && !validator.IsValidClock(*f.value) {
			errs.Add(f.name, f.name+" must be in HH:MM format")
		}
	}
}

func validateOverrides(errs *validator.ValidationErrors, status *string, lateHours *int, workedHours *float64) {
	if status != nil && !validator.IsInSlice(*status, validStatuses) {
		errs.Add("status", "status must be one of: "+strings.Join(validStatuses, ", "))
	}
	if lateHours != nil && *lateHours < 0 {
		errs.Add("late_hours", "late_hours must not be negative")
	}
	if workedHours != nil && *workedHours < 0 {
		errs.Add("worked_hours", "worked_hours must not be negative")
	}
}

type AttendanceResponse struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	EmployeeName     *string `json:"employee_name,omitempty"`
	Date             string  `json:"date"`
	MorningTimeIn    *string `json:"morning_time_in"`
	MorningTimeOut   *string `json:"morning_time_out"`
	AfternoonTimeIn  *string `json:"afternoon_time_in"`
	AfternoonTimeOut *string `json:"afternoon_time_out"`
	Status           string  `json:"status"`
	LateHours        int     `json:"late_hours"`
	LateDeduction    string  `json:"late_deduction"`
	WorkedHours      float64 `json:"worked_hours"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

// ========================================
// LIST DTOs
// ========================================

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, employee_id, status, late_hours
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, validStatuses) {
		errs.Add("status", "status must be one of: "+strings.Join(validStatuses, ", "))
	}

	dates := []struct {
		field string
		value *string
	}{{"date", f.Date}, {"start_date", f.StartDate}, {"end_date", f.EndDate}}
	for _, d := range dates {
		if d.value != nil && *d.value != "" {
			if _, valid := validator.IsValidDate(*d.value); !valid {
				errs.Add(d.field, d.field+" must be in YYYY-MM-DD format")
			}
		}
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "employee_id", "status", "late_hours"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs.Add("sort_by", "sort_by must be one of: date, employee_id, status, late_hours")
		}
	} else {
		f.SortBy = "date"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs.Add("sort_order", "sort_order must be one of: asc, desc")
		}
	} else {
		f.SortOrder = "desc"
	}

	return errs.Err()
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// ========================================
// SWEEP DTOs
// ========================================

type SweepRequest struct {
	Date *string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

func (r *SweepRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Date != nil && *r.Date != "" {
		if _, valid := validator.IsValidDate(*r.Date); !valid {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	return errs.Err()
}

type SweepResponse struct {
	Date        string   `json:"date"`
	Count       int      `json:"count"`
	EmployeeIDs []string `json:"employee_ids"`
}

// ========================================
// SETTINGS DTOs
// ========================================

type SettingsResponse struct {
	OfficeStart           string `json:"office_start"`
	OfficeEnd             string `json:"office_end"`
	BreakStart            string `json:"break_start"`
	BreakEnd              string `json:"break_end"`
	EarlyTimeInThreshold  string `json:"early_time_in_threshold"`
	EarlyTimeOutThreshold string `json:"early_time_out_threshold"`
	HalfDayThreshold      string `json:"half_day_threshold"`
	GracePeriod           int    `json:"grace_period"`
	DeductionRate         string `json:"deduction_rate"`
	UpdatedAt             string `json:"updated_at,omitempty"`
}

// UpdateSettingsRequest applies only the fields that are set.
type UpdateSettingsRequest struct {
	OfficeStart           *string `json:"office_start,omitempty"`
	OfficeEnd             *string `json:"office_end,omitempty"`
	BreakStart            *string `json:"break_start,omitempty"`
	BreakEnd              *string `json:"break_end,omitempty"`
	EarlyTimeInThreshold  *string `json:"early_time_in_threshold,omitempty"`
	EarlyTimeOutThreshold *string `json:"early_time_out_threshold,omitempty"`
	HalfDayThreshold      *string `json:"half_day_threshold,omitempty"`
	GracePeriod           *int    `json:"grace_period,omitempty"`
	DeductionRate         *string `json:"deduction_rate,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	for _, f := range r.clockFields(nil) {
		if f.value != nil && !validator.IsValidClock(*f.value) {
			errs.Add(f.name, f.name+" must be in HH:MM format")
		}
	}
	if r.GracePeriod != nil && *r.GracePeriod < 0 {
		errs.Add("grace_period", "grace_period must not be negative")
	}
	if r.DeductionRate != nil {
		if _, ok := validator.IsNonNegativeAmount(*r.DeductionRate); !ok {
			errs.Add("deduction_rate", "deduction_rate must be a non-negative number")
		}
	}

	return errs.Err()
}

// Apply merges the set fields into s. Validate must have succeeded first.
func (r *UpdateSettingsRequest) Apply(s Settings) Settings {
	for _, f := range r.clockFields(&s) {
		if f.value != nil {
			*f.target = clock.MustParse(*f.value)
		}
	}
	if r.GracePeriod != nil {
		s.GracePeriod = *r.GracePeriod
	}
	if r.DeductionRate != nil {
		s.DeductionRate, _ = validator.IsNonNegativeAmount(*r.DeductionRate)
	}
	return s
}

type clockField struct {
	name   string
	value  *string
	target *clock.Minute
}

func (r *UpdateSettingsRequest) clockFields(s *Settings) []clockField {
	if s == nil {
		s = &Settings{}
	}
	return []clockField{
		{"office_start", r.OfficeStart, &s.OfficeStart},
		{"office_end", r.OfficeEnd, &s.OfficeEnd},
		{"break_start", r.BreakStart, &s.BreakStart},
		{"break_end", r.BreakEnd, &s.BreakEnd},
		{"early_time_in_threshold", r.EarlyTimeInThreshold, &s.EarlyTimeInThreshold},
		{"early_time_out_threshold", r.EarlyTimeOutThreshold, &s.EarlyTimeOutThreshold},
		{"half_day_threshold", r.HalfDayThreshold, &s.HalfDayThreshold},
	}
}
