package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

// detailer is implemented by errors that carry expected/received values.
type detailer interface {
	Details() map[string]any
}

func details(err error) interface{} {
	var d detailer
	if errors.As(err, &d) {
		return d.Details()
	}
	return nil
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAdminRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, auth.ErrEmployeeIDRequired):
		Forbidden(w, "Token is not linked to an employee")
	case errors.Is(err, attendance.ErrUnauthorized), errors.Is(err, payroll.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAttendanceConflict):
		Conflict(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrAlreadyClockedIn),
		errors.Is(err, attendance.ErrSessionRecorded):
		Conflict(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrOutsideWindow),
		errors.Is(err, attendance.ErrOnBreak),
		errors.Is(err, attendance.ErrNoOpenSession),
		errors.Is(err, attendance.ErrTooEarly),
		errors.Is(err, attendance.ErrOfficeHoursNotOver):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrEmployeeMismatch):
		BadRequest(w, attendance.ErrEmployeeMismatch.Error(), details(err))

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrPositionStartTooEarly),
		errors.Is(err, employee.ErrStartBeforeHireDate):
		BadRequest(w, err.Error(), nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrPositionSalaryMismatch):
		Conflict(w, payroll.ErrPositionSalaryMismatch.Error(), details(err))
	case errors.Is(err, payroll.ErrPayHeadNotFound):
		NotFound(w, "Pay head not found")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
