package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type stubAttendanceService struct {
	attendance.AttendanceService
	lastTimeIn *attendance.TimeInRequest
}

func (s *stubAttendanceService) TimeIn(ctx context.Context, req attendance.TimeInRequest) (attendance.AttendanceResponse, error) {
	s.lastTimeIn = &req
	return attendance.AttendanceResponse{ID: "att-1", EmployeeID: req.EmployeeID, Status: string(attendance.StatusOnTime)}, nil
}

func (s *stubAttendanceService) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	return attendance.ListAttendanceResponse{
		TotalCount:  1,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  1,
		Attendances: []attendance.AttendanceResponse{{ID: "att-1"}},
	}, nil
}

func (s *stubAttendanceService) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{}, &attendance.EmployeeMismatchError{Expected: "emp-1", Received: *req.EmployeeID}
}

type stubSettingsService struct {
	attendance.SettingsService
}

func (stubSettingsService) UpdateSettings(ctx context.Context, req attendance.UpdateSettingsRequest) (attendance.SettingsResponse, error) {
	var errs validator.ValidationErrors
	errs.Add("office_start", "office_start must be before office_end")
	return attendance.SettingsResponse{}, errs.Err()
}

type stubEmployeeService struct {
	employee.EmployeeService
}

type stubPayrollService struct {
	payroll.PayrollService
}

func (stubPayrollService) AggregateDeductions(ctx context.Context, req payroll.AggregateRequest) (payroll.DeductionBreakdown, error) {
	return payroll.DeductionBreakdown{}, &payroll.PositionSalaryMismatchError{
		ExpectedPosition: "Engineer",
		ReceivedPosition: *req.Position,
		ExpectedSalary:   decimal.NewFromInt(20000),
		ReceivedSalary:   decimal.NewFromInt(20000),
	}
}

func (stubPayrollService) GetPayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	return payroll.PayslipResponse{ID: id, EmployeeID: "emp-2"}, nil
}

type routerEnv struct {
	router     http.Handler
	jwt        jwt.Service
	attendance *stubAttendanceService
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()
	jwtService, err := jwt.NewJWTService(handlerTestSecret, "1h")
	require.NoError(t, err)

	att := &stubAttendanceService{}
	router := NewRouter(RouterOptions{AppName: "hris-payroll", Version: "test", Env: "test"}, jwtService, Handlers{
		Attendance: NewAttendanceHandler(att),
		Settings:   NewSettingsHandler(stubSettingsService{}),
		Employee:   NewEmployeeHandler(stubEmployeeService{}),
		Payroll:    NewPayrollHandler(stubPayrollService{}),
	})
	return &routerEnv{router: router, jwt: jwtService, attendance: att}
}

func (e *routerEnv) token(t *testing.T, role auth.Role, employeeID *string) string {
	t.Helper()
	token, _, err := e.jwt.GenerateAccessToken("user-1", employeeID, role)
	require.NoError(t, err)
	return token
}

func (e *routerEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var resp response.Response
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestRouter_Health(t *testing.T) {
	env := newRouterEnv(t)
	rec, _ := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequiresToken(t *testing.T) {
	env := newRouterEnv(t)
	rec, _ := env.do(t, http.MethodPost, "/api/v1/attendance/time-in", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_EmployeeTimeInIsSelfScoped(t *testing.T) {
	env := newRouterEnv(t)
	own := "emp-1"
	date, at := "2026-03-01", "07:00"

	rec, resp := env.do(t, http.MethodPost, "/api/v1/attendance/time-in", env.token(t, auth.RoleEmployee, &own),
		attendance.TimeInRequest{EmployeeID: "emp-2", Date: &date, Time: &at})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)

	require.NotNil(t, env.attendance.lastTimeIn)
	assert.Equal(t, "emp-1", env.attendance.lastTimeIn.EmployeeID)
	assert.Nil(t, env.attendance.lastTimeIn.Date)
	assert.Nil(t, env.attendance.lastTimeIn.Time)
}

func TestRouter_AdminTimeInKeepsRequest(t *testing.T) {
	env := newRouterEnv(t)
	at := "07:00"

	rec, _ := env.do(t, http.MethodPost, "/api/v1/attendance/time-in", env.token(t, auth.RoleAdmin, nil),
		attendance.TimeInRequest{EmployeeID: "emp-2", Time: &at})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "emp-2", env.attendance.lastTimeIn.EmployeeID)
	require.NotNil(t, env.attendance.lastTimeIn.Time)
	assert.Equal(t, "07:00", *env.attendance.lastTimeIn.Time)
}

func TestRouter_AdminOnlyRoutes(t *testing.T) {
	env := newRouterEnv(t)
	own := "emp-1"

	rec, _ := env.do(t, http.MethodGet, "/api/v1/attendance", env.token(t, auth.RoleEmployee, &own), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/attendance?page=1&limit=5", env.token(t, auth.RoleAdmin, nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 5, resp.Meta.Limit)
	assert.EqualValues(t, 1, resp.Meta.TotalItems)
}

func TestRouter_ErrorMapping(t *testing.T) {
	env := newRouterEnv(t)
	admin := env.token(t, auth.RoleAdmin, nil)
	position := "Senior Engineer"
	other := "emp-9"

	tests := []struct {
		name        string
		method      string
		path        string
		body        interface{}
		wantStatus  int
		wantCode    string
		wantDetails bool
	}{
		{
			name:        "position mismatch carries details",
			method:      http.MethodPost,
			path:        "/api/v1/payroll/deductions",
			body:        payroll.AggregateRequest{EmployeeID: "emp-1", SalaryMonth: "2026-03", PaydayType: "full-month", Position: &position},
			wantStatus:  http.StatusConflict,
			wantCode:    "CONFLICT",
			wantDetails: true,
		},
		{
			name:        "employee mismatch carries details",
			method:      http.MethodPut,
			path:        "/api/v1/attendance/att-1",
			body:        attendance.UpdateAttendanceRequest{EmployeeID: &other},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "BAD_REQUEST",
			wantDetails: true,
		},
		{
			name:        "validation errors",
			method:      http.MethodPut,
			path:        "/api/v1/settings/attendance",
			body:        attendance.UpdateSettingsRequest{},
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    "VALIDATION_ERROR",
			wantDetails: true,
		},
		{
			name:       "malformed body",
			method:     http.MethodPost,
			path:       "/api/v1/payroll/aggregate",
			body:       "not an object",
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := env.do(t, tt.method, tt.path, admin, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			if tt.wantDetails {
				assert.NotNil(t, resp.Error.Details)
			}
		})
	}
}

func TestRouter_PayslipOwnership(t *testing.T) {
	env := newRouterEnv(t)
	own := "emp-1"

	rec, _ := env.do(t, http.MethodGet, "/api/v1/payroll/payslips/slip-1", env.token(t, auth.RoleEmployee, &own), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/payroll/payslips/slip-1", env.token(t, auth.RoleAdmin, nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/payroll/contributions/emp-2", env.token(t, auth.RoleEmployee, &own), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
