package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Pay heads
	CreatePayHead(w http.ResponseWriter, r *http.Request)
	ListPayHeads(w http.ResponseWriter, r *http.Request)
	DeletePayHead(w http.ResponseWriter, r *http.Request)

	// Computation
	AggregateDeductions(w http.ResponseWriter, r *http.Request)
	AggregatePeriod(w http.ResponseWriter, r *http.Request)
	ContributionRates(w http.ResponseWriter, r *http.Request)

	// Payslips
	GeneratePayslip(w http.ResponseWriter, r *http.Request)
	ListPayslips(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
	DeletePayslip(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// ========== PAY HEADS ==========

func (h *payrollHandlerImpl) CreatePayHead(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreatePayHeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.CreatePayHead(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Pay head created successfully", result)
}

func (h *payrollHandlerImpl) ListPayHeads(w http.ResponseWriter, r *http.Request) {
	filter := payroll.PayHeadFilter{}
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if headType := r.URL.Query().Get("type"); headType != "" {
		filter.Type = &headType
	}

	result, err := h.payrollService.ListPayHeads(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DeletePayHead(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.DeletePayHead(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay head deleted successfully", nil)
}

// ========== COMPUTATION ==========

func (h *payrollHandlerImpl) AggregateDeductions(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payroll.AggregateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.EmployeeID, err = p.ScopeEmployee(req.EmployeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.AggregateDeductions(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) AggregatePeriod(w http.ResponseWriter, r *http.Request) {
	var req payroll.BulkAggregateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.AggregatePeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ContributionRates(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if !p.CanAccess(employeeID) {
		response.HandleError(w, payroll.ErrUnauthorized)
		return
	}

	result, err := h.payrollService.ContributionRates(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== PAYSLIPS ==========

func (h *payrollHandlerImpl) GeneratePayslip(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayslipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, created, err := h.payrollService.GeneratePayslip(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if created {
		response.Created(w, "Payslip generated successfully", result)
		return
	}
	response.SuccessWithMessage(w, "Payslip regenerated successfully", result)
}

func (h *payrollHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := payroll.PayslipFilter{}
	if !p.IsAdmin() {
		employeeID, err := p.ScopeEmployee("")
		if err != nil {
			response.HandleError(w, err)
			return
		}
		filter.EmployeeID = &employeeID
	} else if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if month := r.URL.Query().Get("salary_month"); month != "" {
		filter.SalaryMonth = &month
	}

	result, err := h.payrollService.ListPayslips(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.GetPayslip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !p.CanAccess(result.EmployeeID) {
		response.HandleError(w, payroll.ErrUnauthorized)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DeletePayslip(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.DeletePayslip(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip deleted successfully", nil)
}
