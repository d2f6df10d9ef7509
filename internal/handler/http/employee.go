package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	RecordPosition(w http.ResponseWriter, r *http.Request)
	GetPositionHistory(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// RecordPosition implements EmployeeHandler.
func (h *employeeHandlerImpl) RecordPosition(w http.ResponseWriter, r *http.Request) {
	var req employee.RecordPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	result, err := h.employeeService.RecordPosition(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Position recorded successfully", result)
}

// GetPositionHistory implements EmployeeHandler.
func (h *employeeHandlerImpl) GetPositionHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.GetPositionHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
