package employee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type EmployeeServiceImpl struct {
	tx           database.Transactor
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(tx database.Transactor, employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:           tx,
		employeeRepo: employeeRepo,
	}
}

// RecordPosition implements employee.EmployeeService.
func (s *EmployeeServiceImpl) RecordPosition(ctx context.Context, req employee.RecordPositionRequest) (employee.PositionResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.PositionResponse{}, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	salary, _ := decimal.NewFromString(req.Salary)

	var created employee.PositionRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if startDate.Before(emp.HireDate) {
			return fmt.Errorf("%w: %s is before %s", employee.ErrStartBeforeHireDate,
				req.StartDate, emp.HireDate.Format("2006-01-02"))
		}

		history, err := s.employeeRepo.GetPositionHistory(ctx, emp.ID)
		if err != nil {
			return fmt.Errorf("failed to get position history: %w", err)
		}

		if current, ok := employee.CurrentPosition(history); ok {
			if !startDate.After(current.StartDate) {
				return fmt.Errorf("%w: current position started %s", employee.ErrPositionStartTooEarly,
					current.StartDate.Format("2006-01-02"))
			}
			if err := s.employeeRepo.ClosePosition(ctx, current.ID, startDate.AddDate(0, 0, -1)); err != nil {
				return fmt.Errorf("failed to close current position: %w", err)
			}
		}

		created, err = s.employeeRepo.AddPosition(ctx, employee.PositionRecord{
			EmployeeID: emp.ID,
			Position:   req.Position,
			Salary:     salary,
			StartDate:  startDate,
		})
		if err != nil {
			return fmt.Errorf("failed to add position: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.PositionResponse{}, err
	}

	slog.Info("Position recorded",
		"employee_id", created.EmployeeID,
		"position", created.Position,
		"salary", created.Salary.StringFixed(2),
		"start_date", req.StartDate,
	)

	return mapPositionToResponse(created), nil
}

// GetPositionHistory implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetPositionHistory(ctx context.Context, employeeID string) ([]employee.PositionResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	history, err := s.employeeRepo.GetPositionHistory(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get position history: %w", err)
	}

	responses := make([]employee.PositionResponse, 0, len(history))
	for _, rec := range history {
		responses = append(responses, mapPositionToResponse(rec))
	}
	return responses, nil
}

func mapPositionToResponse(rec employee.PositionRecord) employee.PositionResponse {
	resp := employee.PositionResponse{
		ID:         rec.ID,
		EmployeeID: rec.EmployeeID,
		Position:   rec.Position,
		Salary:     rec.Salary.StringFixed(2),
		StartDate:  rec.StartDate.Format("2006-01-02"),
	}
	if rec.EndDate != nil {
		end := rec.EndDate.Format("2006-01-02")
		resp.EndDate = &end
	}
	return resp
}
