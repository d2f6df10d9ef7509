package employee

import "context"

type EmployeeService interface {
	// RecordPosition starts a new position, closing the current one the day before
	RecordPosition(ctx context.Context, req RecordPositionRequest) (PositionResponse, error)

	GetPositionHistory(ctx context.Context, employeeID string) ([]PositionResponse, error)
}
