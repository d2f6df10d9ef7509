package employee

import (
	"context"
	"time"
)

// EmployeeRepository reads employee records and maintains position history.
// Employee master data itself is owned elsewhere.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActiveIDs returns the IDs of active employees hired on or before hiredBy
	ListActiveIDs(ctx context.Context, hiredBy time.Time) ([]string, error)

	// GetPositionHistory returns history entries ordered by start date
	GetPositionHistory(ctx context.Context, employeeID string) ([]PositionRecord, error)

	// ClosePosition sets the end date of a history entry
	ClosePosition(ctx context.Context, id string, endDate time.Time) error

	// AddPosition appends a history entry and makes it the employee's current position
	AddPosition(ctx context.Context, record PositionRecord) (PositionRecord, error)
}
