package payroll

import (
	"context"
	"time"
)

type PayrollRepository interface {
	// Pay heads
	CreatePayHead(ctx context.Context, head PayHead) (PayHead, error)
	ListPayHeads(ctx context.Context, filter PayHeadFilter) ([]PayHead, error)
	// GetPayHeadsForEmployee returns the employee's own and global heads in effect at any point in [start, end]
	GetPayHeadsForEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]PayHead, error)
	DeletePayHead(ctx context.Context, id string) error

	// Payslips
	// UpsertPayslip inserts or replaces the payslip for (employee, salary month, payday type)
	// and reports whether a new row was created.
	UpsertPayslip(ctx context.Context, payslip Payslip) (Payslip, bool, error)
	ListPayslips(ctx context.Context, filter PayslipFilter) ([]Payslip, error)
	GetPayslipByID(ctx context.Context, id string) (Payslip, error)
	DeletePayslip(ctx context.Context, id string) error
}
