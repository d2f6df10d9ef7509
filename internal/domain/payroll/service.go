package payroll

import "context"

type PayrollService interface {
	// AggregateDeductions computes the breakdown for one employee and period without storing it
	AggregateDeductions(ctx context.Context, req AggregateRequest) (DeductionBreakdown, error)

	// AggregatePeriod computes breakdowns for every active employee
	AggregatePeriod(ctx context.Context, req BulkAggregateRequest) (BulkAggregateResponse, error)

	// ContributionRates previews the statutory contributions on the employee's current salary
	ContributionRates(ctx context.Context, employeeID string) (ContributionRatesResponse, error)

	// GeneratePayslip aggregates and stores the payslip, reporting whether it was newly created
	GeneratePayslip(ctx context.Context, req GeneratePayslipRequest) (PayslipResponse, bool, error)
	ListPayslips(ctx context.Context, filter PayslipFilter) ([]PayslipResponse, error)
	GetPayslip(ctx context.Context, id string) (PayslipResponse, error)
	DeletePayslip(ctx context.Context, id string) error

	CreatePayHead(ctx context.Context, req CreatePayHeadRequest) (PayHeadResponse, error)
	ListPayHeads(ctx context.Context, filter PayHeadFilter) ([]PayHeadResponse, error)
	DeletePayHead(ctx context.Context, id string) error
}
