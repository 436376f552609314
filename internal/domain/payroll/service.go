package payroll

import "context"

type PayrollService interface {
	// GeneratePayrollRun computes payslips for the period and stores them
	// with a Draft run.
	GeneratePayrollRun(ctx context.Context, req GeneratePayrollRunRequest) (PayrollRunDetail, error)
	GetPayrollRun(ctx context.Context, id int64) (PayrollRunDetail, error)
	ListPayrollRuns(ctx context.Context, filter PayrollRunFilter) ([]PayrollRun, error)
	ListPayslips(ctx context.Context, runID int64) ([]Payslip, error)

	// SubmitPayrollRun moves Draft to Pending Manager
	SubmitPayrollRun(ctx context.Context, id int64) (PayrollRun, error)
	// ManagerApprove moves Pending Manager to Pending EVP
	ManagerApprove(ctx context.Context, id int64) (PayrollRun, error)
	// EVPApprove moves Pending EVP to Finalized
	EVPApprove(ctx context.Context, id int64) (PayrollRun, error)

	DeletePayrollRun(ctx context.Context, id int64) error
}
