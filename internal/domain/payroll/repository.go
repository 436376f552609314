package payroll

import (
	"context"
	"time"
)

type PayrollRepository interface {
	GetRun(ctx context.Context, id int64) (PayrollRun, error)
	ListRuns(ctx context.Context, filter PayrollRunFilter) ([]PayrollRun, error)
	CreateRun(ctx context.Context, run PayrollRun) (PayrollRun, error)
	// UpdateRunStatus sets status and stamps the actor columns of that step.
	UpdateRunStatus(ctx context.Context, id int64, to RunStatus, actor *int64, at time.Time) error
	DeleteRun(ctx context.Context, id int64) error

	CreatePayslips(ctx context.Context, runID int64, slips []Payslip) ([]Payslip, error)
	ListPayslips(ctx context.Context, runID int64) ([]Payslip, error)
	DeletePayslipsByRun(ctx context.Context, runID int64) error
	DeletePayslipsByEmployee(ctx context.Context, employeeID int64) error
}
