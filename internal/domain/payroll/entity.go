package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus is a step of the linear approval chain of a payroll run.
type RunStatus string

const (
	RunStatusDraft          RunStatus = "Draft"
	RunStatusPendingManager RunStatus = "Pending Manager"
	RunStatusPendingEVP     RunStatus = "Pending EVP"
	RunStatusFinalized      RunStatus = "Finalized"
)

// Next returns the status that follows s, if any.
func (s RunStatus) Next() (RunStatus, bool) {
	switch s {
	case RunStatusDraft:
		return RunStatusPendingManager, true
	case RunStatusPendingManager:
		return RunStatusPendingEVP, true
	case RunStatusPendingEVP:
		return RunStatusFinalized, true
	}
	return "", false
}

type PayrollRun struct {
	ID                int64           `json:"id"`
	PeriodStart       string          `json:"period_start"`
	PeriodEnd         string          `json:"period_end"`
	EmployeeCount     int             `json:"employee_count"`
	TotalGross        decimal.Decimal `json:"total_gross"`
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	TotalNet          decimal.Decimal `json:"total_net"`
	Status            RunStatus       `json:"status"`
	CreatedBy         *int64          `json:"created_by,omitempty"`
	SubmittedBy       *int64          `json:"submitted_by,omitempty"`
	SubmittedAt       *time.Time      `json:"submitted_at,omitempty"`
	ManagerApprovedBy *int64          `json:"manager_approved_by,omitempty"`
	ManagerApprovedAt *time.Time      `json:"manager_approved_at,omitempty"`
	EVPApprovedBy     *int64          `json:"evp_approved_by,omitempty"`
	EVPApprovedAt     *time.Time      `json:"evp_approved_at,omitempty"`
	CreatedAt         *time.Time      `json:"created_at,omitempty"`
	UpdatedAt         *time.Time      `json:"updated_at,omitempty"`
}

type Payslip struct {
	ID              int64                      `json:"id"`
	PayrollRunID    int64                      `json:"payroll_run_id"`
	EmployeeID      int64                      `json:"employee_id"`
	EmployeeName    string                     `json:"employee_name"`
	DailyRate       decimal.Decimal            `json:"daily_rate"`
	DaysPresent     decimal.Decimal            `json:"days_present"`
	BasicPay        decimal.Decimal            `json:"basic_pay"`
	HolidayPay      decimal.Decimal            `json:"holiday_pay"`
	Allowances      map[string]decimal.Decimal `json:"allowances"`
	TotalAllowances decimal.Decimal            `json:"total_allowances"`
	GrossPay        decimal.Decimal            `json:"gross_pay"`
	Deductions      map[string]decimal.Decimal `json:"deductions"`
	TotalDeductions decimal.Decimal            `json:"total_deductions"`
	NetPay          decimal.Decimal            `json:"net_pay"`
	CreatedAt       *time.Time                 `json:"created_at,omitempty"`
}

// PayrollRunDetail is a run with its payslips.
type PayrollRunDetail struct {
	PayrollRun
	Payslips []Payslip `json:"payslips"`
}
