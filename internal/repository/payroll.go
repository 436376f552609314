package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
)

type payrollRepositoryImpl struct {
	store *Store
}

func NewPayrollRepository(store *Store) payroll.PayrollRepository {
	return &payrollRepositoryImpl{store: store}
}

func payrollRunFromRow(r record.Row) payroll.PayrollRun {
	return payroll.PayrollRun{
		ID:                r.ID(),
		PeriodStart:       dateString(r.String("period_start")),
		PeriodEnd:         dateString(r.String("period_end")),
		EmployeeCount:     r.Int("employee_count"),
		TotalGross:        r.Decimal("total_gross"),
		TotalDeductions:   r.Decimal("total_deductions"),
		TotalNet:          r.Decimal("total_net"),
		Status:            payroll.RunStatus(r.String("status")),
		CreatedBy:         r.Int64Ptr("created_by"),
		SubmittedBy:       r.Int64Ptr("submitted_by"),
		SubmittedAt:       r.Time("submitted_at"),
		ManagerApprovedBy: r.Int64Ptr("manager_approved_by"),
		ManagerApprovedAt: r.Time("manager_approved_at"),
		EVPApprovedBy:     r.Int64Ptr("evp_approved_by"),
		EVPApprovedAt:     r.Time("evp_approved_at"),
		CreatedAt:         r.Time("created_at"),
		UpdatedAt:         r.Time("updated_at"),
	}
}

func payslipFromRow(r record.Row) payroll.Payslip {
	return payroll.Payslip{
		ID:              r.ID(),
		PayrollRunID:    r.Int64("payroll_run_id"),
		EmployeeID:      r.Int64("employee_id"),
		EmployeeName:    r.String("employee_name"),
		DailyRate:       r.Decimal("daily_rate"),
		DaysPresent:     r.Decimal("days_present"),
		BasicPay:        r.Decimal("basic_pay"),
		HolidayPay:      r.Decimal("holiday_pay"),
		Allowances:      r.DecimalMap("allowances"),
		TotalAllowances: r.Decimal("total_allowances"),
		GrossPay:        r.Decimal("gross_pay"),
		Deductions:      r.DecimalMap("deductions"),
		TotalDeductions: r.Decimal("total_deductions"),
		NetPay:          r.Decimal("net_pay"),
		CreatedAt:       r.Time("created_at"),
	}
}

func payslipRow(runID int64, p payroll.Payslip, now time.Time) record.Row {
	return record.Row{
		"payroll_run_id":   runID,
		"employee_id":      p.EmployeeID,
		"employee_name":    p.EmployeeName,
		"daily_rate":       p.DailyRate,
		"days_present":     p.DaysPresent,
		"basic_pay":        p.BasicPay,
		"holiday_pay":      p.HolidayPay,
		"allowances":       record.DecimalMapValue(p.Allowances),
		"total_allowances": p.TotalAllowances,
		"gross_pay":        p.GrossPay,
		"deductions":       record.DecimalMapValue(p.Deductions),
		"total_deductions": p.TotalDeductions,
		"net_pay":          p.NetPay,
		"created_at":       now,
	}
}

// GetRun implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetRun(ctx context.Context, id int64) (payroll.PayrollRun, error) {
	row, err := r.store.GetByID(ctx, record.TablePayrollRuns, id)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run %d: %w", id, err)
	}
	return payrollRunFromRow(row), nil
}

// ListRuns implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListRuns(ctx context.Context, filter payroll.PayrollRunFilter) ([]payroll.PayrollRun, error) {
	var where record.Filter
	if filter.Status != "" {
		where = append(where, record.Eq("status", filter.Status))
	}
	rows, err := r.store.Find(ctx, record.Query{
		Table:  record.TablePayrollRuns,
		Filter: where,
		Order:  record.OrderBy("period_start", true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	out := make([]payroll.PayrollRun, 0, len(rows))
	for _, row := range rows {
		out = append(out, payrollRunFromRow(row))
	}
	return out, nil
}

// CreateRun implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) CreateRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	now := time.Now().UTC()
	id, err := r.store.Insert(ctx, record.TablePayrollRuns, record.Row{
		"period_start":     run.PeriodStart,
		"period_end":       run.PeriodEnd,
		"employee_count":   run.EmployeeCount,
		"total_gross":      run.TotalGross,
		"total_deductions": run.TotalDeductions,
		"total_net":        run.TotalNet,
		"status":           string(run.Status),
		"created_by":       run.CreatedBy,
		"created_at":       now,
		"updated_at":       now,
	})
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}
	return r.GetRun(ctx, id)
}

// UpdateRunStatus implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) UpdateRunStatus(ctx context.Context, id int64, to payroll.RunStatus, actor *int64, at time.Time) error {
	row := record.Row{"status": string(to)}
	switch to {
	case payroll.RunStatusPendingManager:
		row["submitted_by"], row["submitted_at"] = actor, at.UTC()
	case payroll.RunStatusPendingEVP:
		row["manager_approved_by"], row["manager_approved_at"] = actor, at.UTC()
	case payroll.RunStatusFinalized:
		row["evp_approved_by"], row["evp_approved_at"] = actor, at.UTC()
	}

	n, err := r.store.Update(ctx, record.TablePayrollRuns, id, row)
	if err != nil {
		return fmt.Errorf("failed to update payroll run %d: %w", id, err)
	}
	if n == 0 {
		return payroll.ErrPayrollRunNotFound
	}
	return nil
}

// DeleteRun implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) DeleteRun(ctx context.Context, id int64) error {
	n, err := r.store.Remove(ctx, record.TablePayrollRuns, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll run %d: %w", id, err)
	}
	if n == 0 {
		return payroll.ErrPayrollRunNotFound
	}
	return nil
}

// CreatePayslips implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) CreatePayslips(ctx context.Context, runID int64, slips []payroll.Payslip) ([]payroll.Payslip, error) {
	now := time.Now().UTC()
	rows := make([]record.Row, len(slips))
	for i, p := range slips {
		rows[i] = payslipRow(runID, p, now)
	}

	ids, err := r.store.InsertBatch(ctx, record.TablePayslips, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to create payslips: %w", err)
	}

	out := make([]payroll.Payslip, len(slips))
	for i, p := range slips {
		p.ID = ids[i]
		p.PayrollRunID = runID
		p.CreatedAt = &now
		out[i] = p
	}
	return out, nil
}

// ListPayslips implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListPayslips(ctx context.Context, runID int64) ([]payroll.Payslip, error) {
	rows, err := r.store.Find(ctx, record.Query{
		Table:  record.TablePayslips,
		Filter: record.Where(record.Eq("payroll_run_id", runID)),
		Order:  record.OrderBy("id", false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	out := make([]payroll.Payslip, 0, len(rows))
	for _, row := range rows {
		out = append(out, payslipFromRow(row))
	}
	return out, nil
}

// DeletePayslipsByRun implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) DeletePayslipsByRun(ctx context.Context, runID int64) error {
	if _, err := r.store.RemoveWhere(ctx, record.TablePayslips, record.Where(record.Eq("payroll_run_id", runID))); err != nil {
		return fmt.Errorf("failed to delete payslips of run %d: %w", runID, err)
	}
	return nil
}

// DeletePayslipsByEmployee implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) DeletePayslipsByEmployee(ctx context.Context, employeeID int64) error {
	if _, err := r.store.RemoveWhere(ctx, record.TablePayslips, record.Where(record.Eq("employee_id", employeeID))); err != nil {
		return fmt.Errorf("failed to delete payslips of employee %d: %w", employeeID, err)
	}
	return nil
}
