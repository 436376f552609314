package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	auditEntity = "payroll_run"

	// computeWorkers bounds concurrent payslip computations.
	computeWorkers = 8
)

type PayrollServiceImpl struct {
	tx                record.Transactor
	payrollRepo       payroll.PayrollRepository
	employeeRepo      employee.EmployeeRepository
	attendanceService attendance.AttendanceService
	auditService      audit.AuditService
	now               func() time.Time
}

func NewPayrollService(
	tx record.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceService attendance.AttendanceService,
	auditService audit.AuditService,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		tx:                tx,
		payrollRepo:       payrollRepo,
		employeeRepo:      employeeRepo,
		attendanceService: attendanceService,
		auditService:      auditService,
		now:               time.Now,
	}
}

func actorFromContext(ctx context.Context) *int64 {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil
	}
	return &claims.UserID
}

// GeneratePayrollRun implements payroll.PayrollService.
func (s *PayrollServiceImpl) GeneratePayrollRun(ctx context.Context, req payroll.GeneratePayrollRunRequest) (payroll.PayrollRunDetail, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRunDetail{}, err
	}

	employees, err := s.payableEmployees(ctx, req.EmployeeIDs)
	if err != nil {
		return payroll.PayrollRunDetail{}, err
	}
	if len(employees) == 0 {
		return payroll.PayrollRunDetail{}, payroll.ErrNoActiveEmployees
	}

	holidays := make(map[string]bool, len(req.Holidays))
	for _, h := range req.Holidays {
		holidays[h] = true
	}

	slips := make([]payroll.Payslip, len(employees))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(computeWorkers)
	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			slip, err := s.computePayslip(gCtx, emp, req.PeriodStart, req.PeriodEnd, holidays)
			if err != nil {
				return fmt.Errorf("employee %s: %w", emp.EmployeeID, err)
			}
			slips[i] = slip
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.PayrollRunDetail{}, err
	}

	run := payroll.PayrollRun{
		PeriodStart:     req.PeriodStart,
		PeriodEnd:       req.PeriodEnd,
		EmployeeCount:   len(slips),
		TotalGross:      decimal.Zero,
		TotalDeductions: decimal.Zero,
		TotalNet:        decimal.Zero,
		Status:          payroll.RunStatusDraft,
		CreatedBy:       actorFromContext(ctx),
	}
	for _, p := range slips {
		run.TotalGross = run.TotalGross.Add(p.GrossPay)
		run.TotalDeductions = run.TotalDeductions.Add(p.TotalDeductions)
		run.TotalNet = run.TotalNet.Add(p.NetPay)
	}

	var detail payroll.PayrollRunDetail
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		created, err := s.payrollRepo.CreateRun(ctx, run)
		if err != nil {
			return err
		}
		saved, err := s.payrollRepo.CreatePayslips(ctx, created.ID, slips)
		if err != nil {
			return err
		}
		detail = payroll.PayrollRunDetail{PayrollRun: created, Payslips: saved}
		return s.auditService.Log(ctx, audit.ActionCreate, auditEntity, created.ID, nil, created)
	})
	if err != nil {
		return payroll.PayrollRunDetail{}, err
	}

	slog.Info("payroll run generated",
		"id", detail.ID,
		"period_start", detail.PeriodStart,
		"period_end", detail.PeriodEnd,
		"employees", detail.EmployeeCount,
		"total_net", detail.TotalNet.StringFixed(2),
	)
	return detail, nil
}

// payableEmployees returns the requested employees, or every active one.
func (s *PayrollServiceImpl) payableEmployees(ctx context.Context, ids []int64) ([]employee.Employee, error) {
	if len(ids) > 0 {
		out := make([]employee.Employee, 0, len(ids))
		for _, id := range ids {
			e, err := s.employeeRepo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	}

	all, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]employee.Employee, 0, len(all))
	for _, e := range all {
		if e.EmploymentStatus.IsActive() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *PayrollServiceImpl) computePayslip(ctx context.Context, emp employee.Employee, start, end string, holidays map[string]bool) (payroll.Payslip, error) {
	records, err := s.attendanceService.ListAttendance(ctx, attendance.AttendanceFilter{
		EmployeeID: &emp.ID,
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		return payroll.Payslip{}, err
	}

	summary := attendance.Summary{EmployeeID: emp.ID}
	holidaysWorked := decimal.Zero
	for _, r := range records {
		summary.Add(r.Status)
		if !holidays[r.Date] {
			continue
		}
		switch r.Status {
		case attendance.StatusPresent, attendance.StatusLate:
			holidaysWorked = holidaysWorked.Add(decimal.NewFromInt(1))
		case attendance.StatusHalfDay:
			holidaysWorked = holidaysWorked.Add(decimal.NewFromFloat(0.5))
		}
	}

	c := payroll.Calculate(payroll.CalculationInput{
		SalaryInfo:     emp.SalaryInfo,
		DaysWorked:     summary.DaysWorked(),
		HolidaysWorked: holidaysWorked,
	})
	return payroll.Payslip{
		EmployeeID:      emp.ID,
		EmployeeName:    emp.FullName(),
		DailyRate:       c.DailyRate,
		DaysPresent:     summary.DaysWorked(),
		BasicPay:        c.BasicPay,
		HolidayPay:      c.HolidayPay,
		Allowances:      c.Allowances,
		TotalAllowances: c.TotalAllowances,
		GrossPay:        c.GrossPay,
		Deductions:      c.Deductions,
		TotalDeductions: c.TotalDeductions,
		NetPay:          c.NetPay,
	}, nil
}

// GetPayrollRun implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayrollRun(ctx context.Context, id int64) (payroll.PayrollRunDetail, error) {
	run, err := s.payrollRepo.GetRun(ctx, id)
	if err != nil {
		return payroll.PayrollRunDetail{}, err
	}
	slips, err := s.payrollRepo.ListPayslips(ctx, id)
	if err != nil {
		return payroll.PayrollRunDetail{}, err
	}
	return payroll.PayrollRunDetail{PayrollRun: run, Payslips: slips}, nil
}

// ListPayrollRuns implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPayrollRuns(ctx context.Context, filter payroll.PayrollRunFilter) ([]payroll.PayrollRun, error) {
	return s.payrollRepo.ListRuns(ctx, filter)
}

// ListPayslips implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPayslips(ctx context.Context, runID int64) ([]payroll.Payslip, error) {
	if _, err := s.payrollRepo.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.payrollRepo.ListPayslips(ctx, runID)
}

// SubmitPayrollRun implements payroll.PayrollService.
func (s *PayrollServiceImpl) SubmitPayrollRun(ctx context.Context, id int64) (payroll.PayrollRun, error) {
	return s.transition(ctx, id, payroll.RunStatusDraft, audit.ActionSubmit)
}

// ManagerApprove implements payroll.PayrollService.
func (s *PayrollServiceImpl) ManagerApprove(ctx context.Context, id int64) (payroll.PayrollRun, error) {
	return s.transition(ctx, id, payroll.RunStatusPendingManager, audit.ActionApprove)
}

// EVPApprove implements payroll.PayrollService.
func (s *PayrollServiceImpl) EVPApprove(ctx context.Context, id int64) (payroll.PayrollRun, error) {
	return s.transition(ctx, id, payroll.RunStatusPendingEVP, audit.ActionApprove)
}

// transition moves a run that is currently in from to the next status.
func (s *PayrollServiceImpl) transition(ctx context.Context, id int64, from payroll.RunStatus, action string) (payroll.PayrollRun, error) {
	to, _ := from.Next()

	var updated payroll.PayrollRun
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.payrollRepo.GetRun(ctx, id)
		if err != nil {
			return err
		}
		if current.Status != from {
			return fmt.Errorf("%w: run %d is %q, expected %q", payroll.ErrInvalidTransition, id, current.Status, from)
		}

		if err := s.payrollRepo.UpdateRunStatus(ctx, id, to, actorFromContext(ctx), s.now()); err != nil {
			return err
		}
		updated, err = s.payrollRepo.GetRun(ctx, id)
		if err != nil {
			return err
		}
		return s.auditService.Log(ctx, action, auditEntity, id, current, updated)
	})
	if err != nil {
		if errors.Is(err, payroll.ErrInvalidTransition) {
			slog.Warn("payroll transition refused", "id", id, "to", to, "error", err)
		}
		return payroll.PayrollRun{}, err
	}

	slog.Info("payroll run status changed", "id", id, "from", from, "to", to)
	return updated, nil
}

// DeletePayrollRun implements payroll.PayrollService.
func (s *PayrollServiceImpl) DeletePayrollRun(ctx context.Context, id int64) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.payrollRepo.GetRun(ctx, id)
		if err != nil {
			return err
		}
		if current.Status != payroll.RunStatusDraft {
			return payroll.ErrRunNotDraft
		}
		if err := s.payrollRepo.DeletePayslipsByRun(ctx, id); err != nil {
			return err
		}
		if err := s.payrollRepo.DeleteRun(ctx, id); err != nil {
			return err
		}
		return s.auditService.Log(ctx, audit.ActionDelete, auditEntity, id, current, nil)
	})
}
