package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
	"github.com/shopspring/decimal"
)

const auditEntity = "employee"

var employeeCodeSuffix = regexp.MustCompile(`^\d{4}-(\d+)$`)

type EmployeeServiceImpl struct {
	tx             record.Transactor
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	payrollRepo    payroll.PayrollRepository
	auditService   audit.AuditService
	now            func() time.Time
}

func NewEmployeeService(
	tx record.Transactor,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	payrollRepo payroll.PayrollRepository,
	auditService audit.AuditService,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:             tx,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		payrollRepo:    payrollRepo,
		auditService:   auditService,
		now:            time.Now,
	}
}

// GetNextEmployeeID implements employee.EmployeeService.
// Two callers racing on the same year can receive the same id; the unique
// index on employee_id is what rejects the second insert.
func (s *EmployeeServiceImpl) GetNextEmployeeID(ctx context.Context, year int) (string, error) {
	if year < 1000 || year > 9999 {
		return "", employee.ErrInvalidEmployeeID
	}
	prefix := fmt.Sprintf("%04d-", year)
	codes, err := s.employeeRepo.ListEmployeeCodes(ctx, prefix)
	if err != nil {
		return "", err
	}

	var max int
	for _, code := range codes {
		m := employeeCodeSuffix.FindStringSubmatch(code)
		if m == nil || !strings.HasPrefix(code, prefix) {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%04d", prefix, max+1), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	explicitCode := req.EmployeeID != nil && *req.EmployeeID != ""
	if explicitCode {
		_, err := s.employeeRepo.GetByEmployeeCode(ctx, *req.EmployeeID)
		if err == nil {
			return employee.Employee{}, employee.ErrEmployeeIDExists
		}
		if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
	}

	newEmployee := employee.Employee{
		FirstName:        strings.TrimSpace(req.FirstName),
		MiddleName:       req.MiddleName,
		LastName:         strings.TrimSpace(req.LastName),
		Email:            req.Email,
		ContactNumber:    req.ContactNumber,
		Department:       req.Department,
		Branch:           req.Branch,
		Position:         req.Position,
		EmploymentStatus: employee.EmploymentStatus(req.EmploymentStatus),
		DateHired:        req.DateHired,
		SSSNumber:        req.SSSNumber,
		PhilHealthNumber: req.PhilHealthNumber,
		PagIBIGNumber:    req.PagIBIGNumber,
		TINNumber:        req.TINNumber,
		SalaryInfo:       req.SalaryInfo,
		Checklist:        req.ChecklistUpdate.Apply(employee.Checklist{}),
	}
	if newEmployee.EmploymentStatus == "" {
		newEmployee.EmploymentStatus = employee.EmploymentProbationary
	}
	if newEmployee.SalaryInfo == nil {
		newEmployee.SalaryInfo = map[string]decimal.Decimal{}
	}
	newEmployee.FileCompletionStatus = employee.CalculateCompletionStatus(newEmployee)

	year := s.now().Year()
	if req.DateHired != nil {
		if d, err := time.Parse("2006-01-02", *req.DateHired); err == nil {
			year = d.Year()
		}
	}

	var created employee.Employee
	err := retryOnUniqueViolation(ctx, s.employeeRepo.ResetSequence, func() error {
		if explicitCode {
			newEmployee.EmployeeID = *req.EmployeeID
		} else {
			code, err := s.GetNextEmployeeID(ctx, year)
			if err != nil {
				return err
			}
			newEmployee.EmployeeID = code
		}

		return s.tx.WithTx(ctx, func(ctx context.Context) error {
			var err error
			created, err = s.employeeRepo.Create(ctx, newEmployee)
			if err != nil {
				return err
			}
			return s.auditService.Log(ctx, audit.ActionCreate, auditEntity, created.ID, nil, created)
		})
	})
	if err != nil {
		if explicitCode && errors.Is(err, record.ErrUniqueViolation) {
			return employee.Employee{}, employee.ErrEmployeeIDExists
		}
		return employee.Employee{}, err
	}

	slog.Info("employee created", "id", created.ID, "employee_id", created.EmployeeID)
	return created, nil
}

// retryOnUniqueViolation runs fn and, when it fails on a unique index only,
// heals the id sequence and runs it one more time.
func retryOnUniqueViolation(ctx context.Context, heal func(ctx context.Context) error, fn func() error) error {
	err := fn()
	if err == nil || !errors.Is(err, record.ErrUniqueViolation) {
		return err
	}

	slog.Warn("unique violation on insert, resetting sequence and retrying", "error", err)
	if herr := heal(ctx); herr != nil {
		return fmt.Errorf("failed to reset sequence after %v: %w", err, herr)
	}
	return fn()
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id int64) (employee.Employee, error) {
	return s.employeeRepo.GetByID(ctx, id)
}

// GetByEmployeeCode implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByEmployeeCode(ctx context.Context, code string) (employee.Employee, error) {
	return s.employeeRepo.GetByEmployeeCode(ctx, strings.TrimSpace(code))
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	return s.employeeRepo.List(ctx, filter)
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	var updated employee.Employee
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.employeeRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		next := current
		setString(&next.FirstName, req.FirstName)
		setString(&next.LastName, req.LastName)
		setString(&next.Department, req.Department)
		setString(&next.Branch, req.Branch)
		setString(&next.Position, req.Position)
		setOptional(&next.MiddleName, req.MiddleName)
		setOptional(&next.Email, req.Email)
		setOptional(&next.ContactNumber, req.ContactNumber)
		setOptional(&next.DateHired, req.DateHired)
		setOptional(&next.SSSNumber, req.SSSNumber)
		setOptional(&next.PhilHealthNumber, req.PhilHealthNumber)
		setOptional(&next.PagIBIGNumber, req.PagIBIGNumber)
		setOptional(&next.TINNumber, req.TINNumber)
		if req.EmploymentStatus != nil {
			next.EmploymentStatus = employee.EmploymentStatus(*req.EmploymentStatus)
		}
		if req.SalaryInfo != nil {
			next.SalaryInfo = req.SalaryInfo
		}
		if req.ChecklistUpdate.Touched() {
			next.Checklist = req.ChecklistUpdate.Apply(current.Checklist)
		}
		next.FileCompletionStatus = employee.CalculateCompletionStatus(next)

		if err := s.employeeRepo.Update(ctx, next); err != nil {
			return err
		}
		updated, err = s.employeeRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		return s.auditService.Log(ctx, audit.ActionUpdate, auditEntity, req.ID, current, updated)
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return updated, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// setOptional stores v, clearing the column when v is an empty string.
func setOptional(dst **string, v *string) {
	if v == nil {
		return
	}
	if *v == "" {
		*dst = nil
		return
	}
	s := *v
	*dst = &s
}

// Update201Checklist implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update201Checklist(ctx context.Context, id int64, req employee.ChecklistUpdate) (employee.Employee, error) {
	if !req.Touched() {
		return employee.Employee{}, employee.ErrEmptyChecklistUpdate
	}

	var updated employee.Employee
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		merged := req.Apply(current.Checklist)
		status := merged.Status()
		if err := s.employeeRepo.UpdateChecklist(ctx, id, merged, status); err != nil {
			return err
		}

		updated, err = s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return s.auditService.Log(ctx, audit.ActionUpdate, auditEntity, id, current.Checklist, merged)
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return updated, nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id int64) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := s.payrollRepo.DeletePayslipsByEmployee(ctx, id); err != nil {
			return err
		}
		if err := s.attendanceRepo.DeleteByEmployee(ctx, id); err != nil {
			return err
		}
		if err := s.leaveRepo.DeleteByEmployee(ctx, id); err != nil {
			return err
		}
		if err := s.employeeRepo.Delete(ctx, id); err != nil {
			return err
		}

		slog.Info("employee deleted", "id", id, "employee_id", current.EmployeeID)
		return s.auditService.Log(ctx, audit.ActionDelete, auditEntity, id, current, nil)
	})
}
