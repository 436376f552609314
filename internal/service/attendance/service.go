package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

const auditEntity = "attendance"

type AttendanceServiceImpl struct {
	tx             record.Transactor
	attendanceRepo attendance.AttendanceRepository
	auditService   audit.AuditService
}

func NewAttendanceService(tx record.Transactor, attendanceRepo attendance.AttendanceRepository, auditService audit.AuditService) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		auditService:   auditService,
	}
}

// RecordAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordAttendance(ctx context.Context, req attendance.RecordAttendanceRequest) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}
	day, _ := time.Parse("2006-01-02", req.Date)
	year := day.Year()

	// Inference reads outside the transaction. On PostgreSQL a failed count
	// aborts the open transaction and the Absent fallback could not be saved.
	status, err := s.resolveStatus(ctx, req, year)
	if err != nil {
		return attendance.Attendance{}, err
	}

	var saved attendance.Attendance
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, req.Date)
		found := err == nil
		if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
			return err
		}

		if status.IsLeave() && (!found || !existing.Status.IsLeave()) {
			used, err := s.attendanceRepo.CountLeaveDays(ctx, req.EmployeeID, year)
			if err != nil {
				return err
			}
			if used >= attendance.AnnualLeaveEntitlement {
				slog.Warn("leave limit reached, attendance not recorded",
					"employee_id", req.EmployeeID, "date", req.Date, "used", used)
				return &attendance.LeaveLimitExceededError{
					EmployeeID: req.EmployeeID,
					Year:       year,
					Used:       used,
					Limit:      attendance.AnnualLeaveEntitlement,
				}
			}
		}

		if found {
			before := existing
			existing.Status = status
			if req.TimeIn != nil {
				existing.TimeIn = req.TimeIn
			}
			if req.TimeOut != nil {
				existing.TimeOut = req.TimeOut
			}
			if req.Remarks != nil {
				existing.Remarks = req.Remarks
			}
			if err := s.attendanceRepo.Update(ctx, existing); err != nil {
				return err
			}
			saved, err = s.attendanceRepo.GetByID(ctx, existing.ID)
			if err != nil {
				return err
			}
			return s.auditService.Log(ctx, audit.ActionUpdate, auditEntity, saved.ID, before, saved)
		}

		saved, err = s.attendanceRepo.Create(ctx, attendance.Attendance{
			EmployeeID: req.EmployeeID,
			Date:       req.Date,
			Status:     status,
			TimeIn:     req.TimeIn,
			TimeOut:    req.TimeOut,
			Remarks:    req.Remarks,
		})
		if err != nil {
			return err
		}
		return s.auditService.Log(ctx, audit.ActionCreate, auditEntity, saved.ID, nil, saved)
	})
	if err != nil {
		return attendance.Attendance{}, err
	}
	return saved, nil
}

// resolveStatus picks the status to store. An explicit status wins; clock
// times alone mean Present. With neither, a day already on record keeps its
// status. A new day is treated as leave while entitlement remains and as
// Absent otherwise, including when the count cannot be read.
func (s *AttendanceServiceImpl) resolveStatus(ctx context.Context, req attendance.RecordAttendanceRequest, year int) (attendance.Status, error) {
	if req.Status != nil && *req.Status != "" {
		return attendance.Status(*req.Status), nil
	}
	if req.HasTime() {
		return attendance.StatusPresent, nil
	}

	existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, req.Date)
	if err == nil {
		return existing.Status, nil
	}
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return "", err
	}

	used, err := s.attendanceRepo.CountLeaveDays(ctx, req.EmployeeID, year)
	if err != nil {
		slog.Warn("failed to count leave days, recording as absent", "employee_id", req.EmployeeID, "error", err)
		return attendance.StatusAbsent, nil
	}
	if used < attendance.AnnualLeaveEntitlement {
		return attendance.StatusOnLeave, nil
	}
	return attendance.StatusAbsent, nil
}

// GetEmployeeLeaveCount implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetEmployeeLeaveCount(ctx context.Context, employeeID int64, year int) (int, error) {
	return s.attendanceRepo.CountLeaveDays(ctx, employeeID, year)
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	var errs validator.ValidationErrors
	if filter.StartDate != "" {
		if _, ok := validator.IsValidDate(filter.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
		}
	}
	if filter.EndDate != "" {
		if _, ok := validator.IsValidDate(filter.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return s.attendanceRepo.List(ctx, filter)
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id int64) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.attendanceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.attendanceRepo.Delete(ctx, id); err != nil {
			return err
		}
		return s.auditService.Log(ctx, audit.ActionDelete, auditEntity, id, current, nil)
	})
}

// Summarize implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Summarize(ctx context.Context, employeeID int64, startDate, endDate string) (attendance.Summary, error) {
	var errs validator.ValidationErrors
	validator.ValidateDateRange(&errs, "start_date", startDate, "end_date", endDate)
	if len(errs) > 0 {
		return attendance.Summary{}, errs
	}

	records, err := s.attendanceRepo.List(ctx, attendance.AttendanceFilter{
		EmployeeID: &employeeID,
		StartDate:  startDate,
		EndDate:    endDate,
	})
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to summarize attendance: %w", err)
	}

	summary := attendance.Summary{EmployeeID: employeeID}
	for _, r := range records {
		summary.Add(r.Status)
	}
	return summary, nil
}
