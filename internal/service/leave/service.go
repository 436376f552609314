package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

const auditEntity = "leave_request"

type LeaveServiceImpl struct {
	tx                record.Transactor
	leaveRepo         leave.LeaveRequestRepository
	attendanceService attendance.AttendanceService
	auditService      audit.AuditService
	approvalLevels    int
	now               func() time.Time
}

func NewLeaveService(
	tx record.Transactor,
	leaveRepo leave.LeaveRequestRepository,
	attendanceService attendance.AttendanceService,
	auditService audit.AuditService,
	approvalLevels int,
) leave.LeaveService {
	if approvalLevels < 1 {
		approvalLevels = 1
	}
	return &LeaveServiceImpl{
		tx:                tx,
		leaveRepo:         leaveRepo,
		attendanceService: attendanceService,
		auditService:      auditService,
		approvalLevels:    approvalLevels,
		now:               time.Now,
	}
}

// CreateLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}
	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	var created leave.LeaveRequest
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.leaveRepo.Create(ctx, leave.LeaveRequest{
			EmployeeID:           req.EmployeeID,
			LeaveType:            req.LeaveType,
			StartDate:            req.StartDate,
			EndDate:              req.EndDate,
			DaysCount:            leave.DaysCount(start, end),
			Reason:               req.Reason,
			Approvals:            []leave.Approval{},
			CurrentApprovalLevel: 1,
			Status:               leave.PendingStatus(1),
		})
		if err != nil {
			return err
		}
		return s.auditService.Log(ctx, audit.ActionCreate, auditEntity, created.ID, nil, created)
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return created, nil
}

// GetLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, id int64) (leave.LeaveRequest, error) {
	return s.leaveRepo.GetByID(ctx, id)
}

// ListLeaveRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	return s.leaveRepo.List(ctx, filter)
}

// UpdateLeaveStatus implements leave.LeaveService.
func (s *LeaveServiceImpl) UpdateLeaveStatus(ctx context.Context, id int64, event leave.ApprovalEvent) (leave.LeaveRequest, error) {
	if err := event.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	var updated leave.LeaveRequest
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.leaveRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Status.IsTerminal() {
			return leave.ErrRequestFinalized
		}

		approval := leave.Approval{
			Level:      current.CurrentApprovalLevel,
			ApproverID: s.approverID(ctx, event),
			Decision:   event.Decision,
			Remarks:    event.Remarks,
			At:         s.now().UTC(),
		}
		status := current.Status
		action := audit.ActionApprove
		if event.Decision == leave.DecisionRejected {
			status = leave.StatusRejected
			action = audit.ActionReject
		}

		if err := s.leaveRepo.AppendApproval(ctx, id, approval, status); err != nil {
			return err
		}
		updated, err = s.leaveRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return s.auditService.Log(ctx, action, auditEntity, id, current, updated)
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return updated, nil
}

// approverID prefers the id in the event and falls back to the caller.
func (s *LeaveServiceImpl) approverID(ctx context.Context, event leave.ApprovalEvent) *int64 {
	if event.ApproverID != nil {
		return event.ApproverID
	}
	if claims, err := jwt.ClaimsFromContext(ctx); err == nil {
		return &claims.UserID
	}
	return nil
}

// AdvanceApprovalLevel implements leave.LeaveService. The latest history
// entry must be an approval at the current level.
func (s *LeaveServiceImpl) AdvanceApprovalLevel(ctx context.Context, id int64) (leave.LeaveRequest, error) {
	var updated leave.LeaveRequest
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.leaveRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Status.IsTerminal() {
			return leave.ErrRequestFinalized
		}
		if n := len(current.Approvals); n == 0 ||
			current.Approvals[n-1].Level != current.CurrentApprovalLevel ||
			current.Approvals[n-1].Decision != leave.DecisionApproved {
			return leave.ErrApprovalLevelMismatch
		}

		level := current.CurrentApprovalLevel + 1
		status := leave.PendingStatus(level)
		if level > s.approvalLevels {
			level = current.CurrentApprovalLevel
			status = leave.StatusApproved
		}
		if err := s.leaveRepo.UpdateLevel(ctx, id, level, status); err != nil {
			return err
		}

		slog.Info("leave request advanced", "id", id, "level", level, "status", status)
		updated, err = s.leaveRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return updated, nil
}

// ApproveLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) ApproveLeaveRequest(ctx context.Context, id int64, event leave.ApprovalEvent) (leave.LeaveRequest, error) {
	event.Decision = leave.DecisionApproved

	var result leave.LeaveRequest
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.UpdateLeaveStatus(ctx, id, event); err != nil {
			return err
		}
		advanced, err := s.AdvanceApprovalLevel(ctx, id)
		if err != nil {
			return err
		}
		if advanced.Status == leave.StatusApproved {
			if err := s.recordLeaveDays(ctx, advanced); err != nil {
				return err
			}
		}
		result = advanced
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return result, nil
}

// recordLeaveDays writes a leave attendance row for each requested day.
// Leave types that are also attendance statuses keep their name.
func (s *LeaveServiceImpl) recordLeaveDays(ctx context.Context, req leave.LeaveRequest) error {
	dates, err := req.Dates()
	if err != nil {
		return fmt.Errorf("invalid leave request dates: %w", err)
	}

	status := string(attendance.StatusOnLeave)
	if validator.IsInSlice(req.LeaveType, attendance.Statuses) {
		status = req.LeaveType
	}
	remarks := fmt.Sprintf("Leave request #%d", req.ID)

	for _, d := range dates {
		if _, err := s.attendanceService.RecordAttendance(ctx, attendance.RecordAttendanceRequest{
			EmployeeID: req.EmployeeID,
			Date:       d,
			Status:     &status,
			Remarks:    &remarks,
		}); err != nil {
			return err
		}
	}
	return nil
}

// RejectLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) RejectLeaveRequest(ctx context.Context, id int64, event leave.ApprovalEvent) (leave.LeaveRequest, error) {
	event.Decision = leave.DecisionRejected
	return s.UpdateLeaveStatus(ctx, id, event)
}
