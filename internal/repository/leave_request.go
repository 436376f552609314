package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
)

type leaveRequestRepositoryImpl struct {
	store *Store
}

func NewLeaveRequestRepository(store *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{store: store}
}

func leaveRequestFromRow(r record.Row) (leave.LeaveRequest, error) {
	req := leave.LeaveRequest{
		ID:                   r.ID(),
		EmployeeID:           r.Int64("employee_id"),
		LeaveType:            r.String("leave_type"),
		StartDate:            dateString(r.String("start_date")),
		EndDate:              dateString(r.String("end_date")),
		DaysCount:            r.Int("days_count"),
		Reason:               r.StringPtr("reason"),
		CurrentApprovalLevel: r.Int("current_approval_level"),
		Status:               leave.Status(r.String("status")),
		CreatedAt:            r.Time("created_at"),
		UpdatedAt:            r.Time("updated_at"),
		Approvals:            []leave.Approval{},
	}
	if err := r.Decode("approvals", &req.Approvals); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("decode approvals of leave request %d: %w", req.ID, err)
	}
	if req.Approvals == nil {
		req.Approvals = []leave.Approval{}
	}
	return req, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id int64) (leave.LeaveRequest, error) {
	row, err := r.store.GetByID(ctx, record.TableLeaveRequests, id)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request %d: %w", id, err)
	}
	return leaveRequestFromRow(row)
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	var where record.Filter
	if filter.EmployeeID != nil {
		where = append(where, record.Eq("employee_id", *filter.EmployeeID))
	}
	if filter.Status != "" {
		where = append(where, record.Eq("status", filter.Status))
	}

	rows, err := r.store.Find(ctx, record.Query{
		Table:  record.TableLeaveRequests,
		Filter: where,
		Order:  record.OrderBy("id", false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	out := make([]leave.LeaveRequest, 0, len(rows))
	for _, row := range rows {
		req, err := leaveRequestFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	approvals := req.Approvals
	if approvals == nil {
		approvals = []leave.Approval{}
	}
	now := time.Now().UTC()
	id, err := r.store.Insert(ctx, record.TableLeaveRequests, record.Row{
		"employee_id":            req.EmployeeID,
		"leave_type":             req.LeaveType,
		"start_date":             req.StartDate,
		"end_date":               req.EndDate,
		"days_count":             req.DaysCount,
		"reason":                 req.Reason,
		"approvals":              approvals,
		"current_approval_level": req.CurrentApprovalLevel,
		"status":                 string(req.Status),
		"created_at":             now,
		"updated_at":             now,
	})
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return r.GetByID(ctx, id)
}

// AppendApproval implements leave.LeaveRequestRepository. The stored list
// is re-read inside the transaction so entries are only ever added.
func (r *leaveRequestRepositoryImpl) AppendApproval(ctx context.Context, id int64, a leave.Approval, status leave.Status) error {
	return r.store.WithTx(ctx, func(ctx context.Context) error {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		approvals := append(current.Approvals, a)
		if _, err := r.store.Update(ctx, record.TableLeaveRequests, id, record.Row{
			"approvals": approvals,
			"status":    string(status),
		}); err != nil {
			return fmt.Errorf("failed to append approval to leave request %d: %w", id, err)
		}
		return nil
	})
}

// UpdateLevel implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateLevel(ctx context.Context, id int64, level int, status leave.Status) error {
	return r.store.WithTx(ctx, func(ctx context.Context) error {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if level < current.CurrentApprovalLevel {
			return leave.ErrApprovalLevelRegression
		}
		if _, err := r.store.Update(ctx, record.TableLeaveRequests, id, record.Row{
			"current_approval_level": level,
			"status":                 string(status),
		}); err != nil {
			return fmt.Errorf("failed to update approval level of leave request %d: %w", id, err)
		}
		return nil
	})
}

// DeleteByEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) DeleteByEmployee(ctx context.Context, employeeID int64) error {
	if _, err := r.store.RemoveWhere(ctx, record.TableLeaveRequests, record.Where(record.Eq("employee_id", employeeID))); err != nil {
		return fmt.Errorf("failed to delete leave requests of employee %d: %w", employeeID, err)
	}
	return nil
}
