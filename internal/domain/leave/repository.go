package leave

import "context"

type LeaveRequestRepository interface {
	GetByID(ctx context.Context, id int64) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	// AppendApproval adds a to the stored approval history and sets status.
	AppendApproval(ctx context.Context, id int64, a Approval, status Status) error
	// UpdateLevel refuses a level lower than the stored one.
	UpdateLevel(ctx context.Context, id int64, level int, status Status) error
	DeleteByEmployee(ctx context.Context, employeeID int64) error
}
