package leave

import "context"

type LeaveService interface {
	CreateLeaveRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequest, error)
	GetLeaveRequest(ctx context.Context, id int64) (LeaveRequest, error)
	ListLeaveRequests(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)

	// UpdateLeaveStatus appends the event to the approval history. A
	// rejection is terminal; an approval leaves the status for AdvanceApprovalLevel.
	UpdateLeaveStatus(ctx context.Context, id int64, event ApprovalEvent) (LeaveRequest, error)

	// AdvanceApprovalLevel moves the request to the next tier, or to Approved
	// after the last one.
	AdvanceApprovalLevel(ctx context.Context, id int64) (LeaveRequest, error)

	// ApproveLeaveRequest records an approval and advances in one transaction.
	// Final approval writes leave attendance for every day of the request.
	ApproveLeaveRequest(ctx context.Context, id int64, event ApprovalEvent) (LeaveRequest, error)
	RejectLeaveRequest(ctx context.Context, id int64, event ApprovalEvent) (LeaveRequest, error)
}
