package leave

import (
	"context"
	"fmt"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/jsonfile"
	attendanceservice "github.com/cmlabs-hris/hris-payroll-go/internal/service/attendance"
	auditservice "github.com/cmlabs-hris/hris-payroll-go/internal/service/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T, levels int) (leave.LeaveService, attendance.AttendanceService) {
	t.Helper()
	backend, err := jsonfile.NewBackend(t.TempDir(), "db.json")
	require.NoError(t, err)
	store := repository.NewStore(backend)

	audits := auditservice.NewAuditService(repository.NewAuditRepository(store))
	attendanceSvc := attendanceservice.NewAttendanceService(store, repository.NewAttendanceRepository(store), audits)
	return NewLeaveService(store, repository.NewLeaveRequestRepository(store), attendanceSvc, audits, levels), attendanceSvc
}

func ptr[T any](v T) *T { return &v }

func createRequest(t *testing.T, svc leave.LeaveService, employeeID int64, leaveType, start, end string) leave.LeaveRequest {
	t.Helper()
	req, err := svc.CreateLeaveRequest(context.Background(), leave.CreateLeaveRequestRequest{
		EmployeeID: employeeID,
		LeaveType:  leaveType,
		StartDate:  start,
		EndDate:    end,
		Reason:     ptr("family matter"),
	})
	require.NoError(t, err)
	return req
}

func TestCreateLeaveRequest(t *testing.T) {
	svc, _ := newTestServices(t, 2)

	req := createRequest(t, svc, 1, "Vacation Leave", "2025-02-27", "2025-03-03")
	assert.Equal(t, 5, req.DaysCount)
	assert.Equal(t, 1, req.CurrentApprovalLevel)
	assert.Equal(t, leave.StatusPendingBranchManager, req.Status)
	assert.Empty(t, req.Approvals)

	_, err := svc.CreateLeaveRequest(context.Background(), leave.CreateLeaveRequestRequest{
		EmployeeID: 1, LeaveType: "Holiday", StartDate: "2025-03-01", EndDate: "2025-03-01",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leave_type")
}

func TestApproveLeaveRequest_TwoLevels(t *testing.T) {
	svc, attendanceSvc := newTestServices(t, 2)
	ctx := context.Background()

	req := createRequest(t, svc, 3, "Sick Leave", "2025-03-10", "2025-03-11")

	first, err := svc.ApproveLeaveRequest(ctx, req.ID, leave.ApprovalEvent{ApproverID: ptr(int64(20))})
	require.NoError(t, err)
	assert.Equal(t, leave.Status("Pending Level 2"), first.Status)
	assert.Equal(t, 2, first.CurrentApprovalLevel)
	require.Len(t, first.Approvals, 1)
	assert.Equal(t, 1, first.Approvals[0].Level)
	assert.Equal(t, int64(20), *first.Approvals[0].ApproverID)

	used, err := attendanceSvc.GetEmployeeLeaveCount(ctx, 3, 2025)
	require.NoError(t, err)
	assert.Zero(t, used)

	final, err := svc.ApproveLeaveRequest(ctx, req.ID, leave.ApprovalEvent{ApproverID: ptr(int64(21)), Remarks: ptr("ok")})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, final.Status)
	assert.Equal(t, 2, final.CurrentApprovalLevel)
	require.Len(t, final.Approvals, 2)
	assert.Equal(t, 2, final.Approvals[1].Level)
	assert.Equal(t, leave.DecisionApproved, final.Approvals[1].Decision)

	records, err := attendanceSvc.ListAttendance(ctx, attendance.AttendanceFilter{EmployeeID: ptr(int64(3))})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2025-03-10", records[0].Date)
	assert.Equal(t, attendance.StatusSickLeave, records[0].Status)
	assert.Equal(t, fmt.Sprintf("Leave request #%d", req.ID), *records[0].Remarks)

	_, err = svc.ApproveLeaveRequest(ctx, req.ID, leave.ApprovalEvent{})
	assert.ErrorIs(t, err, leave.ErrRequestFinalized)
	_, err = svc.RejectLeaveRequest(ctx, req.ID, leave.ApprovalEvent{})
	assert.ErrorIs(t, err, leave.ErrRequestFinalized)
}

func TestRejectLeaveRequest(t *testing.T) {
	svc, attendanceSvc := newTestServices(t, 2)
	ctx := context.Background()

	req := createRequest(t, svc, 4, "Emergency Leave", "2025-04-01", "2025-04-01")

	rejected, err := svc.RejectLeaveRequest(ctx, req.ID, leave.ApprovalEvent{Remarks: ptr("short staffed")})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, rejected.Status)
	assert.Equal(t, 1, rejected.CurrentApprovalLevel)
	require.Len(t, rejected.Approvals, 1)
	assert.Equal(t, leave.DecisionRejected, rejected.Approvals[0].Decision)

	_, err = svc.AdvanceApprovalLevel(ctx, req.ID)
	assert.ErrorIs(t, err, leave.ErrRequestFinalized)

	used, err := attendanceSvc.GetEmployeeLeaveCount(ctx, 4, 2025)
	require.NoError(t, err)
	assert.Zero(t, used)
}

func TestUpdateLeaveStatusThenAdvance(t *testing.T) {
	svc, _ := newTestServices(t, 3)
	ctx := context.Background()

	req := createRequest(t, svc, 5, "Vacation Leave", "2025-05-05", "2025-05-05")

	_, err := svc.AdvanceApprovalLevel(ctx, req.ID)
	assert.ErrorIs(t, err, leave.ErrApprovalLevelMismatch)

	updated, err := svc.UpdateLeaveStatus(ctx, req.ID, leave.ApprovalEvent{Decision: leave.DecisionApproved})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPendingBranchManager, updated.Status)
	require.Len(t, updated.Approvals, 1)

	advanced, err := svc.AdvanceApprovalLevel(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, advanced.CurrentApprovalLevel)
	assert.Equal(t, leave.Status("Pending Level 2"), advanced.Status)

	// The approval was for level 1, so it cannot advance level 2.
	_, err = svc.AdvanceApprovalLevel(ctx, req.ID)
	assert.ErrorIs(t, err, leave.ErrApprovalLevelMismatch)

	_, err = svc.UpdateLeaveStatus(ctx, req.ID, leave.ApprovalEvent{Decision: "Maybe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decision")
}

func TestApproveLeaveRequest_LeaveLimitRollsBack(t *testing.T) {
	svc, attendanceSvc := newTestServices(t, 1)
	ctx := context.Background()

	onLeave := string(attendance.StatusOnLeave)
	for day := 1; day <= 4; day++ {
		_, err := attendanceSvc.RecordAttendance(ctx, attendance.RecordAttendanceRequest{
			EmployeeID: 6,
			Date:       fmt.Sprintf("2025-01-%02d", day),
			Status:     &onLeave,
		})
		require.NoError(t, err)
	}

	req := createRequest(t, svc, 6, "Vacation Leave", "2025-06-02", "2025-06-03")
	_, err := svc.ApproveLeaveRequest(ctx, req.ID, leave.ApprovalEvent{})
	require.Error(t, err)
	assert.ErrorIs(t, err, attendance.ErrLeaveLimitExceeded)

	current, err := svc.GetLeaveRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPendingBranchManager, current.Status)
	assert.Empty(t, current.Approvals)

	used, err := attendanceSvc.GetEmployeeLeaveCount(ctx, 6, 2025)
	require.NoError(t, err)
	assert.Equal(t, 4, used)
}

func TestListLeaveRequests(t *testing.T) {
	svc, _ := newTestServices(t, 2)
	ctx := context.Background()

	createRequest(t, svc, 1, "Sick Leave", "2025-01-06", "2025-01-06")
	second := createRequest(t, svc, 2, "Sick Leave", "2025-01-07", "2025-01-07")
	_, err := svc.RejectLeaveRequest(ctx, second.ID, leave.ApprovalEvent{})
	require.NoError(t, err)

	pending, err := svc.ListLeaveRequests(ctx, leave.LeaveRequestFilter{Status: string(leave.StatusPendingBranchManager)})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(1), pending[0].EmployeeID)

	mine, err := svc.ListLeaveRequests(ctx, leave.LeaveRequestFilter{EmployeeID: ptr(int64(2))})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, leave.StatusRejected, mine[0].Status)

	_, err = svc.GetLeaveRequest(ctx, 99)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}
