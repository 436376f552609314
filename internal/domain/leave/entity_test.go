package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingStatus(t *testing.T) {
	assert.Equal(t, StatusPendingBranchManager, PendingStatus(1))
	assert.Equal(t, Status("Pending Level 2"), PendingStatus(2))
	assert.Equal(t, Status("Pending Level 3"), PendingStatus(3))
	assert.False(t, PendingStatus(2).IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
}

func TestDaysCount(t *testing.T) {
	d := func(s string) time.Time {
		v, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, 1, DaysCount(d("2024-03-01"), d("2024-03-01")))
	assert.Equal(t, 3, DaysCount(d("2024-02-28"), d("2024-03-01")))
	assert.Equal(t, 0, DaysCount(d("2024-03-02"), d("2024-03-01")))
}

func TestLeaveRequest_Dates(t *testing.T) {
	dates, err := LeaveRequest{StartDate: "2024-12-30", EndDate: "2025-01-01"}.Dates()
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-12-30", "2024-12-31", "2025-01-01"}, dates)
}

func TestCreateLeaveRequestRequest_Validate(t *testing.T) {
	req := CreateLeaveRequestRequest{EmployeeID: 1, LeaveType: "Sick Leave", StartDate: "2024-03-05", EndDate: "2024-03-01"}
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end_date")

	req.EndDate = "2024-03-06"
	assert.NoError(t, req.Validate())
}
