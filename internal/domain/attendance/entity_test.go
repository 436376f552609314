package attendance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_IsLeave(t *testing.T) {
	assert.True(t, StatusOnLeave.IsLeave())
	assert.True(t, StatusSickLeave.IsLeave())
	assert.True(t, Status("leave without pay").IsLeave())
	assert.False(t, StatusPresent.IsLeave())
	assert.False(t, StatusHalfDay.IsLeave())
}

func TestSummary_DaysWorked(t *testing.T) {
	var s Summary
	for _, st := range []Status{StatusPresent, StatusPresent, StatusLate, StatusHalfDay, StatusAbsent, StatusOnLeave} {
		s.Add(st)
	}
	assert.Equal(t, "3.5", s.DaysWorked().String())
	assert.Equal(t, 1, s.Absent)
	assert.Equal(t, 1, s.Leave)
}

func TestLeaveLimitExceededError(t *testing.T) {
	var err error = &LeaveLimitExceededError{EmployeeID: 7, Year: 2025, Used: 5, Limit: AnnualLeaveEntitlement}
	assert.Equal(t, "Leave limit exceeded: 5 of 5 days used in 2025", err.Error())
	assert.True(t, errors.Is(err, ErrLeaveLimitExceeded))
}
