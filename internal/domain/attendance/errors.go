package attendance

import (
	"errors"
	"fmt"
)

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrLeaveLimitExceeded = errors.New("leave limit exceeded")
)

// LeaveLimitExceededError is returned when a leave-type attendance would
// exceed the annual entitlement.
type LeaveLimitExceededError struct {
	EmployeeID int64
	Year       int
	Used       int
	Limit      int
}

func (e *LeaveLimitExceededError) Error() string {
	return fmt.Sprintf("Leave limit exceeded: %d of %d days used in %d", e.Used, e.Limit, e.Year)
}

func (e *LeaveLimitExceededError) Is(target error) bool {
	return target == ErrLeaveLimitExceeded
}
