package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var limitErr *attendance.LeaveLimitExceededError
	if errors.As(err, &limitErr) {
		LeaveLimitExceeded(w, limitErr.Error(), map[string]string{
			"employee_id": strconv.FormatInt(limitErr.EmployeeID, 10),
			"year":        strconv.Itoa(limitErr.Year),
			"used":        strconv.Itoa(limitErr.Used),
			"limit":       strconv.Itoa(limitErr.Limit),
		})
		return
	}

	switch {
	// Auth and session errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, session.ErrSessionExpired):
		Unauthorized(w, "Session expired")
	case errors.Is(err, session.ErrSessionNotFound):
		Unauthorized(w, "Session not found")
	case errors.Is(err, auth.ErrRegistrationClosed):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUsernameExists):
		Conflict(w, "Username already registered")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeIDExists):
		Conflict(w, "Employee ID already exists")
	case errors.Is(err, employee.ErrInvalidEmployeeID):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, employee.ErrEmptyChecklistUpdate):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrRequestFinalized):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrApprovalLevelMismatch),
		errors.Is(err, leave.ErrApprovalLevelRegression):
		Conflict(w, err.Error())

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrInvalidTransition),
		errors.Is(err, payroll.ErrRunNotDraft):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrNoActiveEmployees),
		errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)

	// Storage errors
	case errors.Is(err, record.ErrUniqueViolation):
		Conflict(w, "Record already exists")
	case errors.Is(err, record.ErrNotFound):
		NotFound(w, "Record not found")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
