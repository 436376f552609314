package leave

import "github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"

var LeaveTypes = []string{
	"Vacation Leave",
	"Sick Leave",
	"Emergency Leave",
	"Maternity Leave",
	"Paternity Leave",
	"Bereavement Leave",
}

type CreateLeaveRequestRequest struct {
	EmployeeID int64   `json:"employee_id"`
	LeaveType  string  `json:"leave_type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Reason     *string `json:"reason,omitempty"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	// Employee ID
	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	// Leave type
	if !validator.IsInSlice(r.LeaveType, LeaveTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is not a recognized leave type",
		})
	}

	validator.ValidateDateRange(&errs, "start_date", r.StartDate, "end_date", r.EndDate)

	if r.Reason != nil && len(*r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ApprovalEvent is an approver's decision on the current level.
type ApprovalEvent struct {
	ApproverID *int64   `json:"approver_id,omitempty"`
	Decision   Decision `json:"decision"`
	Remarks    *string  `json:"remarks,omitempty"`
}

func (e *ApprovalEvent) Validate() error {
	if e.Decision != DecisionApproved && e.Decision != DecisionRejected {
		return validator.ValidationErrors{{
			Field:   "decision",
			Message: ErrInvalidDecision.Error(),
		}}
	}
	return nil
}

type LeaveRequestFilter struct {
	EmployeeID *int64 `json:"employee_id,omitempty"`
	Status     string `json:"status,omitempty"`
}
