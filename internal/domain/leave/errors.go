package leave

import "errors"

var (
	ErrLeaveRequestNotFound    = errors.New("leave request not found")
	ErrRequestFinalized        = errors.New("leave request is already approved or rejected")
	ErrApprovalLevelRegression = errors.New("approval level cannot decrease")
	ErrApprovalLevelMismatch   = errors.New("approval does not match the current approval level")
	ErrInvalidDecision         = errors.New("decision must be Approved or Rejected")
)
