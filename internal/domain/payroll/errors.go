package payroll

import "errors"

var (
	ErrPayrollRunNotFound = errors.New("payroll run not found")
	ErrInvalidPeriod      = errors.New("invalid payroll period")
	ErrInvalidTransition  = errors.New("invalid payroll run status transition")
	ErrNoActiveEmployees  = errors.New("no active employees to pay")
	ErrRunNotDraft        = errors.New("only draft payroll runs can be deleted")
)
