package attendance

import "github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"

type RecordAttendanceRequest struct {
	EmployeeID int64   `json:"employee_id"`
	Date       string  `json:"date"`
	Status     *string `json:"status,omitempty"`
	TimeIn     *string `json:"time_in,omitempty"`
	TimeOut    *string `json:"time_out,omitempty"`
	Remarks    *string `json:"remarks,omitempty"`
}

// HasTime reports whether any time field was supplied.
func (r *RecordAttendanceRequest) HasTime() bool {
	return (r.TimeIn != nil && *r.TimeIn != "") || (r.TimeOut != nil && *r.TimeOut != "")
}

func (r *RecordAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.Status != nil && !validator.IsInSlice(*r.Status, Statuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status is not a recognized attendance status",
		})
	}

	if r.TimeIn != nil && *r.TimeIn != "" && !validator.IsValidClock(*r.TimeIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "time_in",
			Message: "time_in must be in HH:MM format",
		})
	}
	if r.TimeOut != nil && *r.TimeOut != "" && !validator.IsValidClock(*r.TimeOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "time_out",
			Message: "time_out must be in HH:MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceFilter struct {
	EmployeeID *int64 `json:"employee_id,omitempty"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
	Status     string `json:"status,omitempty"`
}
