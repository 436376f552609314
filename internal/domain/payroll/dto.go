package payroll

import "github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"

type GeneratePayrollRunRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	// Holidays are dates inside the period paid at a premium when worked.
	Holidays []string `json:"holidays,omitempty"`
	// EmployeeIDs limits the run; empty means every active employee.
	EmployeeIDs []int64 `json:"employee_ids,omitempty"`
}

func (r *GeneratePayrollRunRequest) Validate() error {
	var errs validator.ValidationErrors

	start, end := validator.ValidateDateRange(&errs, "period_start", r.PeriodStart, "period_end", r.PeriodEnd)
	rangeOK := len(errs) == 0

	for _, h := range r.Holidays {
		d, ok := validator.IsValidDate(h)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "holidays",
				Message: "holidays must be in YYYY-MM-DD format",
			})
			continue
		}
		if rangeOK && (d.Before(start) || d.After(end)) {
			errs = append(errs, validator.ValidationError{
				Field:   "holidays",
				Message: "holiday " + h + " is outside the payroll period",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PayrollRunFilter struct {
	Status string `json:"status,omitempty"`
}
