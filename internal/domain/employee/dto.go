package employee

import (
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ChecklistUpdate carries checklist deltas. Nil fields are left untouched.
type ChecklistUpdate struct {
	HasResume             *bool `json:"has_resume,omitempty"`
	HasBirthCertificate   *bool `json:"has_birth_certificate,omitempty"`
	HasNBIClearance       *bool `json:"has_nbi_clearance,omitempty"`
	HasMedicalCertificate *bool `json:"has_medical_certificate,omitempty"`
	HasDiploma            *bool `json:"has_diploma,omitempty"`
	HasSSSForm            *bool `json:"has_sss_form,omitempty"`
	HasPhilHealthForm     *bool `json:"has_philhealth_form,omitempty"`
	HasPagIBIGForm        *bool `json:"has_pagibig_form,omitempty"`
	HasTINForm            *bool `json:"has_tin_form,omitempty"`
}

// Touched reports whether any checklist field is set.
func (u ChecklistUpdate) Touched() bool {
	for _, p := range u.fields(&Checklist{}) {
		if p.delta != nil {
			return true
		}
	}
	return false
}

// Apply merges the deltas over c.
func (u ChecklistUpdate) Apply(c Checklist) Checklist {
	for _, p := range u.fields(&c) {
		if p.delta != nil {
			*p.target = *p.delta
		}
	}
	return c
}

type checklistField struct {
	delta  *bool
	target *bool
}

func (u ChecklistUpdate) fields(c *Checklist) []checklistField {
	return []checklistField{
		{u.HasResume, &c.HasResume},
		{u.HasBirthCertificate, &c.HasBirthCertificate},
		{u.HasNBIClearance, &c.HasNBIClearance},
		{u.HasMedicalCertificate, &c.HasMedicalCertificate},
		{u.HasDiploma, &c.HasDiploma},
		{u.HasSSSForm, &c.HasSSSForm},
		{u.HasPhilHealthForm, &c.HasPhilHealthForm},
		{u.HasPagIBIGForm, &c.HasPagIBIGForm},
		{u.HasTINForm, &c.HasTINForm},
	}
}

type CreateEmployeeRequest struct {
	EmployeeID       *string                    `json:"employee_id,omitempty"`
	FirstName        string                     `json:"first_name"`
	MiddleName       *string                    `json:"middle_name,omitempty"`
	LastName         string                     `json:"last_name"`
	Email            *string                    `json:"email,omitempty"`
	ContactNumber    *string                    `json:"contact_number,omitempty"`
	Department       string                     `json:"department"`
	Branch           string                     `json:"branch"`
	Position         string                     `json:"position"`
	EmploymentStatus string                     `json:"employment_status"`
	DateHired        *string                    `json:"date_hired,omitempty"`
	SSSNumber        *string                    `json:"sss_number,omitempty"`
	PhilHealthNumber *string                    `json:"philhealth_number,omitempty"`
	PagIBIGNumber    *string                    `json:"pagibig_number,omitempty"`
	TINNumber        *string                    `json:"tin_number,omitempty"`
	SalaryInfo       map[string]decimal.Decimal `json:"salary_info,omitempty"`
	ChecklistUpdate
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	// Names
	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{
			Field:   "first_name",
			Message: "first_name is required",
		})
	}
	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{
			Field:   "last_name",
			Message: "last_name is required",
		})
	}

	// Employee ID
	if r.EmployeeID != nil && !validator.IsValidEmployeeCode(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be in YYYY-NNNN format",
		})
	}

	// Employment status
	if r.EmploymentStatus != "" && !validator.IsInSlice(r.EmploymentStatus, EmploymentStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "employment_status",
			Message: "employment_status is not a recognized status",
		})
	}

	errs = append(errs, validateProfile(r.Email, r.DateHired, r.SSSNumber, r.PhilHealthNumber, r.PagIBIGNumber, r.TINNumber, r.SalaryInfo)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateEmployeeRequest is a partial update; nil fields are left untouched.
type UpdateEmployeeRequest struct {
	ID               int64                      `json:"-"`
	FirstName        *string                    `json:"first_name,omitempty"`
	MiddleName       *string                    `json:"middle_name,omitempty"`
	LastName         *string                    `json:"last_name,omitempty"`
	Email            *string                    `json:"email,omitempty"`
	ContactNumber    *string                    `json:"contact_number,omitempty"`
	Department       *string                    `json:"department,omitempty"`
	Branch           *string                    `json:"branch,omitempty"`
	Position         *string                    `json:"position,omitempty"`
	EmploymentStatus *string                    `json:"employment_status,omitempty"`
	DateHired        *string                    `json:"date_hired,omitempty"`
	SSSNumber        *string                    `json:"sss_number,omitempty"`
	PhilHealthNumber *string                    `json:"philhealth_number,omitempty"`
	PagIBIGNumber    *string                    `json:"pagibig_number,omitempty"`
	TINNumber        *string                    `json:"tin_number,omitempty"`
	SalaryInfo       map[string]decimal.Decimal `json:"salary_info,omitempty"`
	ChecklistUpdate
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs = append(errs, validator.ValidationError{
			Field:   "first_name",
			Message: "first_name must not be empty",
		})
	}
	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs = append(errs, validator.ValidationError{
			Field:   "last_name",
			Message: "last_name must not be empty",
		})
	}
	if r.EmploymentStatus != nil && !validator.IsInSlice(*r.EmploymentStatus, EmploymentStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "employment_status",
			Message: "employment_status is not a recognized status",
		})
	}

	errs = append(errs, validateProfile(r.Email, r.DateHired, r.SSSNumber, r.PhilHealthNumber, r.PagIBIGNumber, r.TINNumber, r.SalaryInfo)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateProfile(email, dateHired, sss, philhealth, pagibig, tin *string, salary map[string]decimal.Decimal) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if email != nil && *email != "" && !validator.IsValidEmail(*email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is not valid"})
	}
	if dateHired != nil {
		if _, ok := validator.IsValidDate(*dateHired); !ok {
			errs = append(errs, validator.ValidationError{Field: "date_hired", Message: "date_hired must be in YYYY-MM-DD format"})
		}
	}
	if sss != nil && *sss != "" && !validator.IsValidSSS(*sss) {
		errs = append(errs, validator.ValidationError{Field: "sss_number", Message: "sss_number must have 10 digits"})
	}
	if philhealth != nil && *philhealth != "" && !validator.IsValidPhilHealth(*philhealth) {
		errs = append(errs, validator.ValidationError{Field: "philhealth_number", Message: "philhealth_number must have 12 digits"})
	}
	if pagibig != nil && *pagibig != "" && !validator.IsValidPagIBIG(*pagibig) {
		errs = append(errs, validator.ValidationError{Field: "pagibig_number", Message: "pagibig_number must have 12 digits"})
	}
	if tin != nil && *tin != "" && !validator.IsValidTIN(*tin) {
		errs = append(errs, validator.ValidationError{Field: "tin_number", Message: "tin_number must have 9 to 12 digits"})
	}
	for k, v := range salary {
		if v.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "salary_info." + k, Message: "salary amounts must not be negative"})
		}
	}
	return errs
}

type EmployeeFilter struct {
	// Search matches last_name case-insensitively.
	Search           string `json:"search,omitempty"`
	Branch           string `json:"branch,omitempty"`
	Department       string `json:"department,omitempty"`
	EmploymentStatus string `json:"employment_status,omitempty"`
}
