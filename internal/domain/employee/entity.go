package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type CompletionStatus string

const (
	CompletionIncomplete CompletionStatus = "Incomplete"
	CompletionPartial    CompletionStatus = "Partial"
	CompletionComplete   CompletionStatus = "Complete"
)

type EmploymentStatus string

const (
	EmploymentRegular      EmploymentStatus = "Regular"
	EmploymentProbationary EmploymentStatus = "Probationary"
	EmploymentContractual  EmploymentStatus = "Contractual"
	EmploymentResigned     EmploymentStatus = "Resigned"
	EmploymentTerminated   EmploymentStatus = "Terminated"
)

var EmploymentStatuses = []string{
	string(EmploymentRegular),
	string(EmploymentProbationary),
	string(EmploymentContractual),
	string(EmploymentResigned),
	string(EmploymentTerminated),
}

// IsActive reports whether the employee is still on payroll.
func (s EmploymentStatus) IsActive() bool {
	return s != EmploymentResigned && s != EmploymentTerminated
}

// Checklist holds the nine 201-file requirements.
type Checklist struct {
	HasResume             bool `json:"has_resume"`
	HasBirthCertificate   bool `json:"has_birth_certificate"`
	HasNBIClearance       bool `json:"has_nbi_clearance"`
	HasMedicalCertificate bool `json:"has_medical_certificate"`
	HasDiploma            bool `json:"has_diploma"`
	HasSSSForm            bool `json:"has_sss_form"`
	HasPhilHealthForm     bool `json:"has_philhealth_form"`
	HasPagIBIGForm        bool `json:"has_pagibig_form"`
	HasTINForm            bool `json:"has_tin_form"`
}

// ChecklistColumns lists the checklist column names in storage order.
var ChecklistColumns = []string{
	"has_resume",
	"has_birth_certificate",
	"has_nbi_clearance",
	"has_medical_certificate",
	"has_diploma",
	"has_sss_form",
	"has_philhealth_form",
	"has_pagibig_form",
	"has_tin_form",
}

func (c Checklist) flags() []bool {
	return []bool{
		c.HasResume,
		c.HasBirthCertificate,
		c.HasNBIClearance,
		c.HasMedicalCertificate,
		c.HasDiploma,
		c.HasSSSForm,
		c.HasPhilHealthForm,
		c.HasPagIBIGForm,
		c.HasTINForm,
	}
}

// Values maps each checklist column to its flag.
func (c Checklist) Values() map[string]bool {
	out := make(map[string]bool, len(ChecklistColumns))
	for i, f := range c.flags() {
		out[ChecklistColumns[i]] = f
	}
	return out
}

type Employee struct {
	ID                   int64                      `json:"id"`
	EmployeeID           string                     `json:"employee_id"`
	FirstName            string                     `json:"first_name"`
	MiddleName           *string                    `json:"middle_name,omitempty"`
	LastName             string                     `json:"last_name"`
	Email                *string                    `json:"email,omitempty"`
	ContactNumber        *string                    `json:"contact_number,omitempty"`
	Department           string                     `json:"department"`
	Branch               string                     `json:"branch"`
	Position             string                     `json:"position"`
	EmploymentStatus     EmploymentStatus           `json:"employment_status"`
	DateHired            *string                    `json:"date_hired,omitempty"`
	SSSNumber            *string                    `json:"sss_number,omitempty"`
	PhilHealthNumber     *string                    `json:"philhealth_number,omitempty"`
	PagIBIGNumber        *string                    `json:"pagibig_number,omitempty"`
	TINNumber            *string                    `json:"tin_number,omitempty"`
	SalaryInfo           map[string]decimal.Decimal `json:"salary_info"`
	Checklist            Checklist                  `json:"checklist"`
	FileCompletionStatus CompletionStatus           `json:"file_completion_status"`
	CreatedAt            *time.Time                 `json:"created_at,omitempty"`
	UpdatedAt            *time.Time                 `json:"updated_at,omitempty"`
	// Extra carries columns this version does not model.
	Extra map[string]any `json:"extra,omitempty"`
}

// FullName joins first, middle and last names.
func (e Employee) FullName() string {
	name := e.FirstName
	if e.MiddleName != nil && *e.MiddleName != "" {
		name += " " + *e.MiddleName
	}
	return name + " " + e.LastName
}

// CalculateCompletionStatus derives the 201-file status: Complete when all
// nine requirements are on file, Partial when some are, else Incomplete.
func CalculateCompletionStatus(e Employee) CompletionStatus {
	return e.Checklist.Status()
}

func (c Checklist) Status() CompletionStatus {
	var done int
	flags := c.flags()
	for _, f := range flags {
		if f {
			done++
		}
	}
	switch {
	case done == len(flags):
		return CompletionComplete
	case done > 0:
		return CompletionPartial
	default:
		return CompletionIncomplete
	}
}
