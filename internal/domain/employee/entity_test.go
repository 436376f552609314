package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateCompletionStatus(t *testing.T) {
	yes := true

	assert.Equal(t, CompletionIncomplete, CalculateCompletionStatus(Employee{}))

	partial := Employee{Checklist: Checklist{HasResume: true}}
	assert.Equal(t, CompletionPartial, CalculateCompletionStatus(partial))

	all := ChecklistUpdate{
		HasResume: &yes, HasBirthCertificate: &yes, HasNBIClearance: &yes,
		HasMedicalCertificate: &yes, HasDiploma: &yes, HasSSSForm: &yes,
		HasPhilHealthForm: &yes, HasPagIBIGForm: &yes, HasTINForm: &yes,
	}.Apply(Checklist{})
	assert.Equal(t, CompletionComplete, CalculateCompletionStatus(Employee{Checklist: all}))
}

func TestChecklistUpdate_ApplyLeavesUnsetFields(t *testing.T) {
	no := false
	yes := true
	base := Checklist{HasResume: true, HasDiploma: true}

	got := ChecklistUpdate{HasDiploma: &no, HasTINForm: &yes}.Apply(base)

	assert.True(t, got.HasResume)
	assert.False(t, got.HasDiploma)
	assert.True(t, got.HasTINForm)
	assert.True(t, base.HasDiploma, "base must not be modified")
}

func TestChecklistUpdate_Touched(t *testing.T) {
	no := false
	assert.False(t, ChecklistUpdate{}.Touched())
	assert.True(t, ChecklistUpdate{HasSSSForm: &no}.Touched())
}

func TestChecklist_Values(t *testing.T) {
	v := Checklist{HasPagIBIGForm: true}.Values()
	assert.Len(t, v, 9)
	assert.True(t, v["has_pagibig_form"])
	assert.False(t, v["has_resume"])
}

func TestCreateEmployeeRequest_Validate(t *testing.T) {
	bad := "2024-1"
	req := CreateEmployeeRequest{EmployeeID: &bad}
	err := req.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "first_name")
	assert.Contains(t, err.Error(), "employee_id")

	req = CreateEmployeeRequest{FirstName: "Juan", LastName: "Dela Cruz", EmploymentStatus: "Regular"}
	assert.NoError(t, req.Validate())
}
