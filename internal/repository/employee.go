package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
)

var employeeColumns = map[string]struct{}{}

func init() {
	for _, c := range []string{
		"id", "employee_id", "first_name", "middle_name", "last_name", "email", "contact_number",
		"department", "branch", "position", "employment_status", "date_hired",
		"sss_number", "philhealth_number", "pagibig_number", "tin_number", "salary_info",
		"file_completion_status", "created_at", "updated_at",
	} {
		employeeColumns[c] = struct{}{}
	}
	for _, c := range employee.ChecklistColumns {
		employeeColumns[c] = struct{}{}
	}
}

type employeeRepositoryImpl struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepositoryImpl{store: store}
}

func employeeFromRow(r record.Row) employee.Employee {
	e := employee.Employee{
		ID:                   r.ID(),
		EmployeeID:           r.String("employee_id"),
		FirstName:            r.String("first_name"),
		MiddleName:           r.StringPtr("middle_name"),
		LastName:             r.String("last_name"),
		Email:                r.StringPtr("email"),
		ContactNumber:        r.StringPtr("contact_number"),
		Department:           r.String("department"),
		Branch:               r.String("branch"),
		Position:             r.String("position"),
		EmploymentStatus:     employee.EmploymentStatus(r.String("employment_status")),
		DateHired:            dateOnly(r.StringPtr("date_hired")),
		SSSNumber:            r.StringPtr("sss_number"),
		PhilHealthNumber:     r.StringPtr("philhealth_number"),
		PagIBIGNumber:        r.StringPtr("pagibig_number"),
		TINNumber:            r.StringPtr("tin_number"),
		SalaryInfo:           r.DecimalMap("salary_info"),
		FileCompletionStatus: employee.CompletionStatus(r.String("file_completion_status")),
		CreatedAt:            r.Time("created_at"),
		UpdatedAt:            r.Time("updated_at"),
		Checklist: employee.Checklist{
			HasResume:             r.Bool("has_resume"),
			HasBirthCertificate:   r.Bool("has_birth_certificate"),
			HasNBIClearance:       r.Bool("has_nbi_clearance"),
			HasMedicalCertificate: r.Bool("has_medical_certificate"),
			HasDiploma:            r.Bool("has_diploma"),
			HasSSSForm:            r.Bool("has_sss_form"),
			HasPhilHealthForm:     r.Bool("has_philhealth_form"),
			HasPagIBIGForm:        r.Bool("has_pagibig_form"),
			HasTINForm:            r.Bool("has_tin_form"),
		},
	}
	for k, v := range r {
		if _, known := employeeColumns[k]; known {
			continue
		}
		if e.Extra == nil {
			e.Extra = map[string]any{}
		}
		e.Extra[k] = v
	}
	return e
}

// profileRow holds every writable column except the checklist.
func profileRow(e employee.Employee) record.Row {
	return record.Row{
		"employee_id":            e.EmployeeID,
		"first_name":             e.FirstName,
		"middle_name":            e.MiddleName,
		"last_name":              e.LastName,
		"email":                  e.Email,
		"contact_number":         e.ContactNumber,
		"department":             e.Department,
		"branch":                 e.Branch,
		"position":               e.Position,
		"employment_status":      string(e.EmploymentStatus),
		"date_hired":             e.DateHired,
		"sss_number":             e.SSSNumber,
		"philhealth_number":      e.PhilHealthNumber,
		"pagibig_number":         e.PagIBIGNumber,
		"tin_number":             e.TINNumber,
		"salary_info":            record.DecimalMapValue(e.SalaryInfo),
		"file_completion_status": string(e.FileCompletionStatus),
	}
}

func checklistRow(c employee.Checklist, status employee.CompletionStatus) record.Row {
	row := record.Row{"file_completion_status": string(status)}
	for col, v := range c.Values() {
		row[col] = v
	}
	return row
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	row, err := r.store.GetByID(ctx, record.TableEmployees, id)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %d: %w", id, err)
	}
	return employeeFromRow(row), nil
}

// GetByEmployeeCode implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmployeeCode(ctx context.Context, code string) (employee.Employee, error) {
	if code == "" {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	row, err := r.store.FindOne(ctx, record.Query{
		Table:  record.TableEmployees,
		Filter: record.Where(record.Like("employee_id", record.EscapeLike(code))),
	})
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", code, err)
	}
	return employeeFromRow(row), nil
}

// ListEmployeeCodes implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListEmployeeCodes(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.store.Find(ctx, record.Query{
		Table:  record.TableEmployees,
		Filter: record.Where(record.Like("employee_id", record.EscapeLike(prefix)+"%")),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list employee ids: %w", err)
	}
	codes := make([]string, 0, len(rows))
	for _, row := range rows {
		codes = append(codes, row.String("employee_id"))
	}
	return codes, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	var where record.Filter
	if s := strings.TrimSpace(filter.Search); s != "" {
		where = append(where, record.Like("last_name", "%"+record.EscapeLike(s)+"%"))
	}
	if filter.Branch != "" {
		where = append(where, record.Eq("branch", filter.Branch))
	}
	if filter.Department != "" {
		where = append(where, record.Eq("department", filter.Department))
	}
	if filter.EmploymentStatus != "" {
		where = append(where, record.Eq("employment_status", filter.EmploymentStatus))
	}

	rows, err := r.store.Find(ctx, record.Query{
		Table:  record.TableEmployees,
		Filter: where,
		Order:  record.OrderBy("id", false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	out := make([]employee.Employee, 0, len(rows))
	for _, row := range rows {
		out = append(out, employeeFromRow(row))
	}
	return out, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	row := profileRow(newEmployee)
	for col, v := range checklistRow(newEmployee.Checklist, newEmployee.FileCompletionStatus) {
		row[col] = v
	}
	now := time.Now().UTC()
	row["created_at"] = now
	row["updated_at"] = now

	id, err := r.store.Insert(ctx, record.TableEmployees, row)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) error {
	row := profileRow(e)
	for col, v := range checklistRow(e.Checklist, e.FileCompletionStatus) {
		row[col] = v
	}
	n, err := r.store.Update(ctx, record.TableEmployees, e.ID, row)
	if err != nil {
		return fmt.Errorf("failed to update employee %d: %w", e.ID, err)
	}
	if n == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// UpdateChecklist implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateChecklist(ctx context.Context, id int64, checklist employee.Checklist, status employee.CompletionStatus) error {
	n, err := r.store.Update(ctx, record.TableEmployees, id, checklistRow(checklist, status))
	if err != nil {
		return fmt.Errorf("failed to update checklist of employee %d: %w", id, err)
	}
	if n == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id int64) error {
	n, err := r.store.Remove(ctx, record.TableEmployees, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee %d: %w", id, err)
	}
	if n == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// ResetSequence implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ResetSequence(ctx context.Context) error {
	return r.store.ResetTableSequence(ctx, record.TableEmployees)
}
