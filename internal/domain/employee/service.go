package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// GetNextEmployeeID returns the next free YYYY-NNNN id for year
	GetNextEmployeeID(ctx context.Context, year int) (string, error)

	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (Employee, error)
	GetEmployee(ctx context.Context, id int64) (Employee, error)

	// GetByEmployeeCode looks up by the human-facing id, ignoring case
	GetByEmployeeCode(ctx context.Context, code string) (Employee, error)

	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (Employee, error)

	// Update201Checklist merges checklist deltas and recomputes the completion status
	Update201Checklist(ctx context.Context, id int64, req ChecklistUpdate) (Employee, error)

	// DeleteEmployee removes the employee with its payslips, attendance and leave requests
	DeleteEmployee(ctx context.Context, id int64) error
}
