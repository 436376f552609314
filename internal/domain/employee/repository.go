package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (Employee, error)
	GetByEmployeeCode(ctx context.Context, code string) (Employee, error)
	// ListEmployeeCodes returns every employee_id starting with prefix.
	ListEmployeeCodes(ctx context.Context, prefix string) ([]string, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, e Employee) error
	UpdateChecklist(ctx context.Context, id int64, checklist Checklist, status CompletionStatus) error
	Delete(ctx context.Context, id int64) error
	ResetSequence(ctx context.Context) error
}
