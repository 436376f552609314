package attendance

import "context"

type AttendanceRepository interface {
	GetByID(ctx context.Context, id int64) (Attendance, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID int64, date string) (Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)
	Create(ctx context.Context, a Attendance) (Attendance, error)
	Update(ctx context.Context, a Attendance) error
	Delete(ctx context.Context, id int64) error
	DeleteByEmployee(ctx context.Context, employeeID int64) error
	// CountLeaveDays counts leave-type records of the employee in year.
	CountLeaveDays(ctx context.Context, employeeID int64, year int) (int, error)
}
