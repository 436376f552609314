package attendance

import "context"

type AttendanceService interface {
	// RecordAttendance inserts or merges the employee's record for the date.
	// Leave-type statuses are refused once the annual entitlement is used.
	RecordAttendance(ctx context.Context, req RecordAttendanceRequest) (Attendance, error)
	GetEmployeeLeaveCount(ctx context.Context, employeeID int64, year int) (int, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)
	DeleteAttendance(ctx context.Context, id int64) error
	Summarize(ctx context.Context, employeeID int64, startDate, endDate string) (Summary, error)
}
