package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
)

type attendanceRepositoryImpl struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{store: store}
}

func attendanceFromRow(r record.Row) attendance.Attendance {
	return attendance.Attendance{
		ID:         r.ID(),
		EmployeeID: r.Int64("employee_id"),
		Date:       dateString(r.String("date")),
		Status:     attendance.Status(r.String("status")),
		TimeIn:     r.StringPtr("time_in"),
		TimeOut:    r.StringPtr("time_out"),
		Remarks:    r.StringPtr("remarks"),
		CreatedAt:  r.Time("created_at"),
		UpdatedAt:  r.Time("updated_at"),
	}
}

func (r *attendanceRepositoryImpl) findOne(ctx context.Context, filter record.Filter) (attendance.Attendance, error) {
	row, err := r.store.FindOne(ctx, record.Query{Table: record.TableAttendance, Filter: filter})
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return attendanceFromRow(row), nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id int64) (attendance.Attendance, error) {
	return r.findOne(ctx, record.Where(record.Eq("id", id)))
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID int64, date string) (attendance.Attendance, error) {
	return r.findOne(ctx, record.Where(
		record.Eq("employee_id", employeeID),
		record.Eq("date", date),
	))
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	var where record.Filter
	if filter.EmployeeID != nil {
		where = append(where, record.Eq("employee_id", *filter.EmployeeID))
	}
	if filter.StartDate != "" {
		where = append(where, record.Gte("date", filter.StartDate))
	}
	if filter.EndDate != "" {
		where = append(where, record.Lte("date", filter.EndDate))
	}
	if filter.Status != "" {
		where = append(where, record.Eq("status", filter.Status))
	}

	rows, err := r.store.Find(ctx, record.Query{
		Table:  record.TableAttendance,
		Filter: where,
		Order:  record.OrderBy("date", false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	out := make([]attendance.Attendance, 0, len(rows))
	for _, row := range rows {
		out = append(out, attendanceFromRow(row))
	}
	return out, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	now := time.Now().UTC()
	id, err := r.store.Insert(ctx, record.TableAttendance, record.Row{
		"employee_id": a.EmployeeID,
		"date":        a.Date,
		"status":      string(a.Status),
		"time_in":     a.TimeIn,
		"time_out":    a.TimeOut,
		"remarks":     a.Remarks,
		"created_at":  now,
		"updated_at":  now,
	})
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, a attendance.Attendance) error {
	n, err := r.store.Update(ctx, record.TableAttendance, a.ID, record.Row{
		"status":   string(a.Status),
		"time_in":  a.TimeIn,
		"time_out": a.TimeOut,
		"remarks":  a.Remarks,
	})
	if err != nil {
		return fmt.Errorf("failed to update attendance %d: %w", a.ID, err)
	}
	if n == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id int64) error {
	n, err := r.store.Remove(ctx, record.TableAttendance, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance %d: %w", id, err)
	}
	if n == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// DeleteByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) DeleteByEmployee(ctx context.Context, employeeID int64) error {
	if _, err := r.store.RemoveWhere(ctx, record.TableAttendance, record.Where(record.Eq("employee_id", employeeID))); err != nil {
		return fmt.Errorf("failed to delete attendance of employee %d: %w", employeeID, err)
	}
	return nil
}

const leaveStatusPattern = "%leave%"

// CountLeaveDays implements attendance.AttendanceRepository. PostgreSQL
// filters on EXTRACT(YEAR FROM date); the JSON document stores dates as
// text, so the year becomes a date range there.
func (r *attendanceRepositoryImpl) CountLeaveDays(ctx context.Context, employeeID int64, year int) (int, error) {
	if r.store.IsPostgres() {
		res, err := r.store.Query(ctx,
			`SELECT COUNT(*) AS count FROM attendance
			WHERE employee_id = $1 AND EXTRACT(YEAR FROM date) = $2 AND status ILIKE $3`,
			employeeID, year, leaveStatusPattern,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to count leave days: %w", err)
		}
		if len(res.Rows) == 0 {
			return 0, nil
		}
		return res.Rows[0].Int("count"), nil
	}

	n, err := r.store.Count(ctx, record.TableAttendance, record.Where(
		record.Eq("employee_id", employeeID),
		record.Gte("date", fmt.Sprintf("%04d-01-01", year)),
		record.Lte("date", fmt.Sprintf("%04d-12-31", year)),
		record.Like("status", leaveStatusPattern),
	))
	if err != nil {
		return 0, fmt.Errorf("failed to count leave days: %w", err)
	}
	return int(n), nil
}
