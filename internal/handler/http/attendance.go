package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	RecordAttendance(w http.ResponseWriter, r *http.Request)
	ListAttendance(w http.ResponseWriter, r *http.Request)
	DeleteAttendance(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	LeaveCount(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// RecordAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendance.RecordAttendanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("RecordAttendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	saved, err := h.attendanceService.RecordAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance recorded successfully", saved)
}

// ListAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListAttendance(w http.ResponseWriter, r *http.Request) {
	employeeID, err := queryInt64(r, "employee_id")
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	q := r.URL.Query()
	records, err := h.attendanceService.ListAttendance(r.Context(), attendance.AttendanceFilter{
		EmployeeID: employeeID,
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
		Status:     q.Get("status"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, records)
}

// DeleteAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) DeleteAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Attendance ID is required", nil)
		return
	}

	if err := h.attendanceService.DeleteAttendance(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted successfully", nil)
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	employeeID, err := idParam(r, "employeeID")
	if err != nil {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	q := r.URL.Query()
	summary, err := h.attendanceService.Summarize(r.Context(), employeeID, q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"summary":     summary,
		"days_worked": summary.DaysWorked(),
	})
}

// LeaveCount implements AttendanceHandler. Year defaults to the current one.
func (h *attendanceHandlerImpl) LeaveCount(w http.ResponseWriter, r *http.Request) {
	employeeID, err := idParam(r, "employeeID")
	if err != nil {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	year := time.Now().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		year, err = strconv.Atoi(y)
		if err != nil {
			response.BadRequest(w, "year must be a number", nil)
			return
		}
	}

	used, err := h.attendanceService.GetEmployeeLeaveCount(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	remaining := attendance.AnnualLeaveEntitlement - used
	if remaining < 0 {
		remaining = 0
	}
	response.Success(w, map[string]interface{}{
		"employee_id": employeeID,
		"year":        year,
		"used":        used,
		"limit":       attendance.AnnualLeaveEntitlement,
		"remaining":   remaining,
	})
}
