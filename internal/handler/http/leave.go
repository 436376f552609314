package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{leaveService: leaveService}
}

// CreateRequest implements LeaveHandler. Employees file for themselves only.
func (h *leaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if claims, err := jwt.ClaimsFromContext(r.Context()); err == nil && claims.Role == user.RoleEmployee {
		if claims.EmployeeID == nil {
			response.Forbidden(w, "User is not linked to an employee")
			return
		}
		req.EmployeeID = *claims.EmployeeID
	}

	created, err := h.leaveService.CreateLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created successfully", created)
}

// GetRequest implements LeaveHandler.
func (h *leaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	result, err := h.leaveService.GetLeaveRequest(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListRequests implements LeaveHandler.
func (h *leaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	employeeID, err := queryInt64(r, "employee_id")
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	requests, err := h.leaveService.ListLeaveRequests(r.Context(), leave.LeaveRequestFilter{
		EmployeeID: employeeID,
		Status:     r.URL.Query().Get("status"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, requests)
}

// ApproveRequest implements LeaveHandler.
func (h *leaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.leaveService.ApproveLeaveRequest, "Leave request approved")
}

// RejectRequest implements LeaveHandler.
func (h *leaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.leaveService.RejectLeaveRequest, "Leave request rejected")
}

func (h *leaveHandlerImpl) decide(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, id int64, event leave.ApprovalEvent) (leave.LeaveRequest, error),
	message string,
) {
	id, err := idParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	// The body is optional; it only carries remarks.
	var event leave.ApprovalEvent
	if err := decodeJSON(w, r, &event); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("leave decision decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := fn(r.Context(), id, event)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}
