package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
)

type PayrollHandler interface {
	GenerateRun(w http.ResponseWriter, r *http.Request)
	ListRuns(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
	ListPayslips(w http.ResponseWriter, r *http.Request)
	SubmitRun(w http.ResponseWriter, r *http.Request)
	ManagerApprove(w http.ResponseWriter, r *http.Request)
	EVPApprove(w http.ResponseWriter, r *http.Request)
	DeleteRun(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// GenerateRun implements PayrollHandler.
func (h *payrollHandlerImpl) GenerateRun(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayrollRunRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("GenerateRun decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	detail, err := h.payrollService.GeneratePayrollRun(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run generated successfully", detail)
}

// ListRuns implements PayrollHandler.
func (h *payrollHandlerImpl) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.payrollService.ListPayrollRuns(r.Context(), payroll.PayrollRunFilter{
		Status: r.URL.Query().Get("status"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, runs)
}

// GetRun implements PayrollHandler.
func (h *payrollHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Payroll run ID is required", nil)
		return
	}

	detail, err := h.payrollService.GetPayrollRun(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, detail)
}

// ListPayslips implements PayrollHandler.
func (h *payrollHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Payroll run ID is required", nil)
		return
	}

	slips, err := h.payrollService.ListPayslips(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, slips)
}

// SubmitRun implements PayrollHandler.
func (h *payrollHandlerImpl) SubmitRun(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.payrollService.SubmitPayrollRun, "Payroll run submitted for manager approval")
}

// ManagerApprove implements PayrollHandler.
func (h *payrollHandlerImpl) ManagerApprove(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.payrollService.ManagerApprove, "Payroll run approved by manager")
}

// EVPApprove implements PayrollHandler.
func (h *payrollHandlerImpl) EVPApprove(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.payrollService.EVPApprove, "Payroll run finalized")
}

func (h *payrollHandlerImpl) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, id int64) (payroll.PayrollRun, error),
	message string,
) {
	id, err := idParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Payroll run ID is required", nil)
		return
	}

	run, err := fn(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, run)
}

// DeleteRun implements PayrollHandler.
func (h *payrollHandlerImpl) DeleteRun(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Payroll run ID is required", nil)
		return
	}

	if err := h.payrollService.DeletePayrollRun(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run deleted successfully", nil)
}
