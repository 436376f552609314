package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t)

	code, resp := doRequest(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)

	code, resp = doRequest(t, router, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ready"}`, string(resp.Data))
}

func TestRouter_PermissionDenied(t *testing.T) {
	router := newTestRouter(t)
	adminToken := bootstrapAdmin(t, router)

	code, _ := register(t, router, adminToken, "staff", "employee")
	require.Equal(t, http.StatusCreated, code)
	staffToken := login(t, router, "staff")

	code, resp := doRequest(t, router, http.MethodGet, "/api/v1/employees", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, resp.Error.Message, "employee.view")

	code, _ = doRequest(t, router, http.MethodGet, "/api/v1/audit-logs", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = doRequest(t, router, http.MethodGet, "/api/v1/audit-logs", adminToken, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_EmployeeLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := bootstrapAdmin(t, router)

	code, resp := doRequest(t, router, http.MethodPost, "/api/v1/employees", token, map[string]interface{}{
		"first_name":  "Jane",
		"last_name":   "Doe",
		"department":  "Finance",
		"branch":      "Makati",
		"position":    "Analyst",
		"date_hired":  "2025-01-15",
		"salary_info": map[string]string{"daily_rate": "650.50"},
		"has_resume":  true,
	})
	require.Equal(t, http.StatusCreated, code, "%+v", resp.Error)

	var created struct {
		ID                   int64  `json:"id"`
		EmployeeID           string `json:"employee_id"`
		FileCompletionStatus string `json:"file_completion_status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, "2025-0001", created.EmployeeID)
	assert.Equal(t, "Partial", created.FileCompletionStatus)

	code, resp = doRequest(t, router, http.MethodGet, "/api/v1/employees/next-id?year=2025", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"employee_id":"2025-0002"}`, string(resp.Data))

	code, _ = doRequest(t, router, http.MethodGet, "/api/v1/employees/code/2025-0001", token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, resp = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/v1/employees/%d/checklist", created.ID), token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)

	code, _ = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/employees/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, resp = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/employees/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)

	code, _ = doRequest(t, router, http.MethodGet, "/api/v1/employees/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRouter_LeaveLimitExceeded(t *testing.T) {
	router := newTestRouter(t)
	token := bootstrapAdmin(t, router)

	for day := 1; day <= 5; day++ {
		code, resp := doRequest(t, router, http.MethodPost, "/api/v1/attendance", token, map[string]interface{}{
			"employee_id": 7,
			"date":        fmt.Sprintf("2025-02-%02d", day),
			"status":      "On Leave",
		})
		require.Equal(t, http.StatusCreated, code, "day %d: %+v", day, resp.Error)
	}

	code, resp := doRequest(t, router, http.MethodPost, "/api/v1/attendance", token, map[string]interface{}{
		"employee_id": 7,
		"date":        "2025-02-06",
		"status":      "Vacation Leave",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "LEAVE_LIMIT_EXCEEDED", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "Leave limit exceeded")
	assert.Equal(t, "5", resp.Error.Details["limit"])

	code, resp = doRequest(t, router, http.MethodGet, "/api/v1/attendance/employees/7/leave-count?year=2025", token, nil)
	require.Equal(t, http.StatusOK, code)
	var count map[string]int
	require.NoError(t, json.Unmarshal(resp.Data, &count))
	assert.Equal(t, 5, count["used"])
	assert.Equal(t, 0, count["remaining"])
}

func TestRouter_PayrollTransitions(t *testing.T) {
	router := newTestRouter(t)
	token := bootstrapAdmin(t, router)

	code, resp := doRequest(t, router, http.MethodPost, "/api/v1/payroll-runs", token, map[string]string{
		"period_start": "2025-03-01",
		"period_end":   "2025-03-15",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp.Error.Message, "no active employees")

	code, _ = doRequest(t, router, http.MethodPost, "/api/v1/employees", token, map[string]interface{}{
		"first_name":  "Juan",
		"last_name":   "Cruz",
		"department":  "Ops",
		"branch":      "Cebu",
		"position":    "Clerk",
		"salary_info": map[string]string{"monthly_rate": "13000"},
	})
	require.Equal(t, http.StatusCreated, code)

	code, resp = doRequest(t, router, http.MethodPost, "/api/v1/payroll-runs", token, map[string]string{
		"period_start": "2025-03-01",
		"period_end":   "2025-03-15",
	})
	require.Equal(t, http.StatusCreated, code, "%+v", resp.Error)
	var run struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &run))
	assert.Equal(t, "Draft", run.Status)

	base := fmt.Sprintf("/api/v1/payroll-runs/%d", run.ID)
	code, _ = doRequest(t, router, http.MethodPost, base+"/approve-evp", token, nil)
	assert.Equal(t, http.StatusConflict, code)

	for _, step := range []string{"/submit", "/approve-manager", "/approve-evp"} {
		code, resp = doRequest(t, router, http.MethodPost, base+step, token, nil)
		require.Equal(t, http.StatusOK, code, "%s: %+v", step, resp.Error)
	}
	require.NoError(t, json.Unmarshal(resp.Data, &run))
	assert.Equal(t, "Finalized", run.Status)

	code, _ = doRequest(t, router, http.MethodDelete, base, token, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, resp = doRequest(t, router, http.MethodGet, base+"/payslips", token, nil)
	require.Equal(t, http.StatusOK, code)
	var slips []map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &slips))
	assert.Len(t, slips, 1)
}
