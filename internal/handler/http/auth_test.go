package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/jsonfile"
	attendanceService "github.com/cmlabs-hris/hris-payroll-go/internal/service/attendance"
	auditService "github.com/cmlabs-hris/hris-payroll-go/internal/service/audit"
	authService "github.com/cmlabs-hris/hris-payroll-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/hris-payroll-go/internal/service/employee"
	leaveService "github.com/cmlabs-hris/hris-payroll-go/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hris-payroll-go/internal/service/payroll"
	sessionService "github.com/cmlabs-hris/hris-payroll-go/internal/service/session"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp = "1h"
	handlerTestSecret    = "test-secret-key-for-jwt"
	handlerTestPassword  = "SecurePass123!"
)

// newTestRouter wires the full stack over a JSON document in a temp dir.
func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	backend, err := jsonfile.NewBackend(t.TempDir(), "db.json")
	require.NoError(t, err)
	store := repository.NewStore(backend)

	employeeRepo := repository.NewEmployeeRepository(store)
	attendanceRepo := repository.NewAttendanceRepository(store)
	leaveRepo := repository.NewLeaveRequestRepository(store)
	payrollRepo := repository.NewPayrollRepository(store)

	jwtSvc, err := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	require.NoError(t, err)
	audits := auditService.NewAuditService(repository.NewAuditRepository(store))
	sessions := sessionService.NewSessionService(repository.NewSessionRepository(store), time.Hour)
	attendanceSvc := attendanceService.NewAttendanceService(store, attendanceRepo, audits)

	handlers := Handlers{
		Auth:       NewAuthHandler(authService.NewAuthService(store, repository.NewUserRepository(store), sessions, jwtSvc, audits)),
		Employee:   NewEmployeeHandler(employeeService.NewEmployeeService(store, employeeRepo, attendanceRepo, leaveRepo, payrollRepo, audits)),
		Attendance: NewAttendanceHandler(attendanceSvc),
		Leave:      NewLeaveHandler(leaveService.NewLeaveService(store, leaveRepo, attendanceSvc, audits, 1)),
		Payroll:    NewPayrollHandler(payrollService.NewPayrollService(store, payrollRepo, employeeRepo, attendanceSvc, audits)),
		Audit:      NewAuditHandler(audits),
		Health:     NewHealthHandler(store, time.Second),
	}
	return NewRouter(RouterOptions{
		Env:            "test",
		Version:        "test",
		LogLevel:       slog.LevelError,
		AllowedOrigins: []string{"http://localhost:3000"},
	}, jwtSvc, sessions, handlers)
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp), "body of %s %s", method, path)
	return w.Code, resp
}

func register(t *testing.T, router http.Handler, token, username, role string) (int, apiResponse) {
	t.Helper()
	return doRequest(t, router, http.MethodPost, "/api/v1/auth/register", token, map[string]interface{}{
		"username":         username,
		"password":         handlerTestPassword,
		"confirm_password": handlerTestPassword,
		"role":             role,
	})
}

func login(t *testing.T, router http.Handler, username string) string {
	t.Helper()
	code, resp := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": handlerTestPassword,
	})
	require.Equal(t, http.StatusCreated, code, "login %s: %+v", username, resp.Error)

	var data struct {
		AccessToken string `json:"access_token"`
		SessionID   string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.AccessToken)
	require.NotEmpty(t, data.SessionID)
	return data.AccessToken
}

// bootstrapAdmin registers the first user and logs in.
func bootstrapAdmin(t *testing.T, router http.Handler) string {
	t.Helper()
	code, _ := register(t, router, "", "admin", "employee")
	require.Equal(t, http.StatusCreated, code)
	return login(t, router, "admin")
}

// ===== HANDLER TESTS =====

func TestAuthHandler_Register_FirstUserBecomesAdmin(t *testing.T) {
	router := newTestRouter(t)

	code, resp := register(t, router, "", "admin", "employee")
	assert.Equal(t, http.StatusCreated, code)
	assert.True(t, resp.Success)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, "admin", created["role"])
	assert.NotContains(t, created, "password_hash")
}

func TestAuthHandler_Register_RequiresAdminAfterBootstrap(t *testing.T) {
	router := newTestRouter(t)
	adminToken := bootstrapAdmin(t, router)

	code, resp := register(t, router, "", "intruder", "hr")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	code, _ = register(t, router, adminToken, "clerk", "hr")
	assert.Equal(t, http.StatusCreated, code)

	code, resp = register(t, router, adminToken, "clerk", "hr")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

func TestAuthHandler_Register_PasswordMismatch(t *testing.T) {
	router := newTestRouter(t)

	code, resp := doRequest(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username":         "admin",
		"password":         handlerTestPassword,
		"confirm_password": "different",
		"role":             "admin",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "confirm_password")
}

func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	router := newTestRouter(t)
	bootstrapAdmin(t, router)

	code, resp := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "admin",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)

	code, _ = doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "nobody",
		"password": handlerTestPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuthHandler_Login_Validation(t *testing.T) {
	router := newTestRouter(t)

	code, resp := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, resp.Error.Details, "password")
}

func TestAuthHandler_Me(t *testing.T) {
	router := newTestRouter(t)
	token := bootstrapAdmin(t, router)

	code, resp := doRequest(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)

	var me map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &me))
	assert.Equal(t, "admin", me["role"])
}

func TestAuthHandler_Logout_RevokesSession(t *testing.T) {
	router := newTestRouter(t)
	token := bootstrapAdmin(t, router)

	code, _ := doRequest(t, router, http.MethodGet, "/api/v1/employees", token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, resp := doRequest(t, router, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)

	// The token still verifies, but its session is gone.
	code, resp = doRequest(t, router, http.MethodGet, "/api/v1/employees", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestAuthHandler_MissingToken(t *testing.T) {
	router := newTestRouter(t)

	code, resp := doRequest(t, router, http.MethodGet, "/api/v1/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, resp.Success)

	code, _ = doRequest(t, router, http.MethodGet, "/api/v1/employees", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuthHandler_ResponseFormat_Error(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte("invalid")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp["success"].(bool))
	assert.NotNil(t, resp["error"])
	assert.Nil(t, resp["data"])
}
