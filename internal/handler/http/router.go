package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the process settings the router needs.
type RouterOptions struct {
	Env            string
	Version        string
	LogLevel       slog.Level
	AllowedOrigins []string
}

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Auth       AuthHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Payroll    PayrollHandler
	Audit      AuditHandler
	Health     HealthHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, sessionService session.SessionService, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-payroll"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", h.Health.Live)
	r.Get("/readyz", h.Health.Ready)

	verifier := jwtauth.Verifier(JWTService.JWTAuth())

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			// The first user registers anonymously; later ones need an admin token.
			r.With(verifier).Post("/register", h.Auth.Register)

			r.Group(func(r chi.Router) {
				r.Use(verifier)
				r.Use(middleware.AuthRequired(sessionService))
				r.Post("/logout", h.Auth.Logout)
				r.Get("/me", h.Auth.Me)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(verifier)
			r.Use(middleware.AuthRequired(sessionService))

			r.Route("/employees", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeView))
					r.Get("/", h.Employee.ListEmployees)
					r.Get("/next-id", h.Employee.NextEmployeeID)
					r.Get("/code/{code}", h.Employee.GetByEmployeeCode)
					r.Get("/{id}", h.Employee.GetEmployee)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Post("/", h.Employee.CreateEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Patch("/{id}/checklist", h.Employee.UpdateChecklist)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceView))
					r.Get("/", h.Attendance.ListAttendance)
					r.Get("/employees/{employeeID}/summary", h.Attendance.Summary)
					r.Get("/employees/{employeeID}/leave-count", h.Attendance.LeaveCount)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceRecord))
					r.Post("/", h.Attendance.RecordAttendance)
					r.Delete("/{id}", h.Attendance.DeleteAttendance)
				})
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", h.Leave.CreateRequest)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveView))
					r.Get("/", h.Leave.ListRequests)
					r.Get("/{id}", h.Leave.GetRequest)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
					r.Post("/{id}/approve", h.Leave.ApproveRequest)
					r.Post("/{id}/reject", h.Leave.RejectRequest)
				})
			})

			r.Route("/payroll-runs", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollView))
					r.Get("/", h.Payroll.ListRuns)
					r.Get("/{id}", h.Payroll.GetRun)
					r.Get("/{id}/payslips", h.Payroll.ListPayslips)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollManage))
					r.Post("/", h.Payroll.GenerateRun)
					r.Post("/{id}/submit", h.Payroll.SubmitRun)
					r.Delete("/{id}", h.Payroll.DeleteRun)
				})
				r.With(middleware.RequirePermission(user.PermissionPayrollApproveMgr)).
					Post("/{id}/approve-manager", h.Payroll.ManagerApprove)
				r.With(middleware.RequirePermission(user.PermissionPayrollApproveEVP)).
					Post("/{id}/approve-evp", h.Payroll.EVPApprove)
			})

			r.With(middleware.RequirePermission(user.PermissionAuditView)).Get("/audit-logs", h.Audit.List)
		})
	})
	return r
}
