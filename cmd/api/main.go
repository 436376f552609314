package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-payroll-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository"
	attendanceService "github.com/cmlabs-hris/hris-payroll-go/internal/service/attendance"
	auditService "github.com/cmlabs-hris/hris-payroll-go/internal/service/audit"
	serviceAuth "github.com/cmlabs-hris/hris-payroll-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/hris-payroll-go/internal/service/employee"
	leaveService "github.com/cmlabs-hris/hris-payroll-go/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hris-payroll-go/internal/service/payroll"
	sessionService "github.com/cmlabs-hris/hris-payroll-go/internal/service/session"
)

const (
	version         = "v1.0.0"
	shutdownTimeout = 10 * time.Second
	readyTimeout    = 2 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(slog.String("app", "hris-payroll"), slog.String("env", cfg.App.Env)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	userRepo := repository.NewUserRepository(store)
	sessionRepo := repository.NewSessionRepository(store)
	employeeRepo := repository.NewEmployeeRepository(store)
	attendanceRepo := repository.NewAttendanceRepository(store)
	leaveRequestRepo := repository.NewLeaveRequestRepository(store)
	payrollRepo := repository.NewPayrollRepository(store)
	auditRepo := repository.NewAuditRepository(store)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return err
	}

	auditSvc := auditService.NewAuditService(auditRepo)
	sessionSvc := sessionService.NewSessionService(sessionRepo, cfg.Session.TTL)
	authSvc := serviceAuth.NewAuthService(store, userRepo, sessionSvc, JWTService, auditSvc)
	attendanceSvc := attendanceService.NewAttendanceService(store, attendanceRepo, auditSvc)
	employeeSvc := employeeService.NewEmployeeService(
		store,
		employeeRepo,
		attendanceRepo,
		leaveRequestRepo,
		payrollRepo,
		auditSvc,
	)
	leaveSvc := leaveService.NewLeaveService(store, leaveRequestRepo, attendanceSvc, auditSvc, cfg.Leave.ApprovalLevels)
	payrollSvc := payrollService.NewPayrollService(store, payrollRepo, employeeRepo, attendanceSvc, auditSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			Version:        version,
			LogLevel:       cfg.SlogLevel(),
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		JWTService,
		sessionSvc,
		appHTTP.Handlers{
			Auth:       appHTTP.NewAuthHandler(authSvc),
			Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
			Leave:      appHTTP.NewLeaveHandler(leaveSvc),
			Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
			Audit:      appHTTP.NewAuditHandler(auditSvc),
			Health:     appHTTP.NewHealthHandler(store, readyTimeout),
		},
	)

	scheduler := cron.NewScheduler()
	cron.RegisterSessionPurge(scheduler, sessionSvc, cfg.Session.PurgeInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "postgres", store.IsPostgres())
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
