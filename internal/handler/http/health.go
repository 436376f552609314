package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
)

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler interface {
	Live(w http.ResponseWriter, r *http.Request)
	Ready(w http.ResponseWriter, r *http.Request)
}

type healthHandlerImpl struct {
	pinger  Pinger
	timeout time.Duration
}

func NewHealthHandler(pinger Pinger, timeout time.Duration) HealthHandler {
	return &healthHandlerImpl{pinger: pinger, timeout: timeout}
}

// Live implements HealthHandler.
func (h *healthHandlerImpl) Live(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{"status": "ok"})
}

// Ready implements HealthHandler.
func (h *healthHandlerImpl) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		slog.Warn("readiness check failed", "error", err)
		response.ServiceUnavailable(w, "Storage backend unavailable")
		return
	}
	response.Success(w, map[string]string{"status": "ready"})
}
