package cron

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
)

// RegisterSessionPurge removes expired sessions every interval.
func RegisterSessionPurge(s *Scheduler, sessions session.SessionService, interval time.Duration) {
	s.AddJob("purge_expired_sessions", interval, func(ctx context.Context) error {
		_, err := sessions.PurgeExpired(ctx)
		return err
	})
}
