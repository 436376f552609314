package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
	"github.com/google/uuid"
)

type SessionServiceImpl struct {
	sessionRepo session.SessionRepository
	ttl         time.Duration
	now         func() time.Time
}

func NewSessionService(sessionRepo session.SessionRepository, ttl time.Duration) session.SessionService {
	return &SessionServiceImpl{
		sessionRepo: sessionRepo,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Create implements session.SessionService.
func (s *SessionServiceImpl) Create(ctx context.Context, userID int64) (session.Session, error) {
	now := s.now().UTC()
	created, err := s.sessionRepo.Create(ctx, session.Session{
		SessionID: uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	})
	if err != nil {
		return session.Session{}, err
	}
	return created, nil
}

// Get implements session.SessionService.
func (s *SessionServiceImpl) Get(ctx context.Context, sessionID string) (session.Session, error) {
	sess, err := s.sessionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	if sess.Expired(s.now()) {
		if err := s.sessionRepo.DeleteBySessionID(ctx, sessionID); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
			slog.Warn("failed to delete expired session", "session_id", sessionID, "error", err)
		}
		return session.Session{}, session.ErrSessionExpired
	}
	return sess, nil
}

// Delete implements session.SessionService.
func (s *SessionServiceImpl) Delete(ctx context.Context, sessionID string) error {
	return s.sessionRepo.DeleteBySessionID(ctx, sessionID)
}

// PurgeExpired implements session.SessionService.
func (s *SessionServiceImpl) PurgeExpired(ctx context.Context) (int, error) {
	n, err := s.sessionRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	if n > 0 {
		slog.Info("purged expired sessions", "count", n)
	}
	return n, nil
}
