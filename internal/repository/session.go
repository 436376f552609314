package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/session"
)

type sessionRepositoryImpl struct {
	store *Store
}

func NewSessionRepository(store *Store) session.SessionRepository {
	return &sessionRepositoryImpl{store: store}
}

func sessionFromRow(r record.Row) session.Session {
	s := session.Session{
		ID:        r.ID(),
		SessionID: r.String("session_id"),
		UserID:    r.Int64("user_id"),
	}
	if t := r.Time("expires_at"); t != nil {
		s.ExpiresAt = *t
	}
	if t := r.Time("created_at"); t != nil {
		s.CreatedAt = *t
	}
	return s
}

// Create implements session.SessionRepository.
func (r *sessionRepositoryImpl) Create(ctx context.Context, s session.Session) (session.Session, error) {
	id, err := r.store.Insert(ctx, record.TableSessions, record.Row{
		"session_id": s.SessionID,
		"user_id":    s.UserID,
		"expires_at": s.ExpiresAt.UTC(),
		"created_at": s.CreatedAt.UTC(),
	})
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to create session: %w", err)
	}
	s.ID = id
	return s, nil
}

// GetBySessionID implements session.SessionRepository.
func (r *sessionRepositoryImpl) GetBySessionID(ctx context.Context, sessionID string) (session.Session, error) {
	row, err := r.store.FindOne(ctx, record.Query{
		Table:  record.TableSessions,
		Filter: record.Where(record.Eq("session_id", sessionID)),
	})
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return session.Session{}, session.ErrSessionNotFound
		}
		return session.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	return sessionFromRow(row), nil
}

// DeleteBySessionID implements session.SessionRepository.
func (r *sessionRepositoryImpl) DeleteBySessionID(ctx context.Context, sessionID string) error {
	n, err := r.store.RemoveWhere(ctx, record.TableSessions, record.Where(record.Eq("session_id", sessionID)))
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

// DeleteExpired implements session.SessionRepository.
func (r *sessionRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	n, err := r.store.RemoveWhere(ctx, record.TableSessions, record.Where(record.Lte("expires_at", now.UTC())))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return int(n), nil
}
