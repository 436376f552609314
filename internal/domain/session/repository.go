package session

import (
	"context"
	"time"
)

type SessionRepository interface {
	Create(ctx context.Context, s Session) (Session, error)
	GetBySessionID(ctx context.Context, sessionID string) (Session, error)
	DeleteBySessionID(ctx context.Context, sessionID string) error
	// DeleteExpired removes sessions that expired at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
