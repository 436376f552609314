package session

import "context"

type SessionService interface {
	Create(ctx context.Context, userID int64) (Session, error)
	// Get returns ErrSessionExpired, deleting the row, once a session is past expiry.
	Get(ctx context.Context, sessionID string) (Session, error)
	Delete(ctx context.Context, sessionID string) error
	PurgeExpired(ctx context.Context) (int, error)
}
