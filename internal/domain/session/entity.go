package session

import "time"

type Session struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its absolute expiry.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
