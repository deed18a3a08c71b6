package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is a login issued to a user; Token is the signed JWT handed out in the session cookie.
type Session struct {
	ID        int64     `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	IsActive  bool      `db:"is_active" json:"is_active"`
}

// Live reports whether the session may still authenticate requests at now.
func (s *Session) Live(now time.Time) bool {
	return s.IsActive && now.Before(s.ExpiresAt)
}
