package domain

import "time"

// ResetToken is a one-time PIN that authorizes a password reset for Email.
// The PIN is stored as issued.
type ResetToken struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	PIN       string    `db:"pin" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Used      bool      `db:"used" json:"used"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Expired reports whether now is past the token's expiry.
func (t *ResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
