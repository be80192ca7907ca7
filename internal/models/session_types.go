package models

import "time"

// AdminSession is the model for the 'admin_sessions' table.
type AdminSession struct {
	ID        string     `json:"id" db:"id"`
	Email     string     `json:"email" db:"email"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty" db:"revoked_at"`
}

// ActiveAt reports whether the session is usable at t.
func (s AdminSession) ActiveAt(t time.Time) bool {
	return s.RevokedAt == nil && t.Before(s.ExpiresAt)
}
