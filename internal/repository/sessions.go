package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/01moynul/innowood/internal/models"
)

// CreateSession stores a new admin session row.
func (r *Repository) CreateSession(ctx context.Context, s models.AdminSession) error {
	query := "INSERT INTO admin_sessions (id, email, created_at, expires_at) VALUES (?, ?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, r.q(query), s.ID, s.Email, s.CreatedAt, s.ExpiresAt); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession returns a session row or models.ErrNotFound.
func (r *Repository) GetSession(ctx context.Context, id string) (*models.AdminSession, error) {
	var (
		s       models.AdminSession
		revoked sql.NullTime
	)

	query := "SELECT id, email, created_at, expires_at, revoked_at FROM admin_sessions WHERE id = ?"
	err := r.db.QueryRowContext(ctx, r.q(query), id).Scan(&s.ID, &s.Email, &s.CreatedAt, &s.ExpiresAt, &revoked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if revoked.Valid {
		t := revoked.Time
		s.RevokedAt = &t
	}
	return &s, nil
}

// ExtendSession moves the expiry of an active session.
func (r *Repository) ExtendSession(ctx context.Context, id string, expiresAt time.Time) error {
	query := "UPDATE admin_sessions SET expires_at = ? WHERE id = ? AND revoked_at IS NULL"
	if _, err := r.db.ExecContext(ctx, r.q(query), expiresAt, id); err != nil {
		return fmt.Errorf("extend session: %w", err)
	}
	return nil
}

// RevokeSession marks a session as signed out.
func (r *Repository) RevokeSession(ctx context.Context, id string, at time.Time) error {
	query := "UPDATE admin_sessions SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL"
	if _, err := r.db.ExecContext(ctx, r.q(query), at, id); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions purges rows that expired before the cutoff.
func (r *Repository) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.q("DELETE FROM admin_sessions WHERE expires_at < ?"), before)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
