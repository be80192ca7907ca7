// Package auth implements the admin session: credential check, signed cookie
// token and the revocable session row behind it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/01moynul/innowood/internal/models"
	"github.com/google/uuid"
)

// CookieName is the name of the session cookie.
const CookieName = "innowood_session"

// ErrInvalidCredentials is returned by SignIn for a wrong email or password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// SessionStatus is the outcome of a session check.
type SessionStatus int

const (
	// Unauthenticated means there is no usable session.
	Unauthenticated SessionStatus = iota
	// Authenticated means the session is valid.
	Authenticated
	// CheckFailed means the session store could not be reached.
	CheckFailed
)

func (s SessionStatus) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case CheckFailed:
		return "check_failed"
	default:
		return "unauthenticated"
	}
}

// CheckResult is returned by Manager.Check.
type CheckResult struct {
	Status  SessionStatus
	Session *models.AdminSession
	// RefreshedToken is set when the session was extended and the cookie must be re-issued.
	RefreshedToken string
	Err            error
}

// SessionStore persists admin sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, s models.AdminSession) error
	GetSession(ctx context.Context, id string) (*models.AdminSession, error)
	ExtendSession(ctx context.Context, id string, expiresAt time.Time) error
	RevokeSession(ctx context.Context, id string, at time.Time) error
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	AdminEmail   string
	PasswordHash string
	TTL          time.Duration
	// Refresh is the window before expiry in which a checked session is extended.
	Refresh time.Duration
}

// Manager signs admins in and out and checks their sessions.
type Manager struct {
	store  SessionStore
	signer *TokenSigner
	cfg    ManagerConfig
	now    func() time.Time
	newID  func() string
}

// NewManager creates a Manager.
func NewManager(store SessionStore, signer *TokenSigner, cfg ManagerConfig) *Manager {
	return &Manager{
		store:  store,
		signer: signer,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// TTL is the lifetime of a new or refreshed session.
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}

// SignIn verifies the admin credentials, stores a session and returns its token.
func (m *Manager) SignIn(ctx context.Context, email, password string) (string, error) {
	// 1. Verify credentials. The hash is always compared so both failure paths cost the same.
	emailOK := strings.EqualFold(strings.TrimSpace(email), m.cfg.AdminEmail)
	passwordOK := checkPassword([]byte(m.cfg.PasswordHash), password)
	if !emailOK || !passwordOK {
		return "", ErrInvalidCredentials
	}

	// 2. Store the session row
	now := m.now()
	session := models.AdminSession{
		ID:        m.newID(),
		Email:     m.cfg.AdminEmail,
		CreatedAt: now,
		ExpiresAt: now.Add(m.cfg.TTL),
	}
	if err := m.store.CreateSession(ctx, session); err != nil {
		return "", err
	}

	// 3. Sign the cookie token
	token, err := m.signer.Generate(session.ID, session.Email, session.ExpiresAt)
	if err != nil {
		return "", err
	}

	slog.Info("admin signed in", "session_id", session.ID)
	return token, nil
}

// Check resolves a cookie token into a session status.
// An unreadable store yields CheckFailed, never Authenticated.
func (m *Manager) Check(ctx context.Context, token string) CheckResult {
	if token == "" {
		return CheckResult{Status: Unauthenticated}
	}

	// 1. Token signature and expiry
	claims, err := m.signer.Validate(token)
	if err != nil {
		return CheckResult{Status: Unauthenticated}
	}

	// 2. Session row
	session, err := m.store.GetSession(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return CheckResult{Status: Unauthenticated}
		}
		return CheckResult{Status: CheckFailed, Err: fmt.Errorf("check session: %w", err)}
	}

	now := m.now()
	if !session.ActiveAt(now) || session.Email != claims.Subject {
		return CheckResult{Status: Unauthenticated}
	}

	result := CheckResult{Status: Authenticated, Session: session}

	// 3. Refresh sessions that are about to expire
	if session.ExpiresAt.Sub(now) <= m.cfg.Refresh {
		expiresAt := now.Add(m.cfg.TTL)
		if err := m.store.ExtendSession(ctx, session.ID, expiresAt); err != nil {
			slog.Warn("session refresh failed", "session_id", session.ID, "error", err)
			return result
		}
		refreshed, err := m.signer.Generate(session.ID, session.Email, expiresAt)
		if err != nil {
			slog.Warn("session refresh signing failed", "session_id", session.ID, "error", err)
			return result
		}
		session.ExpiresAt = expiresAt
		result.RefreshedToken = refreshed
	}

	return result
}

// SignOut revokes the session behind token. Invalid tokens are ignored.
func (m *Manager) SignOut(ctx context.Context, token string) error {
	claims, err := m.signer.Validate(token)
	if err != nil {
		return nil
	}
	if err := m.store.RevokeSession(ctx, claims.ID, m.now()); err != nil {
		return err
	}
	slog.Info("admin signed out", "session_id", claims.ID)
	return nil
}
