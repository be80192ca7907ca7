// Package middleware holds the gin middleware guarding the admin back office.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/01moynul/innowood/internal/auth"
	"github.com/01moynul/innowood/internal/models"
	"github.com/gin-gonic/gin"
)

const (
	AdminPrefix = "/admin"
	LoginPath   = "/admin/login"
	LandingPath = "/admin/dashboard"
	sessionKey  = "adminSession"
)

// Decision is the outcome of the gate for one request.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectLanding
)

var excludedPrefixes = []string{"/static/", "/uploads/", "/staged/"}

var staticImageExt = map[string]bool{
	".svg": true, ".png": true, ".jpg": true, ".jpeg": true,
	".gif": true, ".webp": true, ".ico": true,
}

// IsExcluded reports whether a path bypasses session evaluation entirely.
// Every /admin path is evaluated, whatever its extension.
func IsExcluded(p string) bool {
	if p == "/favicon.ico" {
		return true
	}
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return !isAdminPath(p) && staticImageExt[strings.ToLower(path.Ext(p))]
}

func isAdminPath(p string) bool {
	return p == AdminPrefix || strings.HasPrefix(p, AdminPrefix+"/")
}

// Decide maps a path and a session status onto a gate decision.
// CheckFailed is treated like Unauthenticated.
func Decide(p string, status auth.SessionStatus) Decision {
	if IsExcluded(p) {
		return Allow
	}
	authenticated := status == auth.Authenticated

	if !authenticated && isAdminPath(p) && p != LoginPath {
		return RedirectLogin
	}
	if authenticated && p == LoginPath {
		return RedirectLanding
	}
	return Allow
}

// SessionChecker resolves a session token.
type SessionChecker interface {
	Check(ctx context.Context, token string) auth.CheckResult
}

// AdminGate creates the gin middleware that protects /admin.
func AdminGate(sessions SessionChecker, cookie CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path

		// 1. --- Static assets never touch the session store ---
		if IsExcluded(p) {
			c.Next()
			return
		}

		// 2. --- Resolve the session ---
		token, _ := c.Cookie(auth.CookieName)
		result := sessions.Check(c.Request.Context(), token)

		switch result.Status {
		case auth.CheckFailed:
			slog.Error("session check failed", "path", p, "error", result.Err)
		case auth.Authenticated:
			c.Set(sessionKey, result.Session)
			if result.RefreshedToken != "" {
				SetSessionCookie(c, cookie, result.RefreshedToken)
			}
		}

		// 3. --- Decide ---
		switch Decide(p, result.Status) {
		case RedirectLogin:
			if result.Status == auth.Unauthenticated && token != "" {
				ClearSessionCookie(c, cookie)
			}
			redirect(c, LoginPath)
			c.Abort()
		case RedirectLanding:
			redirect(c, LandingPath)
			c.Abort()
		default:
			c.Next()
		}
	}
}

// redirect uses 302 for safe methods and 303 after a form post.
func redirect(c *gin.Context, location string) {
	code := http.StatusSeeOther
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		code = http.StatusFound
	}
	c.Redirect(code, location)
}

// SessionFromContext returns the session stored by AdminGate.
func SessionFromContext(c *gin.Context) (*models.AdminSession, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*models.AdminSession)
	return s, ok && s != nil
}
