package middleware

import (
	"net/http"
	"time"

	"github.com/01moynul/innowood/internal/auth"
	"github.com/gin-gonic/gin"
)

// CookieOptions configures the session cookie.
type CookieOptions struct {
	Secure bool
	TTL    time.Duration
}

// SetSessionCookie writes the session token as an HttpOnly cookie.
func SetSessionCookie(c *gin.Context, opts CookieOptions, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(opts.TTL.Seconds()), "/", "", opts.Secure, true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", opts.Secure, true)
}
