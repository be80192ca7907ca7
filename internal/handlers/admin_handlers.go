package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/01moynul/innowood/internal/auth"
	"github.com/01moynul/innowood/internal/middleware"
	"github.com/gin-gonic/gin"
)

// LoginInput is the sign-in form.
type LoginInput struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// LoginPage handles GET /admin/login
func (h *Handlers) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login", gin.H{"Title": "Sign in", "Email": ""})
}

// Login handles POST /admin/login
func (h *Handlers) Login(c *gin.Context) {
	// 1. Bind the form
	var input LoginInput
	if err := c.ShouldBind(&input); err != nil {
		render(c, http.StatusBadRequest, "login", gin.H{
			"Title": "Sign in", "Email": input.Email, "Alert": "Email and password are required",
		})
		return
	}

	// 2. Check credentials and open a session
	token, err := h.Sessions.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			render(c, http.StatusUnauthorized, "login", gin.H{
				"Title": "Sign in", "Email": input.Email, "Alert": "Invalid email or password",
			})
			return
		}
		slog.Error("sign in failed", "error", err)
		render(c, http.StatusInternalServerError, "login", gin.H{
			"Title": "Sign in", "Email": input.Email, "Alert": "Sign in is unavailable, please try again",
		})
		return
	}

	// 3. Set the cookie and go to the dashboard
	middleware.SetSessionCookie(c, h.Cookie, token)
	redirectSeeOther(c, middleware.LandingPath)
}

// Logout handles POST /admin/logout
func (h *Handlers) Logout(c *gin.Context) {
	if token, err := c.Cookie(auth.CookieName); err == nil {
		if err := h.Sessions.SignOut(c.Request.Context(), token); err != nil {
			slog.Error("sign out failed", "error", err)
		}
	}
	middleware.ClearSessionCookie(c, h.Cookie)
	redirectSeeOther(c, middleware.LoginPath)
}
