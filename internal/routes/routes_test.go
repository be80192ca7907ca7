package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/01moynul/innowood/internal/auth"
	"github.com/01moynul/innowood/internal/handlers"
	"github.com/01moynul/innowood/internal/middleware"
	"github.com/01moynul/innowood/internal/models"
	"github.com/01moynul/innowood/internal/staging"
	"github.com/01moynul/innowood/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	status auth.SessionStatus
	calls  int
}

func (s *stubChecker) Check(context.Context, string) auth.CheckResult {
	s.calls++
	if s.status == auth.Authenticated {
		return auth.CheckResult{Status: s.status, Session: &models.AdminSession{ID: "s1", Email: "admin@innowood.com"}}
	}
	return auth.CheckResult{Status: s.status}
}

func setupTestRouter(t *testing.T, checker *stubChecker) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tmpl, err := web.Templates()
	require.NoError(t, err)

	uploads := t.TempDir()
	h := &handlers.Handlers{
		Staging: staging.NewRegistry(1 << 20),
		Cookie:  middleware.CookieOptions{TTL: time.Hour},
	}
	return SetupRouter(h, Options{Sessions: checker, Templates: tmpl, UploadsDir: uploads}), uploads
}

func serve(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestSetupRouter_Gate(t *testing.T) {
	testCases := []struct {
		name             string
		status           auth.SessionStatus
		method           string
		target           string
		expectedStatus   int
		expectedLocation string
	}{
		{"Anonymous admin page redirects to login", auth.Unauthenticated, http.MethodGet, "/admin/products", http.StatusFound, middleware.LoginPath},
		{"Anonymous admin post redirects with 303", auth.Unauthenticated, http.MethodPost, "/admin/products/p1/delete", http.StatusSeeOther, middleware.LoginPath},
		{"Anonymous category update with an image-like id", auth.Unauthenticated, http.MethodPost, "/admin/categories/x.png", http.StatusSeeOther, middleware.LoginPath},
		{"Anonymous product update with an image-like id", auth.Unauthenticated, http.MethodPost, "/admin/products/x.jpg", http.StatusSeeOther, middleware.LoginPath},
		{"Failed check is treated as anonymous", auth.CheckFailed, http.MethodGet, "/admin", http.StatusFound, middleware.LoginPath},
		{"Signed-in admin skips the login page", auth.Authenticated, http.MethodGet, "/admin/login", http.StatusFound, middleware.LandingPath},
		{"Anonymous login page renders", auth.Unauthenticated, http.MethodGet, "/admin/login", http.StatusOK, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			checker := &stubChecker{status: tc.status}
			r, _ := setupTestRouter(t, checker)

			rec := serve(r, tc.method, tc.target)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			assert.Equal(t, tc.expectedLocation, rec.Header().Get("Location"))
			assert.Equal(t, 1, checker.calls)
		})
	}
}

func TestSetupRouter_StaticAssetsBypassGate(t *testing.T) {
	checker := &stubChecker{status: auth.CheckFailed}
	r, uploads := setupTestRouter(t, checker)
	require.NoError(t, os.MkdirAll(filepath.Join(uploads, "innowood-image"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(uploads, "innowood-image", "a.png"), []byte("png"), 0o644))

	for _, target := range []string{"/static/app.css", "/favicon.ico", "/uploads/innowood-image/a.png"} {
		rec := serve(r, http.MethodGet, target)
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
	assert.Equal(t, 0, checker.calls)
}

func TestSetupRouter_PingAndNoRoute(t *testing.T) {
	r, _ := setupTestRouter(t, &stubChecker{status: auth.Unauthenticated})

	rec := serve(r, http.MethodGet, "/ping")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"pong!"}`, rec.Body.String())

	rec = serve(r, http.MethodGet, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}
