package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/01moynul/innowood/internal/ai"
	"github.com/01moynul/innowood/internal/auth"
	"github.com/01moynul/innowood/internal/config"
	"github.com/01moynul/innowood/internal/database"
	"github.com/01moynul/innowood/internal/handlers"
	"github.com/01moynul/innowood/internal/middleware"
	"github.com/01moynul/innowood/internal/repository"
	"github.com/01moynul/innowood/internal/routes"
	"github.com/01moynul/innowood/internal/staging"
	"github.com/01moynul/innowood/internal/storage"
	"github.com/01moynul/innowood/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

const (
	sessionPurgeInterval = time.Hour
	stagingSweepInterval = 10 * time.Minute
	shutdownTimeout      = 15 * time.Second
)

func newServeCommand() *cobra.Command {
	serveFlags := envFileFlags()
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), serveFlags[envFileFlag].GetString())
		},
	}

	cobraflags.RegisterMap(serveCmd, serveFlags)
	return serveCmd
}

// runServe wires every dependency and serves HTTP until SIGINT or SIGTERM.
func runServe(parent context.Context, envFile string) error {
	// 0. --- Load Configuration ---
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if err := cfg.ValidateServe(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	slog.SetDefault(config.NewLogger(cfg.LogLevel))
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. --- Database Connection ---
	dialect, err := database.NormalizeDialect(cfg.DBDriver)
	if err != nil {
		return err
	}
	db, err := database.OpenDB(ctx, dialect, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	repo := repository.New(db, dialect)

	// 2. --- Image Storage ---
	store, err := storage.NewLocalStore(cfg.StorageRoot, cfg.StorageBucket, cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to open image storage: %w", err)
	}
	previews := staging.NewRegistry(cfg.StagingMaxBytes)

	// 3. --- Admin Sessions ---
	sessions := auth.NewManager(repo, auth.NewTokenSigner(cfg.SessionSecret), auth.ManagerConfig{
		AdminEmail:   cfg.AdminEmail,
		PasswordHash: cfg.AdminPasswordHash,
		TTL:          cfg.SessionTTL,
		Refresh:      cfg.SessionRefresh,
	})
	cookie := middleware.CookieOptions{
		Secure: strings.HasPrefix(cfg.BaseURL, "https://"),
		TTL:    cfg.SessionTTL,
	}

	app := &handlers.Handlers{
		Catalog:     repo,
		Uploader:    storage.NewUploader(store),
		Sessions:    sessions,
		Staging:     previews,
		ChatBaseURL: cfg.ChatBaseURL,
		Cookie:      cookie,
	}

	// 4. --- Description Drafting (optional) ---
	if cfg.AIEnabled() {
		writer, err := ai.NewDescriptionWriter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return fmt.Errorf("failed to initialize description writer: %w", err)
		}
		defer writer.Close()
		app.Describer = writer
	} else {
		slog.Info("GEMINI_API_KEY not set, description drafting disabled")
	}

	// 5. --- Background Workers ---
	go previews.RunSweeper(ctx, stagingSweepInterval, cfg.StagingMaxAge)
	go purgeExpiredSessions(ctx, repo, sessionPurgeInterval)

	// 6. --- Router Setup ---
	templates, err := web.Templates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	router := routes.SetupRouter(app, routes.Options{
		Sessions:   sessions,
		Templates:  templates,
		UploadsDir: store.Root(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 7. --- Start Server ---
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

type expiredSessionPurger interface {
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// purgeExpiredSessions deletes expired and revoked admin sessions on every tick until ctx is done.
func purgeExpiredSessions(ctx context.Context, repo expiredSessionPurger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("background worker started: purging expired admin sessions", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpiredSessions(ctx, time.Now().UTC())
			if err != nil {
				slog.Error("purge expired sessions failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("purged expired admin sessions", "count", n)
			}
		}
	}
}
