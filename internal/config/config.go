// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the server and the CLI.
type Config struct {
	Port    string
	BaseURL string

	DBDriver string
	DBDSN    string

	StorageRoot   string
	StorageBucket string

	SessionSecret  string
	SessionTTL     time.Duration
	SessionRefresh time.Duration

	AdminEmail        string
	AdminPasswordHash string

	ChatBaseURL string

	GeminiAPIKey string
	GeminiModel  string

	StagingMaxAge   time.Duration
	StagingMaxBytes int64

	LogLevel string
}

var defaults = map[string]any{
	"PORT":            "8080",
	"BASE_URL":        "http://localhost:8080",
	"DB_DRIVER":       "mysql",
	"STORAGE_ROOT":    "./uploads",
	"STORAGE_BUCKET":  "innowood-image",
	"SESSION_TTL":     "24h",
	"SESSION_REFRESH": "1h",
	"CHAT_BASE_URL":   "https://t.me/Samphors_Pheng",
	"GEMINI_MODEL":    "gemini-1.5-flash",
	"STAGING_MAX_AGE": "1h",
	"STAGING_MAX_MB":  256,
	"LOG_LEVEL":       "info",
}

// keys that have no default but must still be visible to viper's AutomaticEnv lookups.
var requiredKeys = []string{
	"DB_DSN",
	"SESSION_SECRET",
	"ADMIN_EMAIL",
	"ADMIN_PASSWORD_HASH",
	"GEMINI_API_KEY",
}

// Load reads envFile (when it exists) into the process environment and then
// binds the environment into a Config. A missing envFile is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("load %s: %w", envFile, err)
			}
			slog.Warn("env file not found, relying on process environment", "file", envFile)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range requiredKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := &Config{
		Port:              v.GetString("PORT"),
		BaseURL:           strings.TrimRight(v.GetString("BASE_URL"), "/"),
		DBDriver:          v.GetString("DB_DRIVER"),
		DBDSN:             v.GetString("DB_DSN"),
		StorageRoot:       v.GetString("STORAGE_ROOT"),
		StorageBucket:     v.GetString("STORAGE_BUCKET"),
		SessionSecret:     v.GetString("SESSION_SECRET"),
		AdminEmail:        v.GetString("ADMIN_EMAIL"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		ChatBaseURL:       v.GetString("CHAT_BASE_URL"),
		GeminiAPIKey:      v.GetString("GEMINI_API_KEY"),
		GeminiModel:       v.GetString("GEMINI_MODEL"),
		StagingMaxBytes:   v.GetInt64("STAGING_MAX_MB") << 20,
		LogLevel:          v.GetString("LOG_LEVEL"),
	}

	// Durations are parsed explicitly so that a typo is reported instead of becoming zero.
	var err error
	if cfg.SessionTTL, err = parseDuration(v, "SESSION_TTL"); err != nil {
		return nil, err
	}
	if cfg.SessionRefresh, err = parseDuration(v, "SESSION_REFRESH"); err != nil {
		return nil, err
	}
	if cfg.StagingMaxAge, err = parseDuration(v, "STAGING_MAX_AGE"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}

// ValidateMigrate checks the settings needed to reach the database.
func (c *Config) ValidateMigrate() error {
	if c.DBDSN == "" {
		return errors.New("DB_DSN is required")
	}
	return nil
}

// ValidateServe checks the settings needed to run the HTTP server.
func (c *Config) ValidateServe() error {
	var errs []error
	if err := c.ValidateMigrate(); err != nil {
		errs = append(errs, err)
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}
	if c.AdminEmail == "" {
		errs = append(errs, errors.New("ADMIN_EMAIL is required"))
	}
	if c.AdminPasswordHash == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD_HASH is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.SessionRefresh >= c.SessionTTL {
		errs = append(errs, errors.New("SESSION_REFRESH must be shorter than SESSION_TTL"))
	}
	if c.StagingMaxBytes <= 0 {
		errs = append(errs, errors.New("STAGING_MAX_MB must be positive"))
	}
	return errors.Join(errs...)
}

// AIEnabled reports whether description drafting can be offered.
func (c *Config) AIEnabled() bool {
	return c.GeminiAPIKey != ""
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// NewLogger builds the JSON slog logger for the configured level.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
