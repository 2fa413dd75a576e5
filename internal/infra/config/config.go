package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application. It is built once at
// startup and passed explicitly to every component; core logic never reads
// the environment.
type AppConfig struct {
	DatabaseURL    string
	HTTPAddr       string
	AdminPassword  string
	AllowedOrigins []string
	LogLevel       string
	Environment    string

	// Email dispatch
	EmailDriver    string // "sendgrid" or "console"
	SendgridAPIKey string
	FromName       string
	FromEmail      string

	// Reminder tunables
	ReminderLeadDays    int
	SendDelay           time.Duration
	SendTimeout         time.Duration
	LedgerRetentionDays int

	// Cron schedules
	CronSpecDailyCheck  string
	CronSpecLedgerPurge string

	SessionTTL time.Duration
}

// Load reads configuration from environment variables and a .env file if one
// is present. godotenv never overrides variables already set.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.HTTPAddr = envString("HTTP_ADDR", ":8080")
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.AllowedOrigins = strings.Split(envString("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ",")

	cfg.LogLevel = strings.ToLower(envString("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(envString("ENVIRONMENT", "development"))

	cfg.EmailDriver = strings.ToLower(envString("EMAIL_DRIVER", "console"))
	cfg.SendgridAPIKey = os.Getenv("SENDGRID_API_KEY")
	cfg.FromName = envString("EMAIL_FROM_NAME", "UAV License Tracker")
	cfg.FromEmail = envString("EMAIL_FROM_ADDRESS", "noreply@example.com")
	// Missing provider credentials are a configuration error: abort here,
	// before any subject could be processed.
	if cfg.EmailDriver == "sendgrid" && cfg.SendgridAPIKey == "" {
		return nil, fmt.Errorf("EMAIL_DRIVER is sendgrid but SENDGRID_API_KEY is not set")
	}

	var err error
	if cfg.ReminderLeadDays, err = envInt("REMINDER_LEAD_DAYS", 45); err != nil {
		return nil, err
	}
	if cfg.LedgerRetentionDays, err = envInt("LEDGER_RETENTION_DAYS", 365); err != nil {
		return nil, err
	}
	if cfg.SendDelay, err = envDuration("SEND_DELAY", time.Second); err != nil {
		return nil, err
	}
	if cfg.SendTimeout, err = envDuration("SEND_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = envDuration("SESSION_TTL", 12*time.Hour); err != nil {
		return nil, err
	}

	cfg.CronSpecDailyCheck = envString("CRON_SPEC_DAILY_CHECK", "0 8 * * *")
	cfg.CronSpecLedgerPurge = envString("CRON_SPEC_LEDGER_PURGE", "0 3 1 * *")

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
