package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName         string
	AppEnv          string
	AppURL          string
	Port            string
	SupportEmail    string
	ContentPath     string
	DefaultTimezone string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret                string
	JWTExpiry                time.Duration
	GuestSessionExpiry       time.Duration
	TokenPasswordResetExpiry time.Duration
	TokenRetention           time.Duration
	AuthTimeout              time.Duration

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Firebase (optional: push notifications and the Firestore mirror)
	FirebaseCredentialsFile string
	FirebaseProjectID       string
	FirestoreMirror         bool

	// Scheduler (cron expressions with a seconds field)
	ReminderSchedule     string
	ReminderHour         int // Local hour at which each device is reminded
	TokenCleanupSchedule string

	// Observability (optional)
	SentryDSN string

	// Storage for device backups (S3-compatible, optional)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string        // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
	S3PresignExpiry time.Duration // Lifetime of backup download links
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:         envString("APP_NAME", "Daily Bible"),
		AppEnv:          envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:          envRequired("APP_URL"), // Required: base URL for email links
		Port:            envString("PORT", "8090"),
		SupportEmail:    envString("SUPPORT_EMAIL", "hello@example.com"),
		ContentPath:     envString("CONTENT_PATH", "content"),
		DefaultTimezone: envString("DEFAULT_TIMEZONE", "UTC"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/dailybible.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		JWTSecret:                envRequired("JWT_SECRET"),
		JWTExpiry:                envDuration("JWT_EXPIRY", 168*time.Hour),                // 7 days
		GuestSessionExpiry:       envDuration("GUEST_SESSION_EXPIRY", 720*time.Hour),      // 30 days
		TokenPasswordResetExpiry: envDuration("TOKEN_PASSWORD_RESET_EXPIRY", 1*time.Hour), // 1 hour
		TokenRetention:           envDuration("TOKEN_RETENTION", 720*time.Hour),           // 30 days
		AuthTimeout:              envDuration("AUTH_TIMEOUT", 10*time.Second),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Firebase
		FirebaseCredentialsFile: envString("FIREBASE_CREDENTIALS_FILE", ""),
		FirebaseProjectID:       envString("FIREBASE_PROJECT_ID", ""),
		FirestoreMirror:         envBool("FIRESTORE_MIRROR", false),

		// Scheduler
		ReminderSchedule:     envString("REMINDER_SCHEDULE", "0 0 * * * *"), // hourly
		ReminderHour:         envHour("REMINDER_HOUR", 8),
		TokenCleanupSchedule: envString("TOKEN_CLEANUP_SCHEDULE", "0 0 3 * * 0"),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:        envString("S3_REGION", ""),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows some services (like email) to use fallback modes for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envHour(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	h, err := strconv.Atoi(v)
	if err != nil || h < 0 || h > 23 {
		slog.Warn("config invalid hour, using default", "key", key, "value", v, "default", def)
		return def
	}
	return h
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// FirebaseEnabled reports whether push notifications and the Firestore mirror can be set up.
func (c *Config) FirebaseEnabled() bool {
	return c.FirebaseCredentialsFile != ""
}

// BackupsEnabled reports whether an S3 bucket is configured for device backups.
func (c *Config) BackupsEnabled() bool {
	return c.S3Bucket != ""
}

// Location resolves DefaultTimezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		slog.Warn("config invalid timezone, using UTC", "timezone", c.DefaultTimezone, "error", err)
		return time.UTC
	}
	return loc
}
