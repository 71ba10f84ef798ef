package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName            string   `env:"APP_NAME" envDefault:"ifu"`
	AppEnv             string   `env:"APP_ENV,required"` // 'development' or 'production'
	AppURL             string   `env:"APP_URL,required"` // base URL for OAuth redirects
	Port               string   `env:"PORT" envDefault:"8090"`
	Timezone           string   `env:"APP_TIMEZONE" envDefault:"UTC"`
	ContentPath        string   `env:"CONTENT_PATH" envDefault:"content"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	SupportEmail       string   `env:"SUPPORT_EMAIL" envDefault:"hello@example.com"`

	// Reference zone for day and week boundaries, resolved from Timezone.
	Location *time.Location `env:"-"`

	// Database (sqlite by default, pgx for PostgreSQL)
	DBDriver     string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBConnection string `env:"DB_CONNECTION" envDefault:"./data/ifu.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"`

	// Security
	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`
	OTPExpiry time.Duration `env:"OTP_EXPIRY" envDefault:"10m"`

	// OAuth
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	// Email (RESEND_API_KEY optional in development, required in production)
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"noreply@example.com"`
	ResendAPIKey string `env:"RESEND_API_KEY"`

	// Observability (optional)
	SentryDSN string `env:"SENTRY_DSN"`

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region               string        `env:"S3_REGION,required"`
	S3Bucket               string        `env:"S3_BUCKET,required"`
	S3AccessKey            string        `env:"S3_ACCESS_KEY,required"`
	S3SecretKey            string        `env:"S3_SECRET_KEY,required"`
	S3Endpoint             string        `env:"S3_ENDPOINT"`
	S3PresignExpiryPublic  time.Duration `env:"S3_PRESIGN_EXPIRY_PUBLIC" envDefault:"168h"`
	S3PresignExpiryPrivate time.Duration `env:"S3_PRESIGN_EXPIRY_PRIVATE" envDefault:"1h"`

	// Maintenance
	CleanupSchedule string `env:"CLEANUP_SCHEDULE" envDefault:"@hourly"`
}

// Load reads .env (if present) and the process environment. Missing or
// invalid settings are fatal.
func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := Parse(env.Options{})
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	return cfg
}

// Parse builds a Config from opts.Environment, or from the process
// environment when that is nil.
func Parse(opts env.Options) (*Config, error) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, opts)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if cfg.IsProduction() {
		err = validateProduction(&cfg)
		if err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// validateProduction ensures services that have development fallbacks are
// configured for real deployments.
func validateProduction(cfg *Config) error {
	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("production deployment requires RESEND_API_KEY (set APP_ENV=development for email log mode)")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// Sanitized returns a copy of the config with only public fields.
// Safe to place in request context.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:      c.AppName,
		AppEnv:       c.AppEnv,
		AppURL:       c.AppURL,
		Port:         c.Port,
		Timezone:     c.Timezone,
		Location:     c.Location,
		SupportEmail: c.SupportEmail,
		EmailFrom:    c.EmailFrom,

		GoogleClientID: c.GoogleClientID,
	}
}
